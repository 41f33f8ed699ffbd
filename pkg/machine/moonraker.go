// Moonraker websocket transport for G-code delivery.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// MoonrakerClient sends G-code lines to a Moonraker API server over its
// JSON-RPC websocket. It implements LineWriter; each line is executed via
// printer.gcode.script and the call blocks until the server acknowledges,
// matching the engine's blocking-per-action contract.
type MoonrakerClient struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

type rpcRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
	ID      int64          `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int64           `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DialMoonraker connects to a Moonraker websocket endpoint, e.g.
// ws://localhost:7125/websocket.
func DialMoonraker(url string) (*MoonrakerClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("machine: dial moonraker %s: %w", url, err)
	}
	return &MoonrakerClient{conn: conn}, nil
}

// WriteLine executes one G-code line on the printer.
func (c *MoonrakerClient) WriteLine(line string) error {
	return c.call("printer.gcode.script", map[string]any{"script": line})
}

// call performs one JSON-RPC round trip, skipping unrelated notification
// traffic until the matching response arrives.
func (c *MoonrakerClient) call(method string, params map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	req := rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: id}
	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("machine: moonraker write: %w", err)
	}

	for {
		var resp rpcResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("machine: moonraker read: %w", err)
		}
		if resp.ID != id {
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("machine: moonraker %s: %s (code %d)", method, resp.Error.Message, resp.Error.Code)
		}
		return nil
	}
}

// Close closes the websocket connection.
func (c *MoonrakerClient) Close() error {
	return c.conn.Close()
}
