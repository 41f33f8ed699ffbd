// Package machine provides concrete machine backends for the tool-change
// engine: a G-code renderer and the transports that carry the rendered
// commands to a printer (serial port, Moonraker websocket).
package machine

import (
	"fmt"
	"io"
)

// LineWriter delivers one G-code line to the machine and blocks until it
// has been handed off.
type LineWriter interface {
	WriteLine(line string) error
}

// WriterLine adapts an io.Writer into a LineWriter, appending a newline
// per line. Useful for files, buffers and pipes.
type WriterLine struct {
	W io.Writer
}

func (w WriterLine) WriteLine(line string) error {
	_, err := fmt.Fprintln(w.W, line)
	return err
}
