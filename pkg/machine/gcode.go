// G-code rendering machine backend.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package machine

import (
	"fmt"
	"strconv"

	"toolchange-go/pkg/profile"
)

// GCode renders primitive tool-change actions as G-code lines. It assumes
// the controller is in relative extrusion mode (filament lengths are
// emitted as relative E moves). Relative temperature changes are resolved
// against the last absolute target issued through this backend.
type GCode struct {
	lw         LineWriter
	lastTarget float64
}

// NewGCode creates a G-code backend writing to the given line writer.
func NewGCode(lw LineWriter) *GCode {
	return &GCode{lw: lw}
}

// num formats a float the way G-code expects, without a trailing zero tail.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (g *GCode) SetTemperature(value float64, relative bool, command profile.TempCommand, tool int) error {
	target := value
	if relative {
		target = g.lastTarget + value
	}
	g.lastTarget = target

	switch command {
	case profile.TempCommandG10:
		if tool >= 0 {
			return g.lw.WriteLine(fmt.Sprintf("G10 P%d S%s", tool, num(target)))
		}
		return g.lw.WriteLine(fmt.Sprintf("G10 S%s", num(target)))
	default:
		if tool >= 0 {
			return g.lw.WriteLine(fmt.Sprintf("M104 T%d S%s", tool, num(target)))
		}
		return g.lw.WriteLine(fmt.Sprintf("M104 S%s", num(target)))
	}
}

func (g *GCode) SetMotorCurrent(amps float64) error {
	return g.lw.WriteLine(fmt.Sprintf("M907 E%s", num(amps)))
}

func (g *GCode) MoveTo(x, y, speed float64) error {
	return g.lw.WriteLine(fmt.Sprintf("G1 X%s Y%s F%s", num(x), num(y), num(speed)))
}

func (g *GCode) Move(length, xOffset, speed float64) error {
	if xOffset != 0 {
		return g.lw.WriteLine(fmt.Sprintf("G1 X%s E%s F%s", num(xOffset), num(length), num(speed)))
	}
	return g.lw.WriteLine(fmt.Sprintf("G1 E%s F%s", num(length), num(speed)))
}

func (g *GCode) Extrude(length, speed float64) error {
	return g.lw.WriteLine(fmt.Sprintf("G1 E%s F%s", num(length), num(speed)))
}

func (g *GCode) Dwell(ms int) error {
	return g.lw.WriteLine(fmt.Sprintf("G4 P%d", ms))
}

func (g *GCode) SwitchTool(id int) error {
	return g.lw.WriteLine(fmt.Sprintf("T%d", id))
}
