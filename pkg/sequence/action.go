// Primitive actions dispatched to the machine during a tool change.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"fmt"

	"toolchange-go/pkg/profile"
)

// NoTool marks a temperature command that does not address a tool id.
const NoTool = -1

// Machine executes primitive actions on the physical printer. Every call
// blocks until the physical operation completes; a returned error is a
// machine fault that aborts the in-progress sequence.
type Machine interface {
	SetTemperature(value float64, relative bool, command profile.TempCommand, tool int) error
	SetMotorCurrent(amps float64) error
	MoveTo(x, y, speed float64) error
	Move(length, xOffset, speed float64) error
	Extrude(length, speed float64) error
	Dwell(ms int) error
	SwitchTool(id int) error
}

// Action is one primitive command of a planned tool-change sequence.
type Action interface {
	do(m Machine) error
	String() string
}

// SetTemperature commands a nozzle temperature, absolute or relative to
// the current target.
type SetTemperature struct {
	Value    float64
	Relative bool
	Command  profile.TempCommand
	Tool     int // NoTool when the command is not tool-addressed
}

func (a SetTemperature) do(m Machine) error {
	return m.SetTemperature(a.Value, a.Relative, a.Command, a.Tool)
}

func (a SetTemperature) String() string {
	if a.Relative {
		return fmt.Sprintf("SetTemperature(%+g, %s)", a.Value, a.Command)
	}
	return fmt.Sprintf("SetTemperature(%g, %s, tool=%d)", a.Value, a.Command, a.Tool)
}

// SetMotorCurrent commands the extruder motor current in amps.
type SetMotorCurrent struct {
	Amps float64
}

func (a SetMotorCurrent) do(m Machine) error { return m.SetMotorCurrent(a.Amps) }

func (a SetMotorCurrent) String() string { return fmt.Sprintf("SetMotorCurrent(%g)", a.Amps) }

// MoveTo positions the head at an absolute XY coordinate.
type MoveTo struct {
	X, Y  float64
	Speed float64
}

func (a MoveTo) do(m Machine) error { return m.MoveTo(a.X, a.Y, a.Speed) }

func (a MoveTo) String() string { return fmt.Sprintf("MoveTo(%g, %g, %g)", a.X, a.Y, a.Speed) }

// Move travels a relative length at the given speed, optionally with a
// lateral X offset.
type Move struct {
	Length  float64
	Speed   float64
	XOffset float64
}

func (a Move) do(m Machine) error { return m.Move(a.Length, a.XOffset, a.Speed) }

func (a Move) String() string {
	if a.XOffset != 0 {
		return fmt.Sprintf("Move(%g, %g, xoffset=%g)", a.Length, a.Speed, a.XOffset)
	}
	return fmt.Sprintf("Move(%g, %g)", a.Length, a.Speed)
}

// Extrude pushes filament for the given length at the given speed.
type Extrude struct {
	Length float64
	Speed  float64
}

func (a Extrude) do(m Machine) error { return m.Extrude(a.Length, a.Speed) }

func (a Extrude) String() string { return fmt.Sprintf("Extrude(%g, %g)", a.Length, a.Speed) }

// Dwell pauses for the given number of milliseconds.
type Dwell struct {
	Millis int
}

func (a Dwell) do(m Machine) error { return m.Dwell(a.Millis) }

func (a Dwell) String() string { return fmt.Sprintf("Dwell(%d)", a.Millis) }
