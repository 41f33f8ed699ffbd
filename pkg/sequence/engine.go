// Tool-change sequence orchestrator.
//
// A tool change walks a fixed linear list of states, each entered exactly
// once with an unconditional forward transition. A state with nothing to
// do emits no actions; it is never an error. Planning is pure and happens
// in full before the first action is dispatched, so a bad configuration
// can never cause partial physical actuation.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import (
	"log/slog"
	"sync"

	"toolchange-go/pkg/profile"
)

// State identifies one stage of the tool-change state machine.
type State int

const (
	StateIdle State = iota
	StateTemperatureArm
	StateMotorCurrentSet
	StatePrepurge
	StateRapidRetract
	StateToolSwitch
	StateFeed
	StatePrerun
	StatePrimeTrail
	StatePostTowerCoast
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateTemperatureArm:
		return "TemperatureArm"
	case StateMotorCurrentSet:
		return "MotorCurrentSet"
	case StatePrepurge:
		return "Prepurge"
	case StateRapidRetract:
		return "RapidRetract"
	case StateToolSwitch:
		return "ToolSwitch"
	case StateFeed:
		return "Feed"
	case StatePrerun:
		return "Prerun"
	case StatePrimeTrail:
		return "PrimeTrail"
	case StatePostTowerCoast:
		return "PostTowerCoast"
	default:
		return "Unknown"
	}
}

// Request parameterizes a single tool change.
type Request struct {
	// Tool is the incoming tool id.
	Tool int

	// TargetTemp is the incoming tool's target temperature. Zero skips
	// the temperature-arm command (temperature managed externally).
	TargetTemp float64

	// FirstUse enables the prerun priming stage for a tool's first use.
	FirstUse bool

	// TrailAmplitude overrides the lateral feed offset; zero selects
	// DefaultTrailAmplitude.
	TrailAmplitude float64
}

// Step is one planned state with its actions. A ToolSwitch step carries no
// actions; the physical tool-carrier motion is the machine's own operation.
type Step struct {
	State      State
	Actions    []Action
	ToolSwitch bool
}

// Plan composes the planner outputs into the total ordered tool-change
// sequence. Plan is pure and touches no hardware.
func Plan(ps *profile.ParameterSet, req Request) ([]Step, error) {
	if ps == nil {
		return nil, errInvariant("no parameter set")
	}
	if req.Tool < 0 {
		return nil, errInvariant("negative tool id")
	}

	amplitude := req.TrailAmplitude
	if amplitude == 0 {
		amplitude = DefaultTrailAmplitude
	}

	var arm []Action
	if req.TargetTemp > 0 {
		tool := NoTool
		if ps.Temperature.UseToolID {
			tool = req.Tool
		}
		arm = append(arm, SetTemperature{
			Value:   req.TargetTemp,
			Command: ps.Temperature.Command,
			Tool:    tool,
		})
	}

	var loadCurrent []Action
	if ps.MotorCurrent.Load > 0 {
		loadCurrent = append(loadCurrent, SetMotorCurrent{Amps: ps.MotorCurrent.Load})
	}

	var prerun []Action
	if req.FirstUse {
		prerun = PlanPrerun(ps)
	}

	// Run current is restored when the sequence settles back to Idle;
	// the load current only brackets the filament handling.
	var runCurrent []Action
	if ps.MotorCurrent.Run > 0 {
		runCurrent = append(runCurrent, SetMotorCurrent{Amps: ps.MotorCurrent.Run})
	}

	return []Step{
		{State: StateTemperatureArm, Actions: arm},
		{State: StateMotorCurrentSet, Actions: loadCurrent},
		{State: StatePrepurge, Actions: PlanPrepurge(ps)},
		{State: StateRapidRetract, Actions: PlanRapidRetract(ps)},
		{State: StateToolSwitch, ToolSwitch: true},
		{State: StateFeed, Actions: PlanFeed(ps, amplitude)},
		{State: StatePrerun, Actions: prerun},
		{State: StatePrimeTrail, Actions: PlanPrimeTrail(ps)},
		{State: StatePostTowerCoast, Actions: PlanPostTowerCoast(ps)},
		{State: StateIdle, Actions: runCurrent},
	}, nil
}

// Engine drives planned tool-change sequences against a machine.
type Engine struct {
	mu      sync.Mutex
	machine Machine
	logger  *slog.Logger
}

// NewEngine creates an engine bound to one machine.
func NewEngine(m Machine, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{machine: m, logger: logger}
}

// Run executes one tool change to completion, dispatching every action
// strictly in order and blocking on each. A machine fault aborts the
// remaining stages immediately; nothing is retried or rolled back. At
// most one sequence is in flight per engine.
func (e *Engine) Run(ps *profile.ParameterSet, req Request) error {
	steps, err := Plan(ps, req)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, step := range steps {
		e.logger.Debug("tool change state", "state", step.State.String())
		if step.ToolSwitch {
			if err := e.machine.SwitchTool(req.Tool); err != nil {
				e.logger.Error("tool change aborted", "state", step.State.String(), "error", err)
				return errAborted(step.State, 0, err)
			}
			continue
		}
		for i, action := range step.Actions {
			if err := action.do(e.machine); err != nil {
				e.logger.Error("tool change aborted",
					"state", step.State.String(), "action", action.String(), "error", err)
				return errAborted(step.State, i, err)
			}
		}
	}

	e.logger.Info("tool change complete", "tool", req.Tool)
	return nil
}
