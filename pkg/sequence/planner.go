// Stage planners for the tool-change sequence.
//
// Each planner is a pure function of the parameter set, emitting the
// primitive actions for one stage of a tool change in execution order.
// Disabled or empty blocks plan to no actions.
//
// Copyright (C) 2026  Toolchange Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package sequence

import "toolchange-go/pkg/profile"

const (
	// DefaultTrailAmplitude is the lateral X offset applied to feed moves
	// when the trail is enabled and the request does not override it.
	DefaultTrailAmplitude = 0.5

	// defaultTravelSpeed is used for the post-tower coast when no feed
	// stage supplies a current feed speed.
	defaultTravelSpeed = 3000.0
)

// PlanPrepurge emits the tip-shaping retracts, the relative temperature
// adjustment and the purge sweep loop. A sweep count of zero skips the
// loop but keeps the initial steps and temperature change.
func PlanPrepurge(ps *profile.ParameterSet) []Action {
	var actions []Action
	for _, step := range ps.Prepurge.InitialSteps {
		actions = append(actions, Move{Length: step.RetractLength, Speed: step.RetractSpeed})
		if step.Pause > 0 {
			actions = append(actions, Dwell{Millis: step.Pause})
		}
	}
	if ps.Prepurge.TemperatureChange != 0 {
		actions = append(actions, SetTemperature{
			Value:    ps.Prepurge.TemperatureChange,
			Relative: true,
			Command:  ps.Temperature.Command,
			Tool:     NoTool,
		})
	}
	sweep := ps.Prepurge.Sweep
	for i := 0; i < sweep.Count; i++ {
		actions = append(actions,
			Move{Length: sweep.Length, Speed: sweep.Speed},
			Extrude{Length: sweep.ExtrusionLength, Speed: sweep.Speed},
			Move{Length: sweep.Gap, Speed: sweep.GapSpeed},
		)
	}
	return actions
}

// PlanPrerun emits the first-use priming purge: position at the start
// point, then the configured number of prime/extrude/gap repetitions.
// Nothing is planned while prerun.prime is off, regardless of the other
// prerun values.
func PlanPrerun(ps *profile.ParameterSet) []Action {
	p := ps.Prerun
	if !p.Enabled {
		return nil
	}
	actions := []Action{MoveTo{X: p.XStart, Y: p.YStart, Speed: p.Speed}}
	for i := 0; i < p.PurgeCount; i++ {
		actions = append(actions,
			Move{Length: p.PrimeLength, Speed: p.Speed},
			Extrude{Length: p.ExtrusionLength, Speed: p.Speed},
			Move{Length: p.Gap, Speed: p.Speed},
		)
	}
	return actions
}

// PlanRapidRetract emits the staged filament withdrawal: initial stages in
// declared order, the configured pause, then the long stages. Stages are
// never reordered or merged.
func PlanRapidRetract(ps *profile.ParameterSet) []Action {
	var actions []Action
	for _, stage := range ps.RapidRetract.InitialStages {
		actions = append(actions, Move{Length: stage.Length, Speed: stage.Speed})
	}
	if ps.RapidRetract.Pause > 0 {
		actions = append(actions, Dwell{Millis: ps.RapidRetract.Pause})
	}
	for _, stage := range ps.RapidRetract.LongStages {
		actions = append(actions, Move{Length: stage.Length, Speed: stage.Speed})
	}
	return actions
}

// PlanFeed emits one Move+Extrude pair per feed stage in declared order.
// With the trail enabled each Move carries a lateral X offset of the given
// amplitude, alternating sign per stage to avoid blob formation.
func PlanFeed(ps *profile.ParameterSet, trailAmplitude float64) []Action {
	var actions []Action
	for i, stage := range ps.Feed.Stages {
		var offset float64
		if ps.Feed.TrailEnabled {
			offset = trailAmplitude
			if i%2 == 1 {
				offset = -trailAmplitude
			}
		}
		actions = append(actions,
			Move{Length: stage.Length, Speed: stage.Speed, XOffset: offset},
			Extrude{Length: stage.Length, Speed: stage.Speed},
		)
	}
	return actions
}

// PlanPrimeTrail emits the trailing extrusion once the feed has completed.
// No feed stages means no feed completion, so no trail.
func PlanPrimeTrail(ps *profile.ParameterSet) []Action {
	if len(ps.Feed.Stages) == 0 || ps.PrimeTrail.ExtrusionLength == 0 {
		return nil
	}
	return []Action{Extrude{Length: ps.PrimeTrail.ExtrusionLength, Speed: ps.PrimeTrail.Speed}}
}

// PlanPostTowerCoast emits the single coasting move compensating tower
// over-extrusion, at the current feed speed.
func PlanPostTowerCoast(ps *profile.ParameterSet) []Action {
	if ps.PostTower.CoastLength == 0 {
		return nil
	}
	speed := defaultTravelSpeed
	if n := len(ps.Feed.Stages); n > 0 {
		speed = ps.Feed.Stages[n-1].Speed
	}
	return []Action{Move{Length: ps.PostTower.CoastLength, Speed: speed}}
}
