package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize renders the ParameterSet in its canonical textual form. The
// output parses and builds back into an identical ParameterSet.
func (ps *ParameterSet) Serialize() string {
	var b strings.Builder

	str := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteByte('\n')
	}
	num := func(key string, v float64) {
		str(key, strconv.FormatFloat(v, 'g', -1, 64))
	}
	count := func(key string, v int) {
		str(key, strconv.Itoa(v))
	}
	flag := func(key string, v bool) {
		if v {
			str(key, "True")
		} else {
			str(key, "False")
		}
	}

	flag("temperature.use_id", ps.Temperature.UseToolID)
	str("temperature.command", string(ps.Temperature.Command))

	num("motor.current.load", ps.MotorCurrent.Load)
	num("motor.current.run", ps.MotorCurrent.Run)

	for i, step := range ps.Prepurge.InitialSteps {
		base := fmt.Sprintf("prepurge.initial[%d]", i)
		num(base+".length", step.RetractLength)
		num(base+".speed", step.RetractSpeed)
		count(base+".pause", step.Pause)
	}
	num("prepurge.temperature.change", ps.Prepurge.TemperatureChange)
	num("prepurge.sweep.length", ps.Prepurge.Sweep.Length)
	num("prepurge.sweep.extrusion.length", ps.Prepurge.Sweep.ExtrusionLength)
	num("prepurge.sweep.speed", ps.Prepurge.Sweep.Speed)
	count("prepurge.sweep.count", ps.Prepurge.Sweep.Count)
	num("prepurge.sweep.gap", ps.Prepurge.Sweep.Gap)
	num("prepurge.sweep.gap.speed", ps.Prepurge.Sweep.GapSpeed)

	flag("prerun.prime", ps.Prerun.Enabled)
	num("prerun.prime.length", ps.Prerun.PrimeLength)
	num("prerun.prime.extrusion.length", ps.Prerun.ExtrusionLength)
	num("prerun.prime.gap", ps.Prerun.Gap)
	num("prerun.prime.speed", ps.Prerun.Speed)
	num("prerun.prime.xstart", ps.Prerun.XStart)
	num("prerun.prime.ystart", ps.Prerun.YStart)
	count("prerun.prime.purge.count", ps.Prerun.PurgeCount)

	for i, stage := range ps.RapidRetract.InitialStages {
		base := fmt.Sprintf("rapid.retract.initial[%d]", i)
		num(base+".length", stage.Length)
		num(base+".speed", stage.Speed)
	}
	count("rapid.retract.pause", ps.RapidRetract.Pause)
	for i, stage := range ps.RapidRetract.LongStages {
		base := fmt.Sprintf("rapid.retract.long[%d]", i)
		num(base+".length", stage.Length)
		num(base+".speed", stage.Speed)
	}

	for i, stage := range ps.Feed.Stages {
		base := fmt.Sprintf("feed[%d]", i)
		num(base+".length", stage.Length)
		num(base+".speed", stage.Speed)
	}
	flag("feed.trail", ps.Feed.TrailEnabled)

	num("prime.trail.extrusion.length", ps.PrimeTrail.ExtrusionLength)
	num("prime.trail.speed", ps.PrimeTrail.Speed)

	num("post.tower.coast", ps.PostTower.CoastLength)

	return b.String()
}
