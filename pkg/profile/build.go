package profile

import (
	"fmt"

	"toolchange-go/pkg/hwconfig"
)

// Build constructs a validated ParameterSet from parsed config entries.
// Every field absent from the file takes its documented default, so
// downstream planners never branch on presence. Build is deterministic:
// the same entries always produce the same ParameterSet.
func Build(f *hwconfig.File) (*ParameterSet, error) {
	ps := Default()

	useID, err := f.Bool("temperature.use_id", false)
	if err != nil {
		return nil, err
	}
	command, err := f.Choice("temperature.command",
		[]string{string(TempCommandM104), string(TempCommandG10)}, string(TempCommandM104))
	if err != nil {
		return nil, err
	}
	ps.Temperature = Temperature{UseToolID: useID, Command: TempCommand(command)}

	if err := floatField(f, "motor.current.load", &ps.MotorCurrent.Load); err != nil {
		return nil, err
	}
	if err := floatField(f, "motor.current.run", &ps.MotorCurrent.Run); err != nil {
		return nil, err
	}

	if err := buildPrepurge(f, &ps.Prepurge); err != nil {
		return nil, err
	}
	if err := buildPrerun(f, &ps.Prerun); err != nil {
		return nil, err
	}

	ps.RapidRetract.InitialStages, err = stageList(f, "rapid.retract.initial")
	if err != nil {
		return nil, err
	}
	if err := intField(f, "rapid.retract.pause", &ps.RapidRetract.Pause); err != nil {
		return nil, err
	}
	ps.RapidRetract.LongStages, err = stageList(f, "rapid.retract.long")
	if err != nil {
		return nil, err
	}

	ps.Feed.Stages, err = stageList(f, "feed")
	if err != nil {
		return nil, err
	}
	ps.Feed.TrailEnabled, err = f.Bool("feed.trail", false)
	if err != nil {
		return nil, err
	}

	if err := floatField(f, "prime.trail.extrusion.length", &ps.PrimeTrail.ExtrusionLength); err != nil {
		return nil, err
	}
	if err := floatField(f, "prime.trail.speed", &ps.PrimeTrail.Speed); err != nil {
		return nil, err
	}
	if err := floatField(f, "post.tower.coast", &ps.PostTower.CoastLength); err != nil {
		return nil, err
	}

	return ps, nil
}

// buildPrepurge fills the prepurge block, including its step array.
func buildPrepurge(f *hwconfig.File, p *Prepurge) error {
	n := f.Count("prepurge.initial")
	if n > 0 {
		p.InitialSteps = make([]PrepurgeStep, n)
		for i := range p.InitialSteps {
			base := fmt.Sprintf("prepurge.initial[%d]", i)
			step := &p.InitialSteps[i]
			if err := requiredFloat(f, base+".length", &step.RetractLength); err != nil {
				return err
			}
			if err := requiredFloat(f, base+".speed", &step.RetractSpeed); err != nil {
				return err
			}
			if err := intField(f, base+".pause", &step.Pause); err != nil {
				return err
			}
		}
	}

	// Relative temperature adjustment during the purge window; a negative
	// value cools the departing tool.
	change, err := f.Float("prepurge.temperature.change", 0)
	if err != nil {
		return err
	}
	p.TemperatureChange = change

	if err := floatField(f, "prepurge.sweep.length", &p.Sweep.Length); err != nil {
		return err
	}
	if err := floatField(f, "prepurge.sweep.extrusion.length", &p.Sweep.ExtrusionLength); err != nil {
		return err
	}
	if err := floatField(f, "prepurge.sweep.speed", &p.Sweep.Speed); err != nil {
		return err
	}
	if err := intField(f, "prepurge.sweep.count", &p.Sweep.Count); err != nil {
		return err
	}
	if err := floatField(f, "prepurge.sweep.gap", &p.Sweep.Gap); err != nil {
		return err
	}
	return floatField(f, "prepurge.sweep.gap.speed", &p.Sweep.GapSpeed)
}

// buildPrerun fills the prerun block. A disabled prerun still parses its
// other keys so that a bad value is reported before the flag is flipped on.
func buildPrerun(f *hwconfig.File, p *Prerun) error {
	enabled, err := f.Bool("prerun.prime", false)
	if err != nil {
		return err
	}
	p.Enabled = enabled

	if err := floatField(f, "prerun.prime.length", &p.PrimeLength); err != nil {
		return err
	}
	if err := floatField(f, "prerun.prime.extrusion.length", &p.ExtrusionLength); err != nil {
		return err
	}
	if err := floatField(f, "prerun.prime.gap", &p.Gap); err != nil {
		return err
	}
	if err := floatField(f, "prerun.prime.speed", &p.Speed); err != nil {
		return err
	}
	if err := floatField(f, "prerun.prime.xstart", &p.XStart); err != nil {
		return err
	}
	if err := floatField(f, "prerun.prime.ystart", &p.YStart); err != nil {
		return err
	}
	return intField(f, "prerun.prime.purge.count", &p.PurgeCount)
}

// stageList reads a contiguous array of length/speed stages. An absent
// array is an intentionally disabled block and yields nil.
func stageList(f *hwconfig.File, prefix string) ([]Stage, error) {
	n := f.Count(prefix)
	if n == 0 {
		return nil, nil
	}
	stages := make([]Stage, n)
	for i := range stages {
		base := fmt.Sprintf("%s[%d]", prefix, i)
		if err := requiredFloat(f, base+".length", &stages[i].Length); err != nil {
			return nil, err
		}
		if err := requiredFloat(f, base+".speed", &stages[i].Speed); err != nil {
			return nil, err
		}
	}
	return stages, nil
}

// floatField reads an optional non-negative float, defaulting to 0.
func floatField(f *hwconfig.File, key string, dst *float64) error {
	v, err := f.Float(key, 0)
	if err != nil {
		return err
	}
	if v < 0 {
		return errOutOfRange(key, v)
	}
	*dst = v
	return nil
}

// intField reads an optional non-negative integer, defaulting to 0.
func intField(f *hwconfig.File, key string, dst *int) error {
	v, err := f.Int(key, 0)
	if err != nil {
		return err
	}
	if v < 0 {
		return errOutOfRange(key, float64(v))
	}
	*dst = v
	return nil
}

// requiredFloat reads a non-negative float that must be present because
// its array stage was declared.
func requiredFloat(f *hwconfig.File, key string, dst *float64) error {
	v, err := f.Float(key)
	if err != nil {
		if hwconfig.IsKind(err, hwconfig.MissingKey) {
			return errMissingStageField(key)
		}
		return err
	}
	if v < 0 {
		return errOutOfRange(key, v)
	}
	*dst = v
	return nil
}
