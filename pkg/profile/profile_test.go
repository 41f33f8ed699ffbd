package profile

import (
	"reflect"
	"testing"

	"toolchange-go/pkg/hwconfig"
)

const sampleConfig = `
# PEEK hardware profile
temperature.use_id: True
temperature.command: M104

motor.current.load: 0.4
motor.current.run: 0.7

prepurge.initial[0].length: 10
prepurge.initial[0].speed: 1200
prepurge.initial[0].pause: 500
prepurge.temperature.change: -40
prepurge.sweep.length: 50
prepurge.sweep.extrusion.length: 55
prepurge.sweep.speed: 6000
prepurge.sweep.count: 2
prepurge.sweep.gap: 1
prepurge.sweep.gap.speed: 3000

#prerun.prime: True
prerun.prime.length: 40
prerun.prime.extrusion.length: 45
prerun.prime.gap: 1
prerun.prime.speed: 2000
prerun.prime.xstart: 5
prerun.prime.ystart: 20
prerun.prime.purge.count: 3

rapid.retract.initial[0].length: 20
rapid.retract.initial[0].speed: 1500
rapid.retract.initial[1].length: 15
rapid.retract.initial[1].speed: 1500
rapid.retract.pause: 2000
rapid.retract.long[0].length: 95
rapid.retract.long[0].speed: 1500

feed[0].length: 10
feed[0].speed: 1500
feed[1].length: 90
feed[1].speed: 3000
feed[2].length: 20
feed[2].speed: 1500
feed.trail: False

prime.trail.extrusion.length: 5
prime.trail.speed: 900

post.tower.coast: 0
`

func buildSample(t *testing.T) *ParameterSet {
	t.Helper()
	f, err := hwconfig.Parse(sampleConfig)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ps, err := Build(f)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return ps
}

func TestBuildDefaults(t *testing.T) {
	f, err := hwconfig.Parse("")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ps, err := Build(f)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !reflect.DeepEqual(ps, Default()) {
		t.Errorf("empty config must build to defaults, got %+v", ps)
	}
	if ps.Temperature.Command != TempCommandM104 {
		t.Errorf("expected M104 default, got %s", ps.Temperature.Command)
	}
}

func TestBuildSample(t *testing.T) {
	ps := buildSample(t)

	if !ps.Temperature.UseToolID {
		t.Error("expected tool-addressed temperature commands")
	}
	if ps.MotorCurrent.Load != 0.4 || ps.MotorCurrent.Run != 0.7 {
		t.Errorf("unexpected motor currents: %+v", ps.MotorCurrent)
	}

	if len(ps.Prepurge.InitialSteps) != 1 {
		t.Fatalf("expected 1 prepurge step, got %d", len(ps.Prepurge.InitialSteps))
	}
	step := ps.Prepurge.InitialSteps[0]
	if step.RetractLength != 10 || step.RetractSpeed != 1200 || step.Pause != 500 {
		t.Errorf("unexpected prepurge step: %+v", step)
	}
	if ps.Prepurge.TemperatureChange != -40 {
		t.Errorf("expected temperature change -40, got %v", ps.Prepurge.TemperatureChange)
	}
	if ps.Prepurge.Sweep.Count != 2 || ps.Prepurge.Sweep.GapSpeed != 3000 {
		t.Errorf("unexpected sweep: %+v", ps.Prepurge.Sweep)
	}

	// Disabled blocks contribute no activation, only their documented keys.
	if ps.Prerun.Enabled {
		t.Error("commented prerun.prime must stay disabled")
	}
	if ps.Prerun.PurgeCount != 3 {
		t.Errorf("prerun values still parse while disabled, got %+v", ps.Prerun)
	}

	wantInitial := []Stage{{Length: 20, Speed: 1500}, {Length: 15, Speed: 1500}}
	if !reflect.DeepEqual(ps.RapidRetract.InitialStages, wantInitial) {
		t.Errorf("unexpected initial stages: %+v", ps.RapidRetract.InitialStages)
	}
	if ps.RapidRetract.Pause != 2000 {
		t.Errorf("expected pause 2000, got %d", ps.RapidRetract.Pause)
	}
	wantLong := []Stage{{Length: 95, Speed: 1500}}
	if !reflect.DeepEqual(ps.RapidRetract.LongStages, wantLong) {
		t.Errorf("unexpected long stages: %+v", ps.RapidRetract.LongStages)
	}

	wantFeed := []Stage{{Length: 10, Speed: 1500}, {Length: 90, Speed: 3000}, {Length: 20, Speed: 1500}}
	if !reflect.DeepEqual(ps.Feed.Stages, wantFeed) {
		t.Errorf("unexpected feed stages: %+v", ps.Feed.Stages)
	}
	if ps.Feed.TrailEnabled {
		t.Error("expected feed trail disabled")
	}

	if ps.PrimeTrail.ExtrusionLength != 5 || ps.PrimeTrail.Speed != 900 {
		t.Errorf("unexpected prime trail: %+v", ps.PrimeTrail)
	}
	if ps.PostTower.CoastLength != 0 {
		t.Errorf("expected no coast, got %v", ps.PostTower.CoastLength)
	}
}

func TestBuildOutOfRange(t *testing.T) {
	f, err := hwconfig.Parse("motor.current.load: -0.4")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = Build(f)
	if err == nil {
		t.Fatal("expected OutOfRange error")
	}
	if !IsValidationKind(err, OutOfRange) {
		t.Fatalf("expected OutOfRange, got %v", err)
	}
	ve := err.(*ValidationError)
	if ve.Key != "motor.current.load" {
		t.Errorf("expected offending key in error, got '%s'", ve.Key)
	}
}

func TestBuildMissingStageField(t *testing.T) {
	f, err := hwconfig.Parse("feed[0].length: 10")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = Build(f)
	if err == nil {
		t.Fatal("expected MissingRequiredArray error")
	}
	if !IsValidationKind(err, MissingRequiredArray) {
		t.Fatalf("expected MissingRequiredArray, got %v", err)
	}
	ve := err.(*ValidationError)
	if ve.Key != "feed[0].speed" {
		t.Errorf("expected missing key feed[0].speed, got '%s'", ve.Key)
	}
}

func TestBuildMalformedValue(t *testing.T) {
	f, err := hwconfig.Parse("feed.trail: yes")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := Build(f); !hwconfig.IsKind(err, hwconfig.MalformedValue) {
		t.Fatalf("expected MalformedValue, got %v", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	ps := buildSample(t)

	f, err := hwconfig.Parse(ps.Serialize())
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	rebuilt, err := Build(f)
	if err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if !reflect.DeepEqual(ps, rebuilt) {
		t.Errorf("round trip mismatch:\nbuilt:   %+v\nrebuilt: %+v", ps, rebuilt)
	}

	// Serialization is canonical: a second pass is byte-identical.
	if ps.Serialize() != rebuilt.Serialize() {
		t.Error("serialized forms differ")
	}
}
