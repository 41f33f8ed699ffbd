// Package profile holds the validated, strongly-typed tool-change parameter
// set built from a hardware configuration file. Defaults are resolved once
// at build time; the resulting ParameterSet is immutable and safe to share.
package profile

// TempCommand selects the G-code command used for temperature changes.
type TempCommand string

const (
	// TempCommandM104 sets the nozzle temperature via M104.
	TempCommandM104 TempCommand = "M104"
	// TempCommandG10 sets the tool temperature via G10.
	TempCommandG10 TempCommand = "G10"
)

// Temperature configures how temperature commands are issued.
type Temperature struct {
	UseToolID bool
	Command   TempCommand
}

// MotorCurrent holds extruder motor currents in amps. Load is applied
// while handling filament, Run during normal printing.
type MotorCurrent struct {
	Load float64
	Run  float64
}

// PrepurgeStep is one tip-shaping retract before the main purge.
type PrepurgeStep struct {
	RetractLength float64
	RetractSpeed  float64
	Pause         int // milliseconds
}

// Sweep configures the repeated purge sweep motion.
type Sweep struct {
	Length          float64
	ExtrusionLength float64
	Speed           float64
	Count           int
	Gap             float64
	GapSpeed        float64
}

// Prepurge configures the purge executed before the tool switch.
type Prepurge struct {
	InitialSteps      []PrepurgeStep
	TemperatureChange float64 // relative, may be negative
	Sweep             Sweep
}

// Prerun configures optional nozzle priming on a tool's first use.
type Prerun struct {
	Enabled         bool
	PrimeLength     float64
	ExtrusionLength float64
	Gap             float64
	Speed           float64
	XStart          float64
	YStart          float64
	PurgeCount      int
}

// Stage is one length/speed pair of a staged filament motion.
type Stage struct {
	Length float64
	Speed  float64
}

// RapidRetract configures the staged filament withdrawal.
type RapidRetract struct {
	InitialStages []Stage
	Pause         int // milliseconds
	LongStages    []Stage
}

// Feed configures the staged filament feed-in of the new tool.
type Feed struct {
	Stages       []Stage
	TrailEnabled bool
}

// PrimeTrail configures the trailing extrusion after a completed feed.
type PrimeTrail struct {
	ExtrusionLength float64
	Speed           float64
}

// PostTower configures coasting compensation after the purge tower.
type PostTower struct {
	CoastLength float64
}

// ParameterSet is the full validated tool-change profile.
type ParameterSet struct {
	Temperature  Temperature
	MotorCurrent MotorCurrent
	Prepurge     Prepurge
	Prerun       Prerun
	RapidRetract RapidRetract
	Feed         Feed
	PrimeTrail   PrimeTrail
	PostTower    PostTower
}

// Default returns a ParameterSet with every field at its documented
// default, matching the result of building an empty config file.
func Default() *ParameterSet {
	return &ParameterSet{
		Temperature: Temperature{Command: TempCommandM104},
	}
}
