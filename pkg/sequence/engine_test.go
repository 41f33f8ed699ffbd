package sequence

import (
	"errors"
	"fmt"
	"testing"

	"toolchange-go/pkg/profile"
)

// fakeMachine records every dispatched operation as a string.
type fakeMachine struct {
	calls   []string
	failOn  string
	faulted bool
}

func (m *fakeMachine) record(call string) error {
	if m.faulted {
		return errors.New("dispatch after fault")
	}
	if m.failOn != "" && call == m.failOn {
		m.faulted = true
		return errors.New("motion stall")
	}
	m.calls = append(m.calls, call)
	return nil
}

func (m *fakeMachine) SetTemperature(value float64, relative bool, command profile.TempCommand, tool int) error {
	return m.record(fmt.Sprintf("temp(%g,rel=%t,%s,%d)", value, relative, command, tool))
}

func (m *fakeMachine) SetMotorCurrent(amps float64) error {
	return m.record(fmt.Sprintf("current(%g)", amps))
}

func (m *fakeMachine) MoveTo(x, y, speed float64) error {
	return m.record(fmt.Sprintf("moveto(%g,%g,%g)", x, y, speed))
}

func (m *fakeMachine) Move(length, xOffset, speed float64) error {
	return m.record(fmt.Sprintf("move(%g,%g,%g)", length, xOffset, speed))
}

func (m *fakeMachine) Extrude(length, speed float64) error {
	return m.record(fmt.Sprintf("extrude(%g,%g)", length, speed))
}

func (m *fakeMachine) Dwell(ms int) error {
	return m.record(fmt.Sprintf("dwell(%d)", ms))
}

func (m *fakeMachine) SwitchTool(id int) error {
	return m.record(fmt.Sprintf("switch(%d)", id))
}

func indexOf(calls []string, call string) int {
	for i, c := range calls {
		if c == call {
			return i
		}
	}
	return -1
}

func TestPlanStateOrder(t *testing.T) {
	steps, err := Plan(sampleProfile(), Request{Tool: 1, TargetTemp: 215})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []State{
		StateTemperatureArm, StateMotorCurrentSet, StatePrepurge,
		StateRapidRetract, StateToolSwitch, StateFeed, StatePrerun,
		StatePrimeTrail, StatePostTowerCoast, StateIdle,
	}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, step := range steps {
		if step.State != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], step.State)
		}
	}
	if !steps[4].ToolSwitch {
		t.Error("expected the ToolSwitch step between RapidRetract and Feed")
	}
}

func TestRunOrder(t *testing.T) {
	m := &fakeMachine{}
	engine := NewEngine(m, nil)

	err := engine.Run(sampleProfile(), Request{Tool: 1, TargetTemp: 215})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(m.calls) == 0 {
		t.Fatal("no actions dispatched")
	}
	if m.calls[0] != "temp(215,rel=false,M104,1)" {
		t.Errorf("expected temperature arm first, got %s", m.calls[0])
	}
	if m.calls[1] != "current(0.4)" {
		t.Errorf("expected load current second, got %s", m.calls[1])
	}
	if last := m.calls[len(m.calls)-1]; last != "current(0.7)" {
		t.Errorf("expected run current restored last, got %s", last)
	}

	// The tool switch happens after the last retract and before the
	// first feed move.
	sw := indexOf(m.calls, "switch(1)")
	retract := indexOf(m.calls, "move(95,0,1500)")
	feed := indexOf(m.calls, "move(10,0,1500)")
	if sw < 0 || retract < 0 || feed < 0 {
		t.Fatalf("missing milestone calls: %v", m.calls)
	}
	if !(retract < sw && sw < feed) {
		t.Errorf("expected retract < switch < feed, got %d, %d, %d", retract, sw, feed)
	}

	// Prime trail follows the feed.
	trail := indexOf(m.calls, "extrude(5,900)")
	if trail < feed {
		t.Errorf("expected prime trail after feed, got order %v", m.calls)
	}
}

func TestRunFirstUsePrerun(t *testing.T) {
	ps := sampleProfile()
	ps.Prerun = profile.Prerun{Enabled: true, Speed: 2000, XStart: 5, YStart: 20, PurgeCount: 1}

	m := &fakeMachine{}
	if err := NewEngine(m, nil).Run(ps, Request{Tool: 0}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if indexOf(m.calls, "moveto(5,20,2000)") >= 0 {
		t.Error("prerun must not execute without first use")
	}

	m = &fakeMachine{}
	if err := NewEngine(m, nil).Run(ps, Request{Tool: 0, FirstUse: true}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	prerun := indexOf(m.calls, "moveto(5,20,2000)")
	sw := indexOf(m.calls, "switch(0)")
	if prerun < 0 {
		t.Fatal("expected prerun positioning move on first use")
	}
	if prerun < sw {
		t.Error("prerun must follow the tool switch")
	}
}

func TestRunAbortsOnFault(t *testing.T) {
	m := &fakeMachine{failOn: "extrude(55,6000)"}
	err := NewEngine(m, nil).Run(sampleProfile(), Request{Tool: 1})
	if err == nil {
		t.Fatal("expected abort error")
	}
	if !IsEngineKind(err, AbortedByMachine) {
		t.Fatalf("expected AbortedByMachine, got %v", err)
	}

	ee := err.(*EngineError)
	if ee.State != StatePrepurge {
		t.Errorf("expected fault in Prepurge, got %s", ee.State)
	}
	if indexOf(m.calls, "switch(1)") >= 0 {
		t.Error("no further actions may be dispatched after a fault")
	}
}

func TestPlanInvariants(t *testing.T) {
	if _, err := Plan(nil, Request{}); !IsEngineKind(err, InvariantViolated) {
		t.Errorf("expected InvariantViolated for nil parameter set, got %v", err)
	}
	if _, err := Plan(sampleProfile(), Request{Tool: -1}); !IsEngineKind(err, InvariantViolated) {
		t.Errorf("expected InvariantViolated for negative tool, got %v", err)
	}
}

func TestRunSkipsEmptyStages(t *testing.T) {
	m := &fakeMachine{}
	err := NewEngine(m, nil).Run(profile.Default(), Request{Tool: 0})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// A default profile still switches tools; everything else is empty.
	if len(m.calls) != 1 || m.calls[0] != "switch(0)" {
		t.Errorf("expected only the tool switch, got %v", m.calls)
	}
}
