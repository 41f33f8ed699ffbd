package machine

import (
	"bytes"
	"strings"
	"testing"

	"toolchange-go/pkg/profile"
)

func TestGCodeRendering(t *testing.T) {
	var buf bytes.Buffer
	g := NewGCode(WriterLine{W: &buf})

	if err := g.SetTemperature(215, false, profile.TempCommandM104, 1); err != nil {
		t.Fatalf("SetTemperature failed: %v", err)
	}
	if err := g.SetMotorCurrent(0.4); err != nil {
		t.Fatalf("SetMotorCurrent failed: %v", err)
	}
	if err := g.Move(20, 0, 1500); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := g.Move(10, 0.5, 1500); err != nil {
		t.Fatalf("Move with offset failed: %v", err)
	}
	if err := g.Dwell(2000); err != nil {
		t.Fatalf("Dwell failed: %v", err)
	}
	if err := g.MoveTo(5, 20, 2000); err != nil {
		t.Fatalf("MoveTo failed: %v", err)
	}
	if err := g.Extrude(5, 900); err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	if err := g.SwitchTool(2); err != nil {
		t.Fatalf("SwitchTool failed: %v", err)
	}

	want := []string{
		"M104 T1 S215",
		"M907 E0.4",
		"G1 E20 F1500",
		"G1 X0.5 E10 F1500",
		"G4 P2000",
		"G1 X5 Y20 F2000",
		"G1 E5 F900",
		"T2",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(got), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGCodeRelativeTemperature(t *testing.T) {
	var buf bytes.Buffer
	g := NewGCode(WriterLine{W: &buf})

	// Relative changes resolve against the last absolute target.
	if err := g.SetTemperature(240, false, profile.TempCommandM104, -1); err != nil {
		t.Fatalf("SetTemperature failed: %v", err)
	}
	if err := g.SetTemperature(-40, true, profile.TempCommandM104, -1); err != nil {
		t.Fatalf("relative SetTemperature failed: %v", err)
	}

	want := "M104 S240\nM104 S200\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestGCodeG10Command(t *testing.T) {
	var buf bytes.Buffer
	g := NewGCode(WriterLine{W: &buf})

	if err := g.SetTemperature(300, false, profile.TempCommandG10, 0); err != nil {
		t.Fatalf("SetTemperature failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "G10 P0 S300" {
		t.Errorf("expected 'G10 P0 S300', got %q", got)
	}
}
