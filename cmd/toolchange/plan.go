package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"toolchange-go/pkg/machine"
	"toolchange-go/pkg/sequence"
)

// requestFlags are the per-tool-change knobs shared by plan and run.
type requestFlags struct {
	tool      int
	temp      float64
	firstUse  bool
	amplitude float64
}

func (r *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&r.tool, "tool", 0, "Incoming tool id")
	cmd.Flags().Float64Var(&r.temp, "temp", 0, "Incoming tool target temperature (0 skips the command)")
	cmd.Flags().BoolVar(&r.firstUse, "first-use", false, "First use of the tool (enables prerun priming)")
	cmd.Flags().Float64Var(&r.amplitude, "trail-amplitude", 0, "Lateral trail offset (0 selects the default)")
}

func (r *requestFlags) request() sequence.Request {
	return sequence.Request{
		Tool:           r.tool,
		TargetTemp:     r.temp,
		FirstUse:       r.firstUse,
		TrailAmplitude: r.amplitude,
	}
}

// stepDoc is the YAML export shape of one planned step.
type stepDoc struct {
	State      string   `yaml:"state"`
	ToolSwitch bool     `yaml:"tool_switch,omitempty"`
	Actions    []string `yaml:"actions,omitempty"`
}

func newPlanCommand() *cobra.Command {
	var req requestFlags
	var format string

	cmd := &cobra.Command{
		Use:   "plan <profile>",
		Short: "Print the planned tool-change sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFrom(cmd)

			_, ps, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "gcode" {
				engine := sequence.NewEngine(machine.NewGCode(machine.WriterLine{W: out}), logger)
				return engine.Run(ps, req.request())
			}

			steps, err := sequence.Plan(ps, req.request())
			if err != nil {
				return err
			}

			switch format {
			case "yaml":
				docs := make([]stepDoc, 0, len(steps))
				for _, step := range steps {
					doc := stepDoc{State: step.State.String(), ToolSwitch: step.ToolSwitch}
					for _, action := range step.Actions {
						doc.Actions = append(doc.Actions, action.String())
					}
					docs = append(docs, doc)
				}
				return yaml.NewEncoder(out).Encode(docs)
			case "text":
				for _, step := range steps {
					if step.ToolSwitch {
						fmt.Fprintf(out, "%s: SwitchTool(%d)\n", step.State, req.tool)
						continue
					}
					for _, action := range step.Actions {
						fmt.Fprintf(out, "%s: %s\n", step.State, action)
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text, yaml or gcode)", format)
			}
		},
	}

	req.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, yaml or gcode")
	return cmd
}
