package main

import (
	"errors"

	"github.com/spf13/cobra"

	"toolchange-go/pkg/machine"
	"toolchange-go/pkg/sequence"
)

func newRunCommand(cfg *settings) *cobra.Command {
	var req requestFlags
	var device string
	var baud int
	var moonraker string

	cmd := &cobra.Command{
		Use:   "run <profile>",
		Short: "Execute a tool change on a printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFrom(cmd)

			_, ps, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			var lw machine.LineWriter
			switch {
			case moonraker != "":
				client, err := machine.DialMoonraker(moonraker)
				if err != nil {
					return err
				}
				defer client.Close()
				lw = client
			case device != "":
				port, err := machine.OpenSerial(machine.SerialConfig{Device: device, Baud: baud})
				if err != nil {
					return err
				}
				defer port.Close()
				lw = port
			default:
				return errors.New("no printer transport: set --device or --moonraker (or the matching environment variable)")
			}

			logger.Info("starting tool change", "profile", args[0], "tool", req.tool)
			engine := sequence.NewEngine(machine.NewGCode(lw), logger)
			return engine.Run(ps, req.request())
		},
	}

	req.register(cmd)
	cmd.Flags().StringVar(&device, "device", cfg.Device, "Serial device path")
	cmd.Flags().IntVar(&baud, "baud", cfg.Baud, "Serial baud rate")
	cmd.Flags().StringVar(&moonraker, "moonraker", cfg.Moonraker, "Moonraker websocket URL (e.g. ws://localhost:7125/websocket)")
	return cmd
}
