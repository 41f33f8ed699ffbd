package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolchange-go/pkg/hwconfig"
	"toolchange-go/pkg/profile"
)

// loadProfile parses a config file and builds its parameter set.
func loadProfile(path string) (*hwconfig.File, *profile.ParameterSet, error) {
	f, err := hwconfig.Load(path)
	if err != nil {
		return nil, nil, err
	}
	ps, err := profile.Build(f)
	if err != nil {
		return nil, nil, err
	}
	return f, ps, nil
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <profile>",
		Short: "Validate a tool-change profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFrom(cmd)

			f, _, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			for _, key := range f.UnusedKeys() {
				logger.Warn("unused key", "key", key)
			}
			if disabled := f.DisabledKeys(); len(disabled) > 0 {
				logger.Info("disabled keys available", "count", len(disabled))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", args[0])
			return nil
		},
	}
}

func newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <profile>",
		Short: "List active, disabled and unused keys of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := loadProfile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unused := f.UnusedKeys()
			for _, key := range f.Keys() {
				value, _ := f.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			for _, key := range f.DisabledKeys() {
				value, _ := f.Disabled(key)
				fmt.Fprintf(out, "# %s: %s (disabled)\n", key, value)
			}
			for _, key := range unused {
				fmt.Fprintf(out, "%s (unused)\n", key)
			}
			return nil
		},
	}
}
