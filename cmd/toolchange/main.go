// toolchange validates tool-change hardware profiles and drives the
// tool-change sequence engine against a printer.
//
// Usage:
//
//	toolchange check <profile>   validate a profile, report unused keys
//	toolchange keys <profile>    list active, disabled and unused keys
//	toolchange plan <profile>    print the planned sequence (text/yaml/gcode)
//	toolchange run <profile>     execute a tool change on a printer
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"toolchange-go/pkg/log"
)

// settings are environment-level defaults; flags take precedence.
type settings struct {
	LogLevel  string `env:"TOOLCHANGE_LOG_LEVEL" envDefault:"info"`
	Device    string `env:"TOOLCHANGE_DEVICE"`
	Baud      int    `env:"TOOLCHANGE_BAUD" envDefault:"115200"`
	Moonraker string `env:"TOOLCHANGE_MOONRAKER"`
}

func main() {
	_ = godotenv.Load()

	var cfg settings
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(cfg *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "toolchange",
		Short:        "toolchange plans and executes multi-tool filament change sequences",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newKeysCommand())
	cmd.AddCommand(newPlanCommand())
	cmd.AddCommand(newRunCommand(cfg))
	return cmd
}

// loggerFrom builds the logger for a command from its persistent flag.
func loggerFrom(cmd *cobra.Command) *slog.Logger {
	level := cmd.Flag("log-level").Value.String()
	return log.New(os.Stderr, log.ParseLevel(level))
}
