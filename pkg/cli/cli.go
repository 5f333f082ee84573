// Package cli defines the autodrone command line, a thin cobra wrapper
// around pkg/app that lets a script and a level be run headlessly from
// a terminal for testing and demoing the toolchain.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dronescript/autodrone/pkg/app"
	"github.com/dronescript/autodrone/pkg/compiler"
)

// NewRootCommand builds the autodrone cobra command tree.
func NewRootCommand() *cobra.Command {
	var (
		family            string
		levelPath         string
		logLevel          string
		maxInstructions   int
		maxLoopIterations int
		tickMillis        int
	)

	cmd := &cobra.Command{
		Use:   "autodrone [script]",
		Short: "Compile and run an AutoDrone script against a level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam := compiler.Family(family)
			if fam != compiler.FamilyBlock && fam != compiler.FamilyBrace {
				return fmt.Errorf("unknown family %q (want %q or %q)", family, compiler.FamilyBlock, compiler.FamilyBrace)
			}
			if levelPath == "" {
				return fmt.Errorf("--level is required")
			}

			cfg := app.Config{
				ScriptPath:        args[0],
				LevelPath:         levelPath,
				Family:            fam,
				LogLevel:          logLevel,
				MaxInstructions:   maxInstructions,
				MaxLoopIterations: maxLoopIterations,
				TickInterval:      time.Duration(tickMillis) * time.Millisecond,
			}

			result, err := app.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printResult(cmd, result)
		},
	}

	cmd.Flags().StringVar(&family, "family", string(compiler.FamilyBlock), "script syntax family: block or brace")
	cmd.Flags().StringVar(&levelPath, "level", "", "path to a level JSON file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().IntVar(&maxInstructions, "max-instructions", 10000, "instruction budget before the run is aborted")
	cmd.Flags().IntVar(&maxLoopIterations, "max-loop-iterations", 1000, "warning threshold for loop counts")
	cmd.Flags().IntVar(&tickMillis, "tick-ms", 1, "milliseconds between VM ticks")

	return cmd
}

func printResult(cmd *cobra.Command, result *app.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	out := map[string]interface{}{
		"status":      result.Status,
		"message":     result.Message,
		"score":       result.Report.Score,
		"stars":       result.Report.Stars,
		"suggestions": result.Report.Suggestions,
	}
	return enc.Encode(out)
}

// Execute runs the root command against os.Args, exiting the process on
// failure the way a standalone CLI binary is expected to.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
