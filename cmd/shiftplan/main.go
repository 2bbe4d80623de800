// Package main is the entry point for the shiftplan command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(stdout, stderr).RunContext(ctx, args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "shiftplan",
		Usage:                  "Schedule byte-level edits on files and write them in place",
		Version:                fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file",
			},
			&cli.IntFlag{
				Name:    "block-size",
				Aliases: []string{"b"},
				Usage:   "Largest number of bytes moved by one plan step (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-env",
				Usage: "Ignore SHIFTPLAN_* environment variables",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "check",
				Usage:     "Validate an edit script",
				ArgsUsage: "SCRIPT",
				Action:    checkCommand,
			},
			{
				Name:      "plan",
				Usage:     "Print the flush plan of an edit script without writing anything",
				ArgsUsage: "[FILE]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "script",
						Aliases:  []string{"s"},
						Usage:    "Edit script (YAML)",
						Required: true,
					},
					&cli.Int64Flag{
						Name:  "size",
						Usage: "Plan against a zero-filled medium of this size when no FILE is given",
					},
				},
				Action: planCommand,
			},
			{
				Name:      "apply",
				Usage:     "Apply an edit script to files in place",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "script",
						Aliases:  []string{"s"},
						Usage:    "Edit script (YAML)",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "watch",
						Aliases: []string{"w"},
						Usage:   "Watch files for outside changes while applying (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "Print flush statistics after all files are done",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Number of files processed at once",
						Value:   4,
					},
				},
				Action: applyCommand,
			},
		},
	}
}
