// Command iotrace-sim is a small demo/ops CLI around an iotrace engine: it
// drives the bench harness, takes snapshots, and reports monitor counters.
// It exists to give the library something runnable while developing
// against it; the intercepting of a real process's open/read/write calls
// is outside this module's scope (spec.md §1 Non-goals).
//
// Grounded on agilira-argus's cmd/cli package: an Orpheus App with
// git-style subcommands, plus a flash-flags FlagSet for the small set of
// global pre-dispatch flags (here: --config) that need to be known before
// Orpheus routes to a subcommand.
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"fmt"
	"os"

	flashflags "github.com/agilira/flash-flags"
	"github.com/agilira/orpheus/pkg/orpheus"
)

func main() {
	globalFlags := flashflags.New("iotrace-sim")
	globalFlags.String("config", "", "path to a YAML config file (overrides IOTRACE_* env vars)")
	// Parse once, tolerantly, purely to pull --config out before Orpheus
	// does its own argument routing; unknown flags/args are left for
	// Orpheus to parse for real.
	_ = globalFlags.Parse(os.Args[1:])

	app := newApp(globalFlags.GetString("config"))
	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "iotrace-sim:", err)
		os.Exit(1)
	}
}

func newApp(configPath string) *orpheus.App {
	app := orpheus.New("iotrace-sim").
		SetDescription("Demo driver for the iotrace accounting engine").
		SetVersion("0.1.0")

	m := &manager{configPath: configPath}

	runCmd := orpheus.NewCommand("run", "Generate synthetic load and print a final snapshot")
	runCmd.AddIntFlag("producers", "p", 8, "number of concurrent producer goroutines")
	runCmd.AddIntFlag("events", "e", 1000, "events per producer")
	runCmd.AddBoolFlag("json", "j", false, "emit snapshot rows as JSON lines instead of a table")
	runCmd.SetHandler(m.handleRun)
	app.AddCommand(runCmd)

	countersCmd := orpheus.NewCommand("counters", "Print current monitor counters")
	countersCmd.AddBoolFlag("reset", "r", false, "read-reset the counters instead of a plain read")
	countersCmd.SetHandler(m.handleCounters)
	app.AddCommand(countersCmd)

	return app
}
