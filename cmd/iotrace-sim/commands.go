// commands.go: iotrace-sim subcommand handlers
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/agilira/orpheus/pkg/orpheus"
	"golang.org/x/term"

	"github.com/noahyzhang/iotrace"
	"github.com/noahyzhang/iotrace/bench"
)

// manager holds state shared across subcommand handlers - just the
// resolved config path, since each handler builds its own engine.
type manager struct {
	configPath string
}

func (m *manager) newEngine() (*iotrace.Engine, error) {
	cfg := iotrace.LoadConfigFromEnv()
	if m.configPath != "" {
		fileCfg, err := iotrace.LoadConfigFromYAML(m.configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	return iotrace.NewEngine(cfg.WithDefaults()), nil
}

func (m *manager) handleRun(ctx *orpheus.Context) error {
	engine, err := m.newEngine()
	if err != nil {
		return err
	}

	harness := bench.New(engine, bench.Config{
		Producers:         ctx.GetFlagInt("producers"),
		EventsPerProducer: ctx.GetFlagInt("events"),
	})
	dropped := harness.Run()

	infos := engine.Snapshot()

	if ctx.GetFlagBool("json") {
		return printJSON(infos)
	}
	printTable(infos)
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "iotrace-sim: %d ring pushes refused and retried under producer back-pressure\n", dropped)
	}
	return nil
}

func (m *manager) handleCounters(ctx *orpheus.Context) error {
	engine, err := m.newEngine()
	if err != nil {
		return err
	}

	var counters iotrace.MonitorCountersValue
	if ctx.GetFlagBool("reset") {
		_, counters = engine.SnapshotAndResetCounters()
	} else {
		counters = engine.Counters()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintf(w, "open_calls\t%d\n", counters.OpenFuncCallNum)
	fmt.Fprintf(w, "close_calls\t%d\n", counters.CloseFuncCallNum)
	fmt.Fprintf(w, "read_calls\t%d\n", counters.ReadFuncCallNum)
	fmt.Fprintf(w, "write_calls\t%d\n", counters.WriteFuncCallNum)
	fmt.Fprintf(w, "open_close_param_errors\t%d\n", counters.APIOpenCloseParamErrorNum)
	fmt.Fprintf(w, "read_write_param_errors\t%d\n", counters.APIReadWriteParamErrorNum)
	fmt.Fprintf(w, "overflow_drops\t%d\n", counters.ExceedDataPoolSizeDropNum)
	fmt.Fprintf(w, "fd_not_found\t%d\n", counters.NotFoundFDFileNameNum)
	return w.Flush()
}

func printJSON(infos []iotrace.FileInfo) error {
	enc := json.NewEncoder(os.Stdout)
	for _, fi := range infos {
		if err := enc.Encode(fi); err != nil {
			return err
		}
	}
	return nil
}

func printTable(infos []iotrace.FileInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(w, "TID\tPATH\tREAD\tWRITE")
	}
	for _, fi := range infos {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", fi.TID, fi.Path, fi.ReadBytes, fi.WriteBytes)
	}
	_ = w.Flush()
}
