package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/replay"
	"github.com/sarchlab/cachesim/trace"
)

// runConfig carries the command-line options of one replay.
type runConfig struct {
	setBits       int
	associativity int
	blockBits     int
	tracePath     string

	verbose bool

	record    bool
	dbBackend string

	monitorOn   bool
	monitorPort int
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	// A .env file can supply the CACHESIM_DB_* recording credentials.
	_ = godotenv.Load()

	cfg := configFromFlags(cmd)

	err := validateConfig(cfg)
	if err != nil {
		return err
	}

	return replayTrace(cmd.OutOrStdout(), cfg)
}

func configFromFlags(cmd *cobra.Command) runConfig {
	cfg := runConfig{}

	cfg.setBits, _ = cmd.Flags().GetInt("set-bits")
	cfg.associativity, _ = cmd.Flags().GetInt("associativity")
	cfg.blockBits, _ = cmd.Flags().GetInt("block-bits")
	cfg.tracePath, _ = cmd.Flags().GetString("trace")
	cfg.verbose, _ = cmd.Flags().GetBool("verbose")
	cfg.record, _ = cmd.Flags().GetBool("record")
	cfg.dbBackend, _ = cmd.Flags().GetString("db")
	cfg.monitorOn, _ = cmd.Flags().GetBool("monitor")
	cfg.monitorPort, _ = cmd.Flags().GetInt("monitor-port")

	return cfg
}

func validateConfig(cfg runConfig) error {
	if cfg.setBits <= 0 {
		return fmt.Errorf("set-bits must be a positive integer")
	}

	if cfg.associativity <= 0 {
		return fmt.Errorf("associativity must be a positive integer")
	}

	if cfg.blockBits <= 0 {
		return fmt.Errorf("block-bits must be a positive integer")
	}

	if cfg.setBits+cfg.blockBits >= 64 {
		return fmt.Errorf("set-bits and block-bits must sum to less than 64")
	}

	if cfg.tracePath == "" {
		return fmt.Errorf("a trace file is required")
	}

	if cfg.record &&
		cfg.dbBackend != "sqlite" && cfg.dbBackend != "clickhouse" {
		return fmt.Errorf("unknown recording backend %q, "+
			"expecting sqlite or clickhouse", cfg.dbBackend)
	}

	return nil
}

// replayTrace builds the cache and the replayer, runs the trace through
// them, and prints the summary on w.
func replayTrace(w io.Writer, cfg runConfig) error {
	directory := cache.MakeBuilder().
		WithSetBits(cfg.setBits).
		WithBlockOffsetBits(cfg.blockBits).
		WithWayAssociativity(cfg.associativity).
		Build()

	scanner, closeTrace, err := trace.Open(cfg.tracePath)
	if err != nil {
		return err
	}
	defer closeTrace()

	replayer := replay.MakeBuilder().
		WithDirectory(directory).
		WithScanner(scanner).
		Build()

	if cfg.verbose {
		replayer.AcceptHook(replay.NewVerbosePrinter(w))
	}

	var recorder *replay.Recorder
	var execRecorder *datarecording.ExecRecorder
	if cfg.record {
		backend := recordingBackend(cfg.dbBackend)

		recorder = replay.NewRecorder(backend)
		replayer.AcceptHook(recorder)

		execRecorder = datarecording.NewExecRecorder(backend)
		execRecorder.Start()
	}

	if cfg.monitorOn {
		startMonitor(replayer, directory, cfg)
	}

	err = replayer.Run()
	if err != nil {
		return fmt.Errorf("failed to replay trace: %w", err)
	}

	stats := replayer.Stats()

	if recorder != nil {
		recorder.RecordSummary(stats)
		execRecorder.End()
	}

	return replay.PrintSummary(w, stats)
}

func recordingBackend(name string) datarecording.DataRecorder {
	if name == "clickhouse" {
		return datarecording.NewClickHouseRecorder()
	}

	writer := datarecording.NewSQLiteWriter("")
	writer.Init()

	return writer
}

// startMonitor exposes the replayer through the monitoring server and opens
// the dashboard in a browser.
func startMonitor(
	replayer *replay.Replayer,
	directory cache.Directory,
	cfg runConfig,
) {
	monitor := monitoring.NewMonitor()
	if cfg.monitorPort > 0 {
		monitor.WithPortNumber(cfg.monitorPort)
	}

	monitor.RegisterReplayer(replayer)
	monitor.RegisterComponent("Directory", directory)

	total, err := trace.CountDataEvents(cfg.tracePath)
	if err == nil {
		bar := monitor.CreateProgressBar(
			"Replaying "+filepath.Base(cfg.tracePath), uint64(total))
		replayer.AcceptHook(bar)
	}

	url := monitor.StartServer()

	err = browser.OpenURL(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open the dashboard: %s\n", err)
	}
}
