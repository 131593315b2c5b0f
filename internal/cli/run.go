package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/halvard/cyclesim/internal/digest"
	"github.com/halvard/cyclesim/internal/engine"
	"github.com/halvard/cyclesim/internal/loader"
	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/scheduler"
	"github.com/halvard/cyclesim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Processes string
	Resources string
	Actions   string
	Algorithm string
	RRQuantum int
	Mode      string
	Database  string
	MaxCycles int
}

// RunSummary is the JSON/text payload reported after a run completes.
type RunSummary struct {
	RunID              string   `json:"run_id"`
	Algorithm          string   `json:"algorithm"`
	Mode               string   `json:"mode"`
	History            []string `json:"history,omitempty"`
	AverageWaitingTime float64  `json:"average_waiting_time,omitempty"`
	SyncEvents         int      `json:"sync_events,omitempty"`
	Diagnostics        int      `json:"diagnostics,omitempty"`
	Digest             string   `json:"digest"`
}

func (s RunSummary) String() string {
	if s.Mode == "SYNCHRONIZATION" {
		return fmt.Sprintf("run %s [%s/%s]: %d sync events, %d diagnostics, digest %s",
			s.RunID, s.Algorithm, s.Mode, s.SyncEvents, s.Diagnostics, s.Digest)
	}
	return fmt.Sprintf("run %s [%s/%s]: history=%v avg_waiting_time=%.2f digest %s",
		s.RunID, s.Algorithm, s.Mode, s.History, s.AverageWaitingTime, s.Digest)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation to completion",
		Long: `Load processes, resources, and an action script, run the simulation
to completion under the chosen scheduling discipline, and report the
resulting execution history or synchronization log.

Example:
  cyclesim run --processes p.txt --algorithm FIFO
  cyclesim run --processes p.txt --resources r.txt --actions a.txt --mode SYNCHRONIZATION --db run.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Processes, "processes", "", "path to processes input file (required)")
	_ = cmd.MarkFlagRequired("processes")
	cmd.Flags().StringVar(&opts.Resources, "resources", "", "path to resources input file")
	cmd.Flags().StringVar(&opts.Actions, "actions", "", "path to action script input file")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "FIFO", "scheduling algorithm (FIFO|SJF|SRT|Priority|RR)")
	cmd.Flags().IntVar(&opts.RRQuantum, "rr-quantum", 1, "round robin quantum")
	cmd.Flags().StringVar(&opts.Mode, "mode", "SCHEDULING", "run mode (SCHEDULING|SYNCHRONIZATION)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "optional path to a SQLite database to persist the run")
	cmd.Flags().IntVar(&opts.MaxCycles, "max-cycles", 100_000, "safety cap on ticks before giving up")

	return cmd
}

func runSimulation(opts *RunOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	algo, err := scheduler.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid algorithm", err)
	}

	processes, err := loader.LoadProcesses(opts.Processes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load processes", err)
	}

	var resources []model.Resource
	if opts.Resources != "" {
		resources, err = loader.LoadResources(opts.Resources)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load resources", err)
		}
	}

	var actions []model.Action
	if opts.Actions != "" {
		actions, err = loader.LoadActions(opts.Actions)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load actions", err)
		}
	}

	eng, err := engine.New(processes, resources, actions, algo, opts.RRQuantum)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to construct engine", err)
	}

	mode := engine.Scheduling
	if opts.Mode == "SYNCHRONIZATION" {
		mode = engine.Synchronization
	}
	eng.SetMode(mode)

	slog.Info("simulation starting", "algorithm", string(algo), "mode", mode.String())

	for i := 0; i < opts.MaxCycles && !eng.IsFinished(); i++ {
		eng.Tick()
	}
	if !eng.IsFinished() {
		return WrapExitError(ExitFailure, "simulation did not finish", fmt.Errorf("exceeded %d cycles", opts.MaxCycles))
	}

	history := eng.ExecutionHistory()
	syncLog := eng.SyncLog()
	traceDigest := digest.Trace(history, syncLog)
	runID := uuid.NewString()

	summary := RunSummary{
		RunID:     runID,
		Algorithm: string(algo),
		Mode:      mode.String(),
		Digest:    traceDigest,
	}
	if mode == engine.Scheduling {
		summary.History = history
		summary.AverageWaitingTime = eng.AverageWaitingTime()
	} else {
		summary.SyncEvents = len(syncLog)
		summary.Diagnostics = len(eng.Diagnostics())
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		run := store.Run{
			ID:               runID,
			Algorithm:        algo,
			RRQuantum:        opts.RRQuantum,
			Mode:             mode.String(),
			Digest:           traceDigest,
			CreatedAt:        time.Now(),
			Processes:        processes,
			Resources:        resources,
			Actions:          actions,
			ExecutionHistory: history,
			SyncLog:          syncLog,
		}
		if err := st.WriteRun(cmd.Context(), run); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		formatter.VerboseLog("persisted run %s to %s", runID, opts.Database)
	}

	return formatter.Success(summary)
}
