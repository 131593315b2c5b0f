package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/cyclesim/internal/digest"
	"github.com/halvard/cyclesim/internal/engine"
	"github.com/halvard/cyclesim/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	StoredDigest  string `json:"stored_digest"`
	ReplayDigest  string `json:"replay_digest"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-run persisted inputs and verify determinism",
		Long: `Re-run a persisted run's stored inputs through a fresh engine and
compare the freshly computed trace digest against the one stored at
run time. A mismatch means the same inputs produced a different
execution history or event log on replay.

Exit codes:
  0 - All replayed runs are deterministic
  1 - Determinism verification failed (digest mismatch)
  2 - Command error (database not found, etc.)

Examples:
  cyclesim replay --db run.db
  cyclesim replay --db run.db --run 0f1e...
  cyclesim replay --db run.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay a specific run only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runIDs []string
	if opts.RunID != "" {
		runIDs = []string{opts.RunID}
	} else {
		runIDs, err = st.ListRunIDs(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if len(runIDs) == 0 {
		result := ReplayResult{Runs: []ReplayRunResult{}, AllDeterministic: true}
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "no runs found in database")
		return nil
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(runIDs)),
		TotalRuns:        len(runIDs),
		AllDeterministic: true,
	}

	for _, id := range runIDs {
		runResult, err := replayAndVerifyRun(ctx, st, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
		if !result.AllDeterministic {
			return NewExitError(ExitFailure, "determinism verification failed")
		}
		return nil
	}
	return outputReplayText(formatter, result)
}

// replayAndVerifyRun reconstructs the engine from a persisted run's
// stored inputs, runs it to completion, and compares the freshly
// computed digest against the one stored at run time.
func replayAndVerifyRun(ctx context.Context, st *store.Store, runID string) (ReplayRunResult, error) {
	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return ReplayRunResult{}, err
	}

	rrQuantum := run.RRQuantum
	if rrQuantum < 1 {
		rrQuantum = 1
	}

	eng, err := engine.New(run.Processes, run.Resources, run.Actions, run.Algorithm, rrQuantum)
	if err != nil {
		return ReplayRunResult{}, fmt.Errorf("reconstruct engine: %w", err)
	}
	if run.Mode == "SYNCHRONIZATION" {
		eng.SetMode(engine.Synchronization)
	}

	const maxReplayCycles = 100_000
	for i := 0; i < maxReplayCycles && !eng.IsFinished(); i++ {
		eng.Tick()
	}
	if !eng.IsFinished() {
		return ReplayRunResult{}, fmt.Errorf("replay exceeded %d cycles without finishing", maxReplayCycles)
	}

	replayDigest := digest.Trace(eng.ExecutionHistory(), eng.SyncLog())

	return ReplayRunResult{
		RunID:         runID,
		StoredDigest:  run.Digest,
		ReplayDigest:  replayDigest,
		Deterministic: replayDigest == run.Digest,
	}, nil
}

func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Replay summary: %d run(s)\n\n", result.TotalRuns)

	for _, run := range result.Runs {
		status := "match"
		if !run.Deterministic {
			status = "MISMATCH"
		}
		fmt.Fprintf(w, "  %s  run %s\n", status, run.RunID)
		if formatter.Verbose || !run.Deterministic {
			fmt.Fprintf(w, "    stored: %s\n", run.StoredDigest)
			fmt.Fprintf(w, "    replay: %s\n", run.ReplayDigest)
		}
	}
	fmt.Fprintln(w)

	if result.AllDeterministic {
		fmt.Fprintln(w, "all runs verified deterministic")
		return nil
	}
	fmt.Fprintln(w, "determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
