package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/cyclesim/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// TraceTimelineEntry is one cycle of a persisted run's execution history.
type TraceTimelineEntry struct {
	Cycle   int    `json:"cycle"`
	Process string `json:"process"`
}

// TraceLogEntry is one synchronization event from a persisted run.
type TraceLogEntry struct {
	Cycle    int    `json:"cycle"`
	Process  string `json:"process"`
	Resource string `json:"resource"`
	Outcome  string `json:"outcome"`
	Action   string `json:"action"`
}

// TraceResult holds the complete trace output for a persisted run.
type TraceResult struct {
	RunID     string               `json:"run_id"`
	Algorithm string               `json:"algorithm"`
	Mode      string               `json:"mode"`
	Digest    string               `json:"digest"`
	Timeline  []TraceTimelineEntry `json:"timeline"`
	Log       []TraceLogEntry      `json:"log"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the execution history and event log of a persisted run",
		Long: `Read a previously persisted run from the database and print its
per-cycle execution history and chronological synchronization log.

Examples:
  cyclesim trace --db run.db --run 0f1e...
  cyclesim trace --db run.db --run 0f1e... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to trace (required)")
	_ = cmd.MarkFlagRequired("run")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), opts.RunID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	timeline := make([]TraceTimelineEntry, len(run.ExecutionHistory))
	for i, pid := range run.ExecutionHistory {
		timeline[i] = TraceTimelineEntry{Cycle: i, Process: pid}
	}

	logEntries := make([]TraceLogEntry, len(run.SyncLog))
	for i, e := range run.SyncLog {
		process := ""
		if e.ProcessIndex >= 0 && e.ProcessIndex < len(run.Processes) {
			process = run.Processes[e.ProcessIndex].ID
		}
		logEntries[i] = TraceLogEntry{
			Cycle:    e.Cycle,
			Process:  process,
			Resource: e.Resource,
			Outcome:  string(e.Outcome),
			Action:   string(e.Action),
		}
	}

	result := TraceResult{
		RunID:     run.ID,
		Algorithm: string(run.Algorithm),
		Mode:      run.Mode,
		Digest:    run.Digest,
		Timeline:  timeline,
		Log:       logEntries,
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return outputTraceText(formatter, result)
}

func outputTraceText(formatter *OutputFormatter, result TraceResult) error {
	w := formatter.Writer
	fmt.Fprintf(w, "Trace for run %s [%s/%s]\n", result.RunID, result.Algorithm, result.Mode)
	fmt.Fprintf(w, "Digest: %s\n\n", result.Digest)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, entry := range result.Timeline {
		fmt.Fprintf(w, "  [%d] %s\n", entry.Cycle, entry.Process)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Synchronization log ===")
	if len(result.Log) == 0 {
		fmt.Fprintln(w, "  (empty)")
	}
	for _, entry := range result.Log {
		fmt.Fprintf(w, "  [%d] %s %s %s -> %s\n", entry.Cycle, entry.Process, entry.Action, entry.Resource, entry.Outcome)
	}

	return nil
}
