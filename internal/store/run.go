package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/halvard/cyclesim/internal/model"
	"github.com/halvard/cyclesim/internal/scheduler"
)

// Run is a persisted run: its inputs, the configuration it ran under,
// and the two artifacts the engine produced.
type Run struct {
	ID        string
	Algorithm scheduler.Algorithm
	RRQuantum int
	Mode      string
	Digest    string
	CreatedAt time.Time

	Processes []model.Process
	Resources []model.Resource
	Actions   []model.Action

	ExecutionHistory []string
	SyncLog          []model.Event
}

// WriteRun persists a run and all of its associated rows in a single
// transaction: either the whole run lands, or none of it does.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, algorithm, rr_quantum, mode, digest, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Algorithm), run.RRQuantum, run.Mode, run.Digest, run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, p := range run.Processes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_processes (run_id, idx, pid, burst, arrival, priority) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, p.ID, p.Burst, p.Arrival, p.Priority,
		); err != nil {
			return fmt.Errorf("insert process %d: %w", i, err)
		}
	}

	for _, r := range run.Resources {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_resources (run_id, name, capacity) VALUES (?, ?, ?)`,
			run.ID, r.Name, r.Capacity,
		); err != nil {
			return fmt.Errorf("insert resource %s: %w", r.Name, err)
		}
	}

	for i, a := range run.Actions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_actions (run_id, seq, pid, type, resource, cycle) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, a.ProcessID, string(a.Type), a.Resource, a.Cycle,
		); err != nil {
			return fmt.Errorf("insert action %d: %w", i, err)
		}
	}

	for cycle, pid := range run.ExecutionHistory {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO execution_history (run_id, cycle, process_id) VALUES (?, ?, ?)`,
			run.ID, cycle, pid,
		); err != nil {
			return fmt.Errorf("insert execution history at cycle %d: %w", cycle, err)
		}
	}

	for i, e := range run.SyncLog {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sync_log (run_id, seq, cycle, process_index, resource, outcome, action) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, e.Cycle, e.ProcessIndex, e.Resource, string(e.Outcome), string(e.Action),
		); err != nil {
			return fmt.Errorf("insert sync log entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return nil
}

// ListRunIDs returns every persisted run id, most recently created
// first.
func (s *Store) ListRunIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query run ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReadRun reloads a persisted run by its id, ordered deterministically
// by each table's natural key so re-running against the result is
// reproducible.
func (s *Store) ReadRun(ctx context.Context, runID string) (Run, error) {
	run := Run{ID: runID}

	var algo, mode, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT algorithm, rr_quantum, mode, digest, created_at FROM runs WHERE id = ?`, runID,
	).Scan(&algo, &run.RRQuantum, &mode, &run.Digest, &createdAt)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", runID, err)
	}
	run.Algorithm = scheduler.Algorithm(algo)
	run.Mode = mode
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	if run.Processes, err = s.readProcesses(ctx, runID); err != nil {
		return Run{}, err
	}
	if run.Resources, err = s.readResources(ctx, runID); err != nil {
		return Run{}, err
	}
	if run.Actions, err = s.readActions(ctx, runID); err != nil {
		return Run{}, err
	}
	if run.ExecutionHistory, err = s.readExecutionHistory(ctx, runID); err != nil {
		return Run{}, err
	}
	if run.SyncLog, err = s.readSyncLog(ctx, runID); err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) readProcesses(ctx context.Context, runID string) ([]model.Process, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pid, burst, arrival, priority FROM run_processes WHERE run_id = ? ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query processes: %w", err)
	}
	defer rows.Close()

	var out []model.Process
	for rows.Next() {
		var p model.Process
		if err := rows.Scan(&p.ID, &p.Burst, &p.Arrival, &p.Priority); err != nil {
			return nil, fmt.Errorf("scan process row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) readResources(ctx context.Context, runID string) ([]model.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, capacity FROM run_resources WHERE run_id = ? ORDER BY name ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	defer rows.Close()

	var out []model.Resource
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.Name, &r.Capacity); err != nil {
			return nil, fmt.Errorf("scan resource row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) readActions(ctx context.Context, runID string) ([]model.Action, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pid, type, resource, cycle FROM run_actions WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var out []model.Action
	for rows.Next() {
		var a model.Action
		var actionType string
		if err := rows.Scan(&a.ProcessID, &actionType, &a.Resource, &a.Cycle); err != nil {
			return nil, fmt.Errorf("scan action row: %w", err)
		}
		a.Type = model.ActionType(actionType)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) readExecutionHistory(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT process_id FROM execution_history WHERE run_id = ? ORDER BY cycle ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query execution history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var pid string
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("scan execution history row: %w", err)
		}
		out = append(out, pid)
	}
	return out, rows.Err()
}

func (s *Store) readSyncLog(ctx context.Context, runID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, cycle, process_index, resource, outcome, action FROM sync_log WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query sync log: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		var outcome, action string
		if err := rows.Scan(&e.Seq, &e.Cycle, &e.ProcessIndex, &e.Resource, &outcome, &action); err != nil {
			return nil, fmt.Errorf("scan sync log row: %w", err)
		}
		e.Outcome = model.Outcome(outcome)
		e.Action = model.ActionType(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
