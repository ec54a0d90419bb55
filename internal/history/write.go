package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// WriteRun records run and returns it with its ID and sequence number
// assigned. A run that arrives with an ID keeps it. Seq is always assigned
// by the store: one more than the highest stored seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if !run.Kind.Valid() {
		return Run{}, fmt.Errorf("write run: unknown kind %q", run.Kind)
	}
	if run.Fingerprint == "" {
		return Run{}, fmt.Errorf("write run: fingerprint is required")
	}
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	params, err := marshalParams(run.Params)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, kind, graph_name, fingerprint, params)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seq, string(run.Kind), run.GraphName, run.Fingerprint, params)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := insertEntries(ctx, tx, run.ID, run.Entries); err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, runID string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (run_id, rank, key, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entries: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.Rank, e.Key, e.Value); err != nil {
			return fmt.Errorf("insert entry %q: %w", e.Key, err)
		}
	}
	return nil
}

// marshalParams stores params as a JSON object. encoding/json sorts map
// keys, so equal params always serialize identically.
func marshalParams(params map[string]string) (string, error) {
	if len(params) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}
	return string(data), nil
}

func unmarshalParams(data string) (map[string]string, error) {
	var params map[string]string
	if err := json.Unmarshal([]byte(data), &params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}
