package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ReadRun returns the run with the given ID, entries in rank order.
// Returns an error wrapping ErrRunNotFound if no such run exists.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, graph_name, fingerprint, params
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}

	if run.Entries, err = s.readEntries(ctx, run.ID); err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns runs matching opts, newest first (seq DESC).
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(opts.Kind))
	}
	if opts.Fingerprint != "" {
		where = append(where, "fingerprint = ?")
		args = append(args, opts.Fingerprint)
	}

	query := `SELECT id, seq, kind, graph_name, fingerprint, params FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	runs, err := s.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	// Entries are loaded after the run cursor is closed; the pool holds a
	// single connection.
	for i := range runs {
		if runs[i].Entries, err = s.readEntries(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// LatestRun returns the newest run of kind for the graph with fingerprint.
func (s *Store) LatestRun(ctx context.Context, kind Kind, fingerprint string) (Run, error) {
	runs, err := s.ListRuns(ctx, ListOptions{Kind: kind, Fingerprint: fingerprint, Limit: 1})
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("latest %s run: %w", kind, ErrRunNotFound)
	}
	return runs[0], nil
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// readEntries returns a run's entries ordered by rank, then key.
func (s *Store) readEntries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, rank
		FROM run_entries
		WHERE run_id = ?
		ORDER BY rank ASC, key COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Key, &e.Value, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run    Run
		kind   string
		params string
	)
	if err := row.Scan(&run.ID, &run.Seq, &kind, &run.GraphName, &run.Fingerprint, &params); err != nil {
		return Run{}, err
	}
	run.Kind = Kind(kind)

	var err error
	if run.Params, err = unmarshalParams(params); err != nil {
		return Run{}, err
	}
	return run, nil
}
