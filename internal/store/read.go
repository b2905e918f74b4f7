package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/richarc/qx-sub001/internal/queryir"
	"github.com/richarc/qx-sub001/internal/querysql"
)

var summaryColumns = []string{
	"id", "seq", "circuit_hash", "circuit_name", "qubits", "clbits", "shots", "seed", "path", "engine_version",
}

// ReadRun returns a run with its circuit, state and counts.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var circuitJSON, seed, probsJSON, stateJSON string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, circuit_hash, circuit, shots, seed, path, probabilities, state, engine_version
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.Seq,
		&run.CircuitHash,
		&circuitJSON,
		&run.Shots,
		&seed,
		&run.Path,
		&probsJSON,
		&stateJSON,
		&run.EngineVersion,
	)
	if err != nil {
		return Run{}, err
	}

	if run.Circuit, err = unmarshalCircuit(circuitJSON); err != nil {
		return Run{}, err
	}
	if run.Seed, err = parseSeed(seed); err != nil {
		return Run{}, err
	}
	if run.Probabilities, err = unmarshalProbabilities(probsJSON); err != nil {
		return Run{}, err
	}
	if run.State, err = unmarshalState(stateJSON); err != nil {
		return Run{}, err
	}
	if run.Counts, err = s.ReadCounts(ctx, id); err != nil {
		return Run{}, err
	}

	return run, nil
}

// ReadCounts returns the counts recorded for a run.
// Returns an empty map (not nil) if the run has none.
func (s *Store) ReadCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bits, count
		FROM run_counts
		WHERE run_id = ?
		ORDER BY bits COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var bits string
		var n int
		if err := rows.Scan(&bits, &n); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		counts[bits] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return counts, nil
}

// ListRuns returns summaries of runs matching filter (nil = all), in seq
// order. limit 0 means no limit.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter queryir.Predicate, limit int) ([]RunSummary, error) {
	query, params, err := querysql.NewSQLCompiler(summaryColumns...).Compile(queryir.Select{
		From:   "runs",
		Filter: filter,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return summaries, nil
}

func scanSummary(rows *sql.Rows) (RunSummary, error) {
	var sum RunSummary
	var seed string
	err := rows.Scan(
		&sum.ID,
		&sum.Seq,
		&sum.CircuitHash,
		&sum.CircuitName,
		&sum.Qubits,
		&sum.Clbits,
		&sum.Shots,
		&seed,
		&sum.Path,
		&sum.EngineVersion,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	if sum.Seed, err = parseSeed(seed); err != nil {
		return RunSummary{}, err
	}
	return sum, nil
}
