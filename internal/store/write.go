package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
)

// WriteRun inserts a run and its counts in one transaction and returns the
// assigned seq.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run ID
// twice leaves the first record untouched and returns its seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	circuitJSON, err := marshalCircuit(run.Circuit)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	probsJSON, err := marshalProbabilities(run.Probabilities)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}
	stateJSON, err := marshalState(run.State)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&existing)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("write run: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, circuit_hash, circuit_name, circuit, qubits, clbits, shots, seed, path, probabilities, state, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.CircuitHash,
		run.Circuit.Name,
		circuitJSON,
		run.Circuit.NumQubits,
		run.Circuit.NumClbits,
		run.Shots,
		formatSeed(run.Seed),
		run.Path,
		probsJSON,
		stateJSON,
		run.EngineVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	// Sorted keys keep the insert order stable.
	keys := make([]string, 0, len(run.Counts))
	for k := range run.Counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, bits := range keys {
		if run.Counts[bits] <= 0 {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_counts (run_id, bits, count)
			VALUES (?, ?, ?)
			ON CONFLICT DO NOTHING
		`, run.ID, bits, run.Counts[bits])
		if err != nil {
			return 0, fmt.Errorf("write run counts: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
