package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/engine"
	"github.com/richarc/qx-sub001/internal/queryir"
	"github.com/richarc/qx-sub001/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	ID       string
	Circuit  string
	Path     string
	MinShots int
	Limit    int
}

// RunDetail is the JSON payload for a single recorded run.
type RunDetail struct {
	ID            string             `json:"id"`
	Seq           int64              `json:"seq"`
	CircuitHash   string             `json:"circuit_hash"`
	Circuit       circuit.Circuit    `json:"circuit"`
	Shots         int                `json:"shots"`
	Seed          uint64             `json:"seed,string"`
	Path          string             `json:"path"`
	Counts        engine.Counts      `json:"counts"`
	Probabilities []float64          `json:"probabilities"`
	State         []engine.Amplitude `json:"state"`
	EngineVersion string             `json:"engine_version"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show recorded runs",
		Long: `List runs recorded with 'qx run --db', oldest first, or show one run
in full with --id.

Example:
  qx history --db ./runs.db
  qx history --db ./runs.db --circuit bell --min-shots 1000
  qx history --db ./runs.db --id 0190a3c2-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "show a single run")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "filter by circuit name")
	cmd.Flags().StringVar(&opts.Path, "path", "", "filter by execution path (batched|per_shot)")
	cmd.Flags().IntVar(&opts.MinShots, "min-shots", 0, "filter by minimum shot count")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of runs (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Don't create a database just to report it empty
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}
	if opts.Limit < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "limit must be non-negative", nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if opts.ID != "" {
		run, err := st.ReadRun(ctx, opts.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return formatter.Fail(ExitFailure, ErrCodeRunNotFound, fmt.Sprintf("run not found: %s", opts.ID), nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to read run", err)
		}
		return outputRunDetail(formatter, run)
	}

	runs, err := st.ListRuns(ctx, historyFilter(opts), opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			strconv.FormatInt(r.Seq, 10),
			r.ID,
			r.CircuitName,
			strconv.Itoa(r.Qubits),
			strconv.Itoa(r.Shots),
			r.Path,
			strconv.FormatUint(r.Seed, 10),
		}
	}
	formatter.Table([]string{"SEQ", "ID", "CIRCUIT", "QUBITS", "SHOTS", "PATH", "SEED"}, rows)
	return nil
}

// historyFilter builds the ListRuns predicate from flags; nil lists all.
func historyFilter(opts *HistoryOptions) queryir.Predicate {
	var preds []queryir.Predicate
	if opts.Circuit != "" {
		preds = append(preds, queryir.Equals{Field: "circuit_name", Value: opts.Circuit})
	}
	if opts.Path != "" {
		preds = append(preds, queryir.Equals{Field: "path", Value: opts.Path})
	}
	if opts.MinShots > 0 {
		preds = append(preds, queryir.AtLeast{Field: "shots", Value: int64(opts.MinShots)})
	}

	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return queryir.And{Predicates: preds}
	}
}

func outputRunDetail(formatter *OutputFormatter, run store.Run) error {
	detail := RunDetail{
		ID:            run.ID,
		Seq:           run.Seq,
		CircuitHash:   run.CircuitHash,
		Circuit:       run.Circuit,
		Shots:         run.Shots,
		Seed:          run.Seed,
		Path:          run.Path,
		Counts:        engine.Counts(run.Counts),
		Probabilities: run.Probabilities,
		State:         engine.Amplitudes(run.State),
		EngineVersion: run.EngineVersion,
	}

	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "run: %s (seq %d)\n", detail.ID, detail.Seq)
	fmt.Fprintf(w, "circuit: %s (%s)  qubits: %d  clbits: %d\n",
		detail.Circuit.Name, shortHash(detail.CircuitHash), detail.Circuit.NumQubits, detail.Circuit.NumClbits)
	fmt.Fprintf(w, "path: %s  shots: %d  seed: %d  engine: %s\n\n",
		detail.Path, detail.Shots, detail.Seed, detail.EngineVersion)

	rows := make([][]string, 0, len(detail.Counts))
	for _, bits := range detail.Counts.Keys() {
		rows = append(rows, []string{bits, strconv.Itoa(detail.Counts[bits])})
	}
	formatter.Table([]string{"BITS", "COUNT"}, rows)
	return nil
}
