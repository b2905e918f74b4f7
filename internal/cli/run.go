package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/engine"
	"github.com/richarc/qx-sub001/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Circuit  string
	Shots    int
	Seed     uint64
	Workers  int
	Database string
	ShowBits bool

	// RunIDGenerator allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDGenerator engine.RunIDGenerator
}

// RunOutput is the JSON payload of the run command.
type RunOutput struct {
	RunID   string         `json:"run_id,omitempty"`
	Seq     int64          `json:"seq,omitempty"`
	Circuit string         `json:"circuit"`
	Hash    string         `json:"hash"`
	Result  *engine.Result `json:"result"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Run a circuit and print outcome counts",
		Long: `Run a CUE circuit for a number of shots and print the outcome histogram.

Circuits without conditionals are evolved once and sampled; circuits with
conditionals run shot by shot across --workers goroutines. The seed used is
always reported so any run can be reproduced with --seed.

With --db the run is recorded in a SQLite run history.

Example:
  qx run ./circuits/bell.cue --shots 1000
  qx run ./circuits --circuit teleport --seed 42 --db ./runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCircuit(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "circuit name (required when the path defines several)")
	cmd.Flags().IntVar(&opts.Shots, "shots", engine.DefaultShots, "number of shots")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default: drawn per run)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "per-shot workers (default: GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().BoolVar(&opts.ShowBits, "bits", false, "print every shot's register")

	return cmd
}

func runCircuit(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd)

	c, err := loadCircuit(path, opts.Circuit)
	if err != nil {
		return failLoad(formatter, err)
	}

	hash, err := circuit.Hash(*c)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to hash circuit", err)
	}

	engineOpts := []engine.EngineOption{engine.WithLogger(logger)}
	if cmd.Flags().Changed("seed") {
		engineOpts = append(engineOpts, engine.WithSeed(opts.Seed))
	}
	if opts.Workers > 0 {
		engineOpts = append(engineOpts, engine.WithWorkers(opts.Workers))
	}
	eng := engine.New(engineOpts...)

	ctx, stop := signalContext(cmd)
	defer stop()

	logger.Info("running circuit", "circuit", c.Name, "hash", hash, "shots", opts.Shots)
	res, err := eng.Run(ctx, *c, opts.Shots)
	if err != nil {
		return formatter.Fail(ExitFailure, MapSimErrorCode(err), "simulation failed", err)
	}

	out := RunOutput{Circuit: c.Name, Hash: hash, Result: res}

	if opts.Database != "" {
		out.RunID, out.Seq, err = recordRun(ctx, opts, c, hash, res)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to record run", err)
		}
		logger.Info("run recorded", "run_id", out.RunID, "seq", out.Seq, "db", opts.Database)
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return outputRunText(formatter, out, opts.ShowBits)
}

// recordRun persists a result and returns its run ID and seq.
func recordRun(ctx context.Context, opts *RunOptions, c *circuit.Circuit, hash string, res *engine.Result) (string, int64, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", 0, err
	}
	defer st.Close()

	gen := opts.RunIDGenerator
	if gen == nil {
		gen = engine.UUIDv7Generator{}
	}
	id := gen.Generate()

	seq, err := st.WriteRun(ctx, store.Run{
		ID:            id,
		CircuitHash:   hash,
		Circuit:       *c,
		Shots:         res.Shots,
		Seed:          res.Seed,
		Path:          string(res.Path),
		Probabilities: res.Probabilities,
		State:         res.State,
		Counts:        res.Counts,
		EngineVersion: circuit.EngineVersion,
	})
	if err != nil {
		return "", 0, err
	}
	return id, seq, nil
}

// signalContext derives a context cancelled on SIGINT/SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// failLoad reports a circuit loading error. Load problems are command
// errors (exit code 2).
func failLoad(formatter *OutputFormatter, err error) error {
	issue := toValidationIssue(err)
	_ = formatter.Error(issue.Code, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load circuit", err).reported()
}

func outputRunText(formatter *OutputFormatter, out RunOutput, showBits bool) error {
	w := formatter.Writer
	res := out.Result

	fmt.Fprintf(w, "circuit: %s (%s)\n", out.Circuit, shortHash(out.Hash))
	fmt.Fprintf(w, "path: %s  shots: %d  seed: %d\n", res.Path, res.Shots, res.Seed)
	if out.RunID != "" {
		fmt.Fprintf(w, "run: %s (seq %d)\n", out.RunID, out.Seq)
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(res.Counts))
	for _, bits := range res.Counts.Keys() {
		n := res.Counts[bits]
		rows = append(rows, []string{
			bits,
			strconv.Itoa(n),
			strconv.FormatFloat(float64(n)/float64(res.Shots), 'f', 4, 64),
		})
	}
	formatter.Table([]string{"BITS", "COUNT", "FREQUENCY"}, rows)

	if showBits {
		fmt.Fprintln(w)
		for i, reg := range res.ClassicalBits {
			fmt.Fprintf(w, "%d: %s\n", i, reg)
		}
	}
	return nil
}
