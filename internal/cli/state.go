package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/richarc/qx-sub001/internal/engine"
	"github.com/richarc/qx-sub001/internal/statevec"
)

// StateOptions holds flags for the state command.
type StateOptions struct {
	*RootOptions
	Circuit string
	All     bool // include zero-probability basis states
}

// StateOutput is the JSON payload of the state command.
type StateOutput struct {
	Circuit       string             `json:"circuit"`
	Qubits        int                `json:"qubits"`
	Amplitudes    []engine.Amplitude `json:"amplitudes"`
	Probabilities []float64          `json:"probabilities"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "state <path>",
		Short: "Print the final state vector of a measurement-free circuit",
		Long: `Evolve a circuit without measurements or conditionals from |0...0>
and print its amplitudes and basis-state probabilities.

Basis states are labelled qubit 0 first. Circuits that measure fail with
a pure-state query error because their final state depends on the shot.

Example:
  qx state ./circuits --circuit ghz_prep
  qx state ./circuits/qft.cue --all --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "circuit name (required when the path defines several)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include zero-amplitude basis states")

	return cmd
}

func runState(opts *StateOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	c, err := loadCircuit(path, opts.Circuit)
	if err != nil {
		return failLoad(formatter, err)
	}

	eng := engine.New(engine.WithLogger(newLogger(opts.RootOptions, cmd)))
	v, err := eng.State(*c)
	if err != nil {
		return formatter.Fail(ExitFailure, MapSimErrorCode(err), "state query failed", err)
	}

	out := StateOutput{
		Circuit:       c.Name,
		Qubits:        v.NumQubits,
		Amplitudes:    engine.Amplitudes(v.Amplitudes),
		Probabilities: v.Probabilities(),
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}
	return outputStateText(formatter, out, opts.All)
}

// stateEpsilon hides basis states whose probability rounds to zero.
const stateEpsilon = 1e-12

func outputStateText(formatter *OutputFormatter, out StateOutput, all bool) error {
	fmt.Fprintf(formatter.Writer, "circuit: %s  qubits: %d\n\n", out.Circuit, out.Qubits)

	rows := make([][]string, 0, len(out.Amplitudes))
	for i, a := range out.Amplitudes {
		p := out.Probabilities[i]
		if !all && p < stateEpsilon {
			continue
		}
		rows = append(rows, []string{
			"|" + basisLabel(i, out.Qubits) + ">",
			formatAmplitude(a),
			strconv.FormatFloat(p, 'f', 6, 64),
		})
	}
	formatter.Table([]string{"BASIS", "AMPLITUDE", "PROBABILITY"}, rows)
	return nil
}

// basisLabel renders index as qubit values, qubit 0 first.
func basisLabel(index, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for q := 0; q < n; q++ {
		sb.WriteByte('0' + statevec.BitAt(index, q, n))
	}
	return sb.String()
}

func formatAmplitude(a engine.Amplitude) string {
	sign := "+"
	im := a.Im
	if im < 0 {
		sign = "-"
		im = -im
	}
	return fmt.Sprintf("%.6f %s %.6fi", a.Re, sign, im)
}
