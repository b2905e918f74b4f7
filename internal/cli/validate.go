package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// ValidationIssue is one problem found while validating circuits.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// CircuitInfo summarizes a valid circuit.
type CircuitInfo struct {
	Name         string `json:"name"`
	Qubits       int    `json:"qubits"`
	Clbits       int    `json:"clbits"`
	Instructions int    `json:"instructions"`
	Conditional  bool   `json:"conditional"`
	Hash         string `json:"hash"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Circuits []CircuitInfo     `json:"circuits,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate circuit definitions",
		Long: `Validate CUE circuit definitions without running them.

Compiles every circuit in a .cue file or directory, reporting all
problems with source positions, and prints each valid circuit's
content hash.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadCircuits(path, LoadModeCollectAll)

	// Handle load errors (path not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, path)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		issues = append(issues, toValidationIssue(err))
	}

	infos := make([]CircuitInfo, 0, len(loadResult.Circuits))
	for _, c := range loadResult.Circuits {
		formatter.VerboseLog("Validating circuit: %s", c.Name)
		hash, err := circuit.Hash(*c)
		if err != nil {
			issues = append(issues, ValidationIssue{
				Code:    ErrCodeGeneric,
				Message: fmt.Sprintf("circuit %s: hash: %v", c.Name, err),
			})
			continue
		}
		infos = append(infos, CircuitInfo{
			Name:         c.Name,
			Qubits:       c.NumQubits,
			Clbits:       c.NumClbits,
			Instructions: len(c.Instructions),
			Conditional:  c.HasConditional(),
			Hash:         hash,
		})
	}

	if len(issues) > 0 {
		return outputValidationErrors(formatter, issues)
	}

	return outputValidateSuccess(formatter, infos)
}

func toValidationIssue(err error) ValidationIssue {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		issue := ValidationIssue{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			issue.File = loadErr.Pos.Filename()
			issue.Line = loadErr.Pos.Line()
		}
		return issue
	}
	return ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, infos []CircuitInfo) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Circuits: infos})
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{
			info.Name,
			strconv.Itoa(info.Qubits),
			strconv.Itoa(info.Clbits),
			strconv.Itoa(info.Instructions),
			strconv.FormatBool(info.Conditional),
			shortHash(info.Hash),
		}
	}
	formatter.Table([]string{"CIRCUIT", "QUBITS", "CLBITS", "OPS", "CONDITIONAL", "HASH"}, rows)
	fmt.Fprintf(formatter.Writer, "✓ %d circuit(s) valid\n", len(infos))
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message)).reported()
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, issues []ValidationIssue) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: issues},
			Error: &CLIError{
				Code:    issues[0].Code,
				Message: issues[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues))).reported()
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range issues {
		if issue.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", issue.File, issue.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(issues))).reported()
}

// shortHash trims a content hash for table display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
