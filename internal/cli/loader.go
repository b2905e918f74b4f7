package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/richarc/qx-sub001/internal/circuit"
	"github.com/richarc/qx-sub001/internal/compiler"
	"github.com/richarc/qx-sub001/internal/engine"
)

// LoadMode controls how errors are handled during circuit loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the circuits loaded from a file or directory.
type LoadResult struct {
	Circuits  []*circuit.Circuit
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during circuit loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCircuits loads and compiles CUE circuits from a .cue file or a
// directory holding one CUE package.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadCircuits(path string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	dir, args := path, []string{"."}
	cueFiles := []string{path}
	if info.IsDir() {
		cueFiles, err = FindCUEFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(cueFiles) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}}
		}
	} else {
		if filepath.Ext(path) != ".cue" {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}}
		}
		dir, args = filepath.Dir(path), []string{filepath.Base(path)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	circuitsVal := value.LookupPath(cue.ParsePath("circuit"))
	if !circuitsVal.Exists() {
		return result, []error{&LoadError{Code: ErrCodeNoCircuits, Message: "no circuits found"}}
	}

	iter, iterErr := circuitsVal.Fields()
	if iterErr != nil {
		return result, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating circuits: %v", iterErr)}}
	}
	for iter.Next() {
		c, compileErr := compiler.CompileCircuit(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "circuit."+iter.Selector().String()))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Circuits = append(result.Circuits, c)
	}

	if len(result.Circuits) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoCircuits, Message: "no circuits found"})
	}

	return result, errs
}

// loadCircuit loads path and selects one circuit by name (or the only one).
func loadCircuit(path, name string) (*circuit.Circuit, error) {
	result, errs := LoadCircuits(path, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	c, err := compiler.Select(result.Circuits, name)
	if err != nil {
		return nil, convertCompileError(err, "circuit")
	}
	return c, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error

	// Circuit definition errors
	ErrCodeUnknownGate    = "E101" // Unknown gate or wrong arity
	ErrCodeBadParams      = "E102" // Missing or non-numeric parameters
	ErrCodeBadIndex       = "E103" // Qubit/clbit index problems
	ErrCodeBadConditional = "E104" // Malformed when/then block
	ErrCodeBadOps         = "E105" // Malformed ops list
	ErrCodeNoCircuits     = "E106" // No circuit definitions

	// Simulation errors
	ErrCodeUnsupportedGate      = "E201"
	ErrCodeInvalidParameter     = "E202"
	ErrCodePureStateQuery       = "E203"
	ErrCodeMalformedConditional = "E204"
	ErrCodeInvalidCircuit       = "E205"

	// Run history errors
	ErrCodeDatabase    = "E301" // Database open/read/write failed
	ErrCodeRunNotFound = "E302" // No run with the given ID
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "gate":
		return ErrCodeUnknownGate
	case "params":
		return ErrCodeBadParams
	case "qubits", "clbits", "measure", "clbit", "barrier", "bounds":
		return ErrCodeBadIndex
	case "when", "then", "value":
		return ErrCodeBadConditional
	case "ops":
		return ErrCodeBadOps
	case "circuit":
		return ErrCodeNoCircuits
	default:
		return ErrCodeGeneric
	}
}

// MapSimErrorCode maps an engine error to a CLI error code.
func MapSimErrorCode(err error) string {
	var simErr *engine.SimError
	if !errors.As(err, &simErr) {
		return ErrCodeGeneric
	}
	switch simErr.Code {
	case engine.ErrCodeUnsupportedGate:
		return ErrCodeUnsupportedGate
	case engine.ErrCodeInvalidParameter:
		return ErrCodeInvalidParameter
	case engine.ErrCodePureStateQuery:
		return ErrCodePureStateQuery
	case engine.ErrCodeMalformedConditional:
		return ErrCodeMalformedConditional
	case engine.ErrCodeInvalidCircuit:
		return ErrCodeInvalidCircuit
	default:
		return ErrCodeGeneric
	}
}
