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

	"github.com/roach88/mudder/internal/compiler"
	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/pkg/mudder"
)

// LoadMode controls how errors are handled during alphabet loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the alphabets loaded from a directory.
type LoadResult struct {
	Alphabets []ir.AlphabetSpec
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// Lookup returns the loaded alphabet with the given name.
func (r *LoadResult) Lookup(name string) (*ir.AlphabetSpec, bool) {
	for i := range r.Alphabets {
		if r.Alphabets[i].Name == name {
			return &r.Alphabets[i], true
		}
	}
	return nil, false
}

// LoadError represents an error that occurred during alphabet loading.
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

// LoadAlphabets loads and compiles the CUE alphabet definitions in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadAlphabets(dir string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("alphabets directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing alphabets directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
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

	alphabetsVal := value.LookupPath(cue.ParsePath("alphabet"))
	if alphabetsVal.Exists() {
		iter, iterErr := alphabetsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating alphabets: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				spec, compileErr := compiler.CompileAlphabet(iter.Value())
				if compileErr != nil {
					errs = append(errs, convertCompileError(compileErr, "alphabet."+iter.Selector().String()))
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				result.Alphabets = append(result.Alphabets, *spec)
			}
		}
	}

	if len(result.Alphabets) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no alphabets found"})
	}

	return result, errs
}

// ResolveAlphabet finds an alphabet by name. Alphabets defined in dir take
// precedence over the builtin presets; an empty dir means builtins only.
// The returned spec has passed validation.
func ResolveAlphabet(name, dir string) (*ir.AlphabetSpec, *mudder.SymbolTable, error) {
	if dir != "" {
		result, errs := LoadAlphabets(dir, LoadModeFailFast)
		if len(errs) > 0 {
			return nil, nil, errs[0]
		}
		if spec, ok := result.Lookup(name); ok {
			if verrs := compiler.Validate(spec); len(verrs) > 0 {
				return nil, nil, fmt.Errorf("alphabet %q: %w", name, verrs[0])
			}
			table, err := compiler.Build(spec)
			if err != nil {
				return nil, nil, err
			}
			return spec, table, nil
		}
	}

	spec, table, ok := compiler.Builtin(name)
	if !ok {
		return nil, nil, &LoadError{Code: ErrCodeUnknownAlphabet, Message: fmt.Sprintf("unknown alphabet %q", name)}
	}
	return &spec, table, nil
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
			Message: fmt.Sprintf("%s: %s", context, compileErr.Message),
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
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeScanError       = "E002" // Directory scan error
	ErrCodeNoFiles         = "E003" // No CUE files found
	ErrCodeLoadFailed      = "E004" // CUE load failed
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build failed
	ErrCodeWriteFailed     = "E007" // File write error
	ErrCodeUnknownAlphabet = "E008" // No alphabet with the requested name
	ErrCodeInvalidInput    = "E009" // Key or option rejected by the engine
	ErrCodeStore           = "E010" // Database error
	ErrCodeTestFailed      = "E011" // One or more scenarios failed

	// Alphabet definition errors
	ErrCodeSymbols  = "E121" // symbols missing or malformed
	ErrCodeDigitMap = "E122" // digits or aliases malformed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "symbols":
		return ErrCodeSymbols
	case "digits", "aliases":
		return ErrCodeDigitMap
	case "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}
