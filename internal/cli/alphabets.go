package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mudder/internal/compiler"
	"github.com/roach88/mudder/internal/ir"
)

// AlphabetInfo summarizes one available alphabet.
type AlphabetInfo struct {
	Name       string `json:"name"`
	Source     string `json:"source"` // "builtin" or the definitions directory
	Size       int    `json:"size"`
	PrefixCode bool   `json:"prefix_code"`
	Hash       string `json:"hash"`
}

// AlphabetList is the payload of the alphabets command.
type AlphabetList []AlphabetInfo

// String renders one alphabet per line.
func (l AlphabetList) String() string {
	var b strings.Builder
	for _, a := range l {
		note := ""
		if !a.PrefixCode {
			note = " (not a prefix code)"
		}
		fmt.Fprintf(&b, "%-12s %3d symbols  %s%s\n", a.Name, a.Size, a.Source, note)
	}
	return b.String()
}

// NewAlphabetsCommand creates the alphabets command.
func NewAlphabetsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alphabets",
		Short: "List available alphabets",
		Long: `List the builtin alphabets and, with --alphabets, those defined in a
directory of CUE files. Directory definitions shadow builtins of the same name.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			list, err := availableAlphabets(rootOpts.Alphabets)
			if err != nil {
				return formatter.Fail("list alphabets", err)
			}
			return formatter.Success(list)
		},
	}
}

// availableAlphabets collects builtin and directory alphabets, sorted by name.
func availableAlphabets(dir string) (AlphabetList, error) {
	byName := map[string]AlphabetInfo{}

	for _, name := range compiler.BuiltinNames() {
		spec, _, _ := compiler.Builtin(name)
		info, err := describeAlphabet(spec, "builtin")
		if err != nil {
			return nil, err
		}
		byName[name] = info
	}

	if dir != "" {
		result, errs := LoadAlphabets(dir, LoadModeFailFast)
		if len(errs) > 0 {
			return nil, errs[0]
		}
		for _, spec := range result.Alphabets {
			if verrs := compiler.Validate(&spec); len(verrs) > 0 {
				return nil, fmt.Errorf("alphabet %q: %w", spec.Name, verrs[0])
			}
			info, err := describeAlphabet(spec, dir)
			if err != nil {
				return nil, err
			}
			byName[spec.Name] = info
		}
	}

	list := make(AlphabetList, 0, len(byName))
	for _, info := range byName {
		list = append(list, info)
	}
	slices.SortFunc(list, func(a, b AlphabetInfo) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

func describeAlphabet(spec ir.AlphabetSpec, source string) (AlphabetInfo, error) {
	table, err := compiler.Build(&spec)
	if err != nil {
		return AlphabetInfo{}, err
	}
	hash, err := ir.AlphabetHash(spec)
	if err != nil {
		return AlphabetInfo{}, err
	}
	return AlphabetInfo{
		Name:       spec.Name,
		Source:     source,
		Size:       table.MaxBase(),
		PrefixCode: table.IsPrefixCode(),
		Hash:       hash,
	}, nil
}
