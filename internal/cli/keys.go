package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mudder/pkg/mudder"
)

// BetweenOptions holds flags for the between command.
type BetweenOptions struct {
	*RootOptions
	Alphabet  string
	Count     int
	Divisions int
	Places    int
	Base      int
}

// KeysResult is the payload of commands that produce keys.
type KeysResult struct {
	Alphabet string   `json:"alphabet"`
	Keys     []string `json:"keys"`
}

// DigitsResult is the payload of the decode command.
type DigitsResult struct {
	Alphabet string `json:"alphabet"`
	Key      string `json:"key"`
	Digits   []int  `json:"digits"`
}

// NewBetweenCommand creates the between command.
func NewBetweenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BetweenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "between [start] [end]",
		Short: "Generate keys that sort between two keys",
		Long: `Generate keys that sort strictly between start and end.

An omitted or empty start means the lowest key; an omitted end means the
open-ended top of the keyspace. If start sorts after end, the keys are
returned in descending order.

Examples:
  mudder between cat dog
  mudder between cat dog -n 3
  mudder between "" a --alphabet alphabet
  mudder between -n 10 --format json`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var start, end string
			if len(args) > 0 {
				start = args[0]
			}
			if len(args) > 1 {
				end = args[1]
			}
			return runBetween(opts, start, end, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Alphabet, "alphabet", "a", "base62", "alphabet name")
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of keys to generate")
	cmd.Flags().IntVar(&opts.Divisions, "divisions", 0, "intervals to cut the range into (default count+1)")
	cmd.Flags().IntVar(&opts.Places, "places", 0, "leading digits never truncated")
	cmd.Flags().IntVar(&opts.Base, "base", 0, "radix to compute in (default: alphabet size)")

	return cmd
}

func runBetween(opts *BetweenOptions, start, end string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	_, table, err := ResolveAlphabet(opts.Alphabet, opts.Alphabets)
	if err != nil {
		return formatter.Fail("resolve alphabet", err)
	}
	formatter.VerboseLog("alphabet %s: %d symbols", opts.Alphabet, table.MaxBase())

	keys, err := table.Mudder(start, end, mudder.Options{
		NumStrings:   opts.Count,
		NumDivisions: opts.Divisions,
		PlacesToKeep: opts.Places,
		Base:         opts.Base,
	})
	if err != nil {
		return formatter.Fail("generate keys", err)
	}

	if opts.Format == "json" {
		return formatter.Success(KeysResult{Alphabet: opts.Alphabet, Keys: keys})
	}
	return formatter.Success(keys)
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	alphabet := "base62"

	cmd := &cobra.Command{
		Use:   "encode <digit>...",
		Short: "Spell digits as a key",
		Long: `Spell a sequence of digits using an alphabet's symbols.

Examples:
  mudder encode 38 36 55
  mudder encode 1 0 1 --alphabet decimal`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			digits := make([]int, len(args))
			for i, arg := range args {
				d, err := strconv.Atoi(arg)
				if err != nil {
					_ = formatter.Error(ErrCodeInvalidInput, fmt.Sprintf("digit %q is not an integer", arg), nil)
					return WrapExitError(ExitFailure, "parse digits", err)
				}
				digits[i] = d
			}

			_, table, err := ResolveAlphabet(alphabet, rootOpts.Alphabets)
			if err != nil {
				return formatter.Fail("resolve alphabet", err)
			}
			key, err := table.Encode(digits)
			if err != nil {
				return formatter.Fail("encode", err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(KeysResult{Alphabet: alphabet, Keys: []string{key}})
			}
			return formatter.Success(key)
		},
	}

	cmd.Flags().StringVarP(&alphabet, "alphabet", "a", alphabet, "alphabet name")

	return cmd
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	alphabet := "base62"

	cmd := &cobra.Command{
		Use:   "decode <key>",
		Short: "Show the digits a key spells",
		Long: `Split a key into symbols and print the digit of each.

Examples:
  mudder decode cat
  mudder decode CAT --alphabet base36`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			_, table, err := ResolveAlphabet(alphabet, rootOpts.Alphabets)
			if err != nil {
				return formatter.Fail("resolve alphabet", err)
			}
			digits, err := table.Decode(args[0])
			if err != nil {
				return formatter.Fail("decode", err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(DigitsResult{Alphabet: alphabet, Key: args[0], Digits: digits})
			}
			parts := make([]string, len(digits))
			for i, d := range digits {
				parts[i] = strconv.Itoa(d)
			}
			return formatter.Success(strings.Join(parts, " "))
		},
	}

	cmd.Flags().StringVarP(&alphabet, "alphabet", "a", alphabet, "alphabet name")

	return cmd
}
