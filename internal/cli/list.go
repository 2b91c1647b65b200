package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mudder/internal/ir"
	"github.com/roach88/mudder/internal/ranking"
	"github.com/roach88/mudder/internal/store"
)

// ListOptions holds flags shared by the list subcommands.
type ListOptions struct {
	*RootOptions
	Database string

	// IDGenerator allows overriding item and list IDs (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator ranking.IDGenerator
}

// ItemList is the payload of commands that print a list's items.
type ItemList struct {
	List  string    `json:"list"`
	Items []ir.Item `json:"items"`
}

// String renders one item per line: key, ID and value.
func (l ItemList) String() string {
	var b strings.Builder
	for _, item := range l.Items {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", item.Key, item.ID, item.Value)
	}
	return b.String()
}

// NewListCommand creates the list command and its subcommands.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return newListCommand(&ListOptions{RootOptions: rootOpts})
}

func newListCommand(opts *ListOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage ranked lists",
		Long: `Manage ranked lists stored in a SQLite database.

Every item carries a key; the list's order is the order of its keys.
Inserting or moving an item rewrites only that item's key.

Examples:
  mudder list create todo --db todo.db
  mudder list add todo "buy milk" --db todo.db
  mudder list add todo "buy eggs" --after <item-id> --db todo.db
  mudder list move todo <item-id> --db todo.db
  mudder list show todo --db todo.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newListCreateCommand(opts))
	cmd.AddCommand(newListLsCommand(opts))
	cmd.AddCommand(newListDeleteCommand(opts))
	cmd.AddCommand(newListAddCommand(opts))
	cmd.AddCommand(newListMoveCommand(opts))
	cmd.AddCommand(newListRemoveCommand(opts))
	cmd.AddCommand(newListShowCommand(opts))
	cmd.AddCommand(newListRebalanceCommand(opts))

	return cmd
}

// withService opens the database and runs fn against a ranking service.
func withService(opts *ListOptions, cmd *cobra.Command, fn func(context.Context, *ranking.Service, *OutputFormatter) error) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var svcOpts []ranking.Option
	if opts.IDGenerator != nil {
		svcOpts = append(svcOpts, ranking.WithIDGenerator(opts.IDGenerator))
	}
	svc, err := ranking.New(ctx, st, svcOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to start ranking service", err)
	}

	formatter.VerboseLog("database %s ready", opts.Database)
	return fn(ctx, svc, formatter)
}

func newListCreateCommand(opts *ListOptions) *cobra.Command {
	alphabet := "base62"

	cmd := &cobra.Command{
		Use:           "create <list>",
		Short:         "Create a list",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				spec, _, err := ResolveAlphabet(alphabet, opts.Alphabets)
				if err != nil {
					return f.Fail("resolve alphabet", err)
				}
				list, err := svc.CreateList(ctx, args[0], *spec)
				if err != nil {
					return f.Fail("create list", err)
				}
				if opts.Format == "json" {
					return f.Success(list)
				}
				return f.Success(fmt.Sprintf("%s\t%s\t%s", list.Name, list.ID, list.Alphabet))
			})
		},
	}

	cmd.Flags().StringVarP(&alphabet, "alphabet", "a", alphabet, "alphabet the list's keys use")

	return cmd
}

func newListLsCommand(opts *ListOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "ls",
		Short:         "List all lists",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				lists, err := svc.Lists(ctx)
				if err != nil {
					return f.Fail("read lists", err)
				}
				if opts.Format == "json" {
					return f.Success(lists)
				}
				lines := make([]string, len(lists))
				for i, l := range lists {
					lines[i] = fmt.Sprintf("%s\t%s\t%s", l.Name, l.ID, l.Alphabet)
				}
				return f.Success(lines)
			})
		},
	}
}

func newListDeleteCommand(opts *ListOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <list>",
		Short:         "Delete a list and its items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				if err := svc.DeleteList(ctx, args[0]); err != nil {
					return f.Fail("delete list", err)
				}
				return f.Success(fmt.Sprintf("deleted %s", args[0]))
			})
		},
	}
}

func newListAddCommand(opts *ListOptions) *cobra.Command {
	var after, before string
	var front bool

	cmd := &cobra.Command{
		Use:   "add <list> <value>",
		Short: "Add an item",
		Long: `Add an item to the end of a list, or at the position given by
--after, --before or --front.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				name, value := args[0], args[1]

				var item ir.Item
				var err error
				switch {
				case after != "":
					item, err = svc.InsertAfter(ctx, name, after, value)
				case before != "":
					item, err = svc.InsertBefore(ctx, name, before, value)
				case front:
					item, err = svc.Prepend(ctx, name, value)
				default:
					item, err = svc.Append(ctx, name, value)
				}
				if err != nil {
					return f.Fail("add item", err)
				}
				return outputItem(f, opts, item)
			})
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "insert directly after this item ID")
	cmd.Flags().StringVar(&before, "before", "", "insert directly before this item ID")
	cmd.Flags().BoolVar(&front, "front", false, "insert at the front of the list")
	cmd.MarkFlagsMutuallyExclusive("after", "before", "front")

	return cmd
}

func newListMoveCommand(opts *ListOptions) *cobra.Command {
	var after string

	cmd := &cobra.Command{
		Use:   "move <list> <item>",
		Short: "Move an item",
		Long: `Move an item directly after another item, or to the front of the
list when --after is omitted. Only the moved item's key changes.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				item, err := svc.Move(ctx, args[0], args[1], after)
				if err != nil {
					return f.Fail("move item", err)
				}
				return outputItem(f, opts, item)
			})
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "move directly after this item ID")

	return cmd
}

func newListRemoveCommand(opts *ListOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <list> <item>",
		Short:         "Remove an item",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				if err := svc.Remove(ctx, args[0], args[1]); err != nil {
					return f.Fail("remove item", err)
				}
				return f.Success(fmt.Sprintf("removed %s", args[1]))
			})
		},
	}
}

func newListShowCommand(opts *ListOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <list>",
		Short:         "Print a list's items in order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				items, err := svc.Items(ctx, args[0])
				if err != nil {
					return f.Fail("read items", err)
				}
				return f.Success(ItemList{List: args[0], Items: items})
			})
		},
	}
}

func newListRebalanceCommand(opts *ListOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance <list>",
		Short: "Reassign short, evenly spaced keys",
		Long: `Reassign every item a short, evenly spaced key while keeping the
list's order. Useful after many inserts at the same spot have grown keys.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(opts, cmd, func(ctx context.Context, svc *ranking.Service, f *OutputFormatter) error {
				items, err := svc.Rebalance(ctx, args[0])
				if err != nil {
					return f.Fail("rebalance", err)
				}
				return f.Success(ItemList{List: args[0], Items: items})
			})
		},
	}
}

func outputItem(f *OutputFormatter, opts *ListOptions, item ir.Item) error {
	if opts.Format == "json" {
		return f.Success(item)
	}
	return f.Success(fmt.Sprintf("%s\t%s\t%s", item.Key, item.ID, item.Value))
}
