package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"creaturedex/internal/collection"
	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "Show every creature in the collection",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCollection(cmd.Context(), cmd.OutOrStdout(), opts.store())
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "search NAME",
		Short:        "Find a collected creature by name",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return searchByName(cmd.Context(), cmd.OutOrStdout(), opts.store(), args[0])
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get ID",
		Short:        "Show a collected creature by id",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return getByID(cmd.Context(), cmd.OutOrStdout(), opts.store(), id)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:          "delete ID",
		Short:        "Release a creature from the collection",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return deleteByID(cmd.Context(), p, opts.store(), id, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "stats",
		Short:        "Show collection statistics",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showStats(cmd.Context(), cmd.OutOrStdout(), opts.store())
		},
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive number", raw)
	}
	return id, nil
}

func listCollection(ctx context.Context, w io.Writer, store *collection.Client) error {
	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "Your collection is empty! Draw some creatures first.")
		return nil
	}

	fmt.Fprintf(w, "Total creatures: %d\n", len(records))
	creature.WriteTable(w, records)
	return nil
}

func searchByName(ctx context.Context, w io.Writer, store *collection.Client, name string) error {
	name = creature.NormalizeName(name)
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}

	rec, err := store.FindByName(ctx, name)
	if apperr.Is(err, apperr.KindNotFound) {
		fmt.Fprintf(w, "%s is not in your collection\n", creature.DisplayName(name))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Found %s!\n", creature.DisplayName(rec.Name))
	creature.WriteDetail(w, rec)
	return nil
}

func getByID(ctx context.Context, w io.Writer, store *collection.Client, id int) error {
	rec, err := store.FindByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		fmt.Fprintf(w, "No creature with id %d in your collection\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	creature.WriteDetail(w, rec)
	return nil
}

func deleteByID(ctx context.Context, p *prompter, store *collection.Client, id int, confirmed bool) error {
	rec, err := store.FindByID(ctx, id)
	if apperr.Is(err, apperr.KindNotFound) {
		fmt.Fprintf(p.out, "No creature with id %d in your collection\n", id)
		return nil
	}
	if err != nil {
		return err
	}

	name := creature.DisplayName(rec.Name)
	if !confirmed {
		fmt.Fprintf(p.out, "You are about to delete: %s (ID: %d)\n", name, id)
		answer, _ := p.ask("Are you sure? (y/N): ")
		if !strings.EqualFold(answer, "y") {
			fmt.Fprintln(p.out, "Deletion cancelled")
			return nil
		}
	}

	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s has been deleted from your collection\n", name)
	return nil
}

func showStats(ctx context.Context, w io.Writer, store *collection.Client) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total creatures collected: %d\n", stats.Total)
	fmt.Fprintf(w, "Database: %s\n", stats.Database)
	fmt.Fprintf(w, "Collection: %s\n", stats.Collection)
	return nil
}

// prompter reads answers line by line. One prompter is shared by a whole
// interactive session so buffered input is never lost between questions.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints question and returns the trimmed answer. ok is false once the
// input is exhausted.
func (p *prompter) ask(question string) (answer string, ok bool) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}
