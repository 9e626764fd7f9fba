package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"creaturedex/internal/acquisition"
	"creaturedex/internal/collection"
)

const menu = `
Choose an option:
1. Draw a random creature
2. View all collected creatures
3. Search for a creature by name
4. Get a creature by ID
5. Delete a creature
6. View statistics
7. Exit`

// NewPlayCommand creates the interactive menu.
func NewPlayCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "play",
		Short:        "Start the interactive game menu",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wf, release, err := opts.workflow(cmd)
			if err != nil {
				return err
			}
			defer release()

			s := &session{
				prompt: newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
				store:  opts.store(),
				wf:     wf,
			}
			s.run(cmd.Context())
			return nil
		},
	}
}

type session struct {
	prompt *prompter
	store  *collection.Client
	wf     *acquisition.Workflow
}

// run loops over the menu until the player exits or input ends. Errors of a
// single action are printed and the loop continues.
func (s *session) run(ctx context.Context) {
	out := s.prompt.out
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintln(out, "Welcome to Creaturedex!")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintln(out, menu)
		choice, ok := s.prompt.ask("\nEnter your choice (1-7): ")
		if !ok {
			return
		}

		var err error
		switch choice {
		case "1":
			fmt.Fprintln(out)
			runDraws(ctx, out, s.wf, 1, 1)
		case "2":
			fmt.Fprintln(out)
			err = listCollection(ctx, out, s.store)
		case "3":
			name, _ := s.prompt.ask("\nEnter creature name: ")
			err = searchByName(ctx, out, s.store, name)
		case "4":
			err = s.withID("\nEnter creature ID: ", func(id int) error {
				return getByID(ctx, out, s.store, id)
			})
		case "5":
			err = s.withID("\nEnter creature ID to delete: ", func(id int) error {
				return deleteByID(ctx, s.prompt, s.store, id, false)
			})
		case "6":
			fmt.Fprintln(out)
			err = showStats(ctx, out, s.store)
		case "7":
			fmt.Fprintln(out, "Thanks for playing! Goodbye!")
			return
		default:
			fmt.Fprintln(out, "Invalid choice. Please try again.")
		}

		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (s *session) withID(question string, fn func(id int) error) error {
	raw, _ := s.prompt.ask(question)
	id, err := parseID(raw)
	if err != nil {
		return err
	}
	return fn(id)
}
