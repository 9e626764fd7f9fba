package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"creaturedex/internal/acquisition"
	"creaturedex/internal/creature"
)

// DrawOptions holds flags for the draw command.
type DrawOptions struct {
	*RootOptions
	Count    int
	Parallel int
}

// NewDrawCommand creates the draw command.
func NewDrawCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DrawOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw random creatures from the catalog",
		Long: `Draw picks a random creature from one page of the catalog and adds it
to the collection unless it is already owned. With --count several draws run
concurrently; the storage API decides races on the same creature.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			wf, release, err := opts.workflow(cmd)
			if err != nil {
				return err
			}
			defer release()

			failed := runDraws(cmd.Context(), cmd.OutOrStdout(), wf, opts.Count, opts.Parallel)
			if failed > 0 {
				return fmt.Errorf("%d of %d draws failed", failed, opts.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of draws")
	cmd.Flags().IntVarP(&opts.Parallel, "parallel", "p", 1, "draws in flight at once")

	return cmd
}

// runDraws performs n draws and prints each result. It returns the number
// of failed draws.
func runDraws(ctx context.Context, w io.Writer, wf *acquisition.Workflow, n, parallel int) int {
	fmt.Fprintln(w, "Drawing a random creature...")

	failed := 0
	for _, res := range wf.DrawMany(ctx, n, parallel) {
		writeDrawResult(w, res)
		if res.Outcome == acquisition.OutcomeFailed {
			failed++
		}
	}
	return failed
}

func writeDrawResult(w io.Writer, res acquisition.Result) {
	name := creature.DisplayName(res.Candidate.Name)
	if res.Candidate.Name != "" {
		fmt.Fprintf(w, "Selected: %s\n", name)
	}

	switch res.Outcome {
	case acquisition.OutcomeInserted:
		fmt.Fprintf(w, "%s has been added to your collection!\n", name)
	case acquisition.OutcomeAlreadyOwned:
		fmt.Fprintf(w, "%s is already in your collection!\n", name)
	default:
		fmt.Fprintf(w, "Draw failed: %v\n", res.Err)
		return
	}

	if res.Record != nil {
		creature.WriteDetail(w, *res.Record)
	}
}
