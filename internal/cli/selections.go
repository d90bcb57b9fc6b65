package cli

import (
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/spf13/cobra"
)

func (r *runner) selectionsCommand() *cobra.Command {
	var flags sessionFlags
	var clearPaths []string
	cmd := &cobra.Command{
		Use:   "selections",
		Short: "Show the corpus selections of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := r.connect(ctx, &flags)
			if err != nil {
				return err
			}
			defer s.Close()
			for _, path := range clearPaths {
				sel, err := s.Client.ClearSelection(ctx, path)
				if err != nil {
					return fmt.Errorf("clear %s: %w", path, err)
				}
				s.Selections.Set(sel)
			}
			r.printSelections(s.Selections.Summary(), flags.links, s.Selections.Links())
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&clearPaths, "clear", nil, "remove a selection by its path, as listed with --links (repeatable)")
	flags.bind(cmd)
	return cmd
}

func (r *runner) printSelections(sel hipparchia.Selections, links bool, targets []render.Link) {
	width := outputWidth(r.out, r.cfg.App.Width)
	if sel.Count == 0 {
		printDim(r.out, "No selections: searches cover the whole corpus.\n")
	}
	printSection(r.out, "Time restrictions", render.Text(sel.TimeExclusions, width))
	printSection(r.out, "Selections", render.Text(sel.Selections, width))
	printSection(r.out, "Exclusions", render.Text(sel.Exclusions, width))
	if !links {
		return
	}
	for _, link := range targets {
		fmt.Fprintf(r.out, "%s  %s\n", link.Target, link.Text)
	}
}
