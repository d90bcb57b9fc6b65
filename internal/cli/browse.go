package cli

import (
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/browser"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/spf13/cobra"
)

func (r *runner) browseCommand() *cobra.Command {
	var (
		raw  bool
		next int
		back bool
	)
	cmd := &cobra.Command{
		Use:   "browse <locus>",
		Short: "Print a passage and, optionally, the ones after it",
		Long: "Print a passage. The locus is a universal id such as gr0012w001_LN_1,\n" +
			"or, with --raw or when it contains '|', a citation such as gr0012w001|1|1.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := r.connect(ctx, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			locus := args[0]
			nav := browser.New(s.Client, nil)
			if err := nav.Browse(ctx, locus, raw || strings.Contains(locus, "|")); err != nil {
				return err
			}
			r.printPassage(nav.Passage())

			dir := browser.Forward
			if back {
				dir = browser.Back
			}
			for i := 0; i < next; i++ {
				before := nav.Passage()
				if !nav.Go(dir) || nav.Passage() == before {
					printDim(r.errOut, "no passage %s\n", dir)
					break
				}
				r.printPassage(nav.Passage())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "treat the locus as a citation")
	cmd.Flags().IntVarP(&next, "next", "n", 0, "also print this many following passages")
	cmd.Flags().BoolVar(&back, "back", false, "walk backwards instead of forwards with --next")
	return cmd
}

func (r *runner) printPassage(p hipparchia.Passage) {
	width := outputWidth(r.out, r.cfg.App.Width)
	title := p.WorkID
	if title == "" {
		title = "passage"
	}
	printSection(r.out, title, render.Text(p.HTML, width))
	printDim(r.out, "← %s   → %s\n\n", orDash(p.Back), orDash(p.Forward))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

