package cli

import (
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/format/table"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/spf13/cobra"
)

func (r *runner) optionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show or change session options",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every option with its server value",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := r.connect(cmd.Context(), nil)
				if err != nil {
					return err
				}
				defer s.Close()
				r.printOptions(s.Options.Registry())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set key=value...",
			Short: "Push option edits and print the resulting mapping",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := r.connect(cmd.Context(), &sessionFlags{options: args})
				if err != nil {
					return err
				}
				defer s.Close()
				printOK(r.errOut, fmt.Sprintf("%d option(s) pushed", len(args)))
				r.printOptions(s.Options.Registry())
				return nil
			},
		},
	)
	return cmd
}

func (r *runner) printOptions(reg *session.Registry) {
	entries := reg.Snapshot()
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, []string{"KEY", "LABEL", "VALUE", "KIND"})
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Label, e.Display, kindName(e)})
	}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignRight, table.AlignLeft}) {
		fmt.Fprintln(r.out, line)
	}
}

func kindName(e session.Entry) string {
	switch e.Kind {
	case session.KindSpinner:
		return fmt.Sprintf("number %d..%d", e.Min, e.Max)
	case session.KindSelector:
		return "choice"
	case session.KindPair:
		return "pair"
	}
	return "toggle"
}
