package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/app"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/spf13/cobra"
)

const (
	kindIndex = hipparchia.KindIndex
	kindVocab = hipparchia.KindVocab
	kindText  = hipparchia.KindText
)

// sessionFlags adjust the fresh server session before a command runs.
type sessionFlags struct {
	options    []string
	selections []string
	links      bool
}

func (f *sessionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.options, "option", nil, "set a session option first, as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.selections, "select", nil, "add a selection first, as a raw query such as auth=gr0012 (repeatable)")
	cmd.Flags().BoolVar(&f.links, "links", false, "list the links found in the results")
}

// connect opens a session and applies the session flags.
func (r *runner) connect(ctx context.Context, f *sessionFlags) (*app.Session, error) {
	s, err := app.Connect(ctx, r.cfg.App, newLineDisplay(r.errOut))
	if err != nil {
		return nil, err
	}
	if f == nil {
		return s, nil
	}
	for _, raw := range f.options {
		edit, err := parseEdit(raw)
		if err != nil {
			s.Close()
			return nil, err
		}
		if err := s.Options.Edit(ctx, edit); err != nil {
			s.Close()
			return nil, err
		}
	}
	for _, query := range f.selections {
		sel, err := s.Client.MakeSelection(ctx, query)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("select %s: %w", query, err)
		}
		s.Selections.Set(sel)
	}
	return s, nil
}

func parseEdit(raw string) (session.Edit, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return session.Edit{}, fmt.Errorf("expected key=value, got %q", raw)
	}
	return session.Edit{Key: key, Value: strings.TrimSpace(value)}, nil
}

// runJob dispatches req and prints what the renderer holds afterwards.
func (r *runner) runJob(cmd *cobra.Command, f *sessionFlags, req jobs.Request) error {
	ctx := cmd.Context()
	s, err := r.connect(ctx, f)
	if err != nil {
		return err
	}
	defer s.Close()

	job, _, err := s.Jobs.Run(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s abandoned", req.Kind)
		}
		return err
	}
	printDim(r.errOut, "%s job %s finished\n", job.Kind, job.ID)
	r.printPanes(s.Renderer, f.links)
	return nil
}

func (r *runner) printPanes(rd *render.Renderer, links bool) {
	width := outputWidth(r.out, r.cfg.App.Width)
	printSection(r.out, "Title", rd.Text(render.PaneTitle, width))
	printSection(r.out, "Summary", rd.Text(render.PaneSummary, width))
	printSection(r.out, "Results", rd.Text(render.PaneResults, width))
	printSection(r.out, "Images", rd.Text(render.PaneImages, width))
	if !links {
		return
	}
	var lines []string
	for i, link := range rd.Links(render.PaneResults) {
		lines = append(lines, fmt.Sprintf("%3d. %-10s %s → %s", i+1, link.Action, link.Text, link.Target))
	}
	printSection(r.out, "Links", strings.Join(lines, "\n"))
}

func (r *runner) searchCommand() *cobra.Command {
	var (
		flags  sessionFlags
		fields jobs.Fields
	)
	cmd := &cobra.Command{
		Use:   "search [term...]",
		Short: "Run a search and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields.Term = strings.Join(args, " ")
			if fields.Empty() {
				return errors.New("give a term or one of --lemma, --proximate, --proximate-lemma")
			}
			return r.runJob(cmd, &flags, jobs.Request{Kind: hipparchia.KindSearch, Fields: fields})
		},
	}
	cmd.Flags().StringVar(&fields.Proximate, "proximate", "", "word that must appear near the term")
	cmd.Flags().StringVar(&fields.Lemma, "lemma", "", "search every form of this headword")
	cmd.Flags().StringVar(&fields.ProximateLemma, "proximate-lemma", "", "headword whose forms must appear near the term")
	flags.bind(cmd)
	return cmd
}

func (r *runner) makerCommand(use, short string, kind hipparchia.Kind) *cobra.Command {
	var flags sessionFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runJob(cmd, &flags, jobs.Request{Kind: kind})
		},
	}
	flags.bind(cmd)
	return cmd
}

func (r *runner) lookupCommand() *cobra.Command {
	var flags sessionFlags
	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look a word up in the dictionaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := ""
			if len(args) == 1 {
				term = args[0]
			}
			return r.runJob(cmd, &flags, jobs.Request{Kind: hipparchia.KindLexicalLookup, Term: term})
		},
	}
	flags.bind(cmd)
	return cmd
}

func (r *runner) reverseCommand() *cobra.Command {
	var flags sessionFlags
	cmd := &cobra.Command{
		Use:   "reverse <english>",
		Short: "Find headwords whose definitions contain an English word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runJob(cmd, &flags, jobs.Request{Kind: hipparchia.KindReverseLookup, Term: args[0]})
		},
	}
	flags.bind(cmd)
	return cmd
}
