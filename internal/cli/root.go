// Package cli is the command-line surface. The root command runs the
// terminal UI; every subcommand connects, does one thing, and exits.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/atomicstack/hipparchia-console/internal/app"
	"github.com/atomicstack/hipparchia-console/internal/config"
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/spf13/cobra"
)

// Options wire the commands to their environment.
type Options struct {
	Args    []string
	Environ []string
	Out     io.Writer
	Err     io.Writer
	// Started runs once configuration is resolved and logging configured.
	Started func(config.Config)
	// RunTUI replaces app.Run.
	RunTUI func(app.Config) error
}

type runner struct {
	opts   Options
	cfg    config.Config
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.RunTUI == nil {
		opts.RunTUI = app.Run
	}
	r := &runner{opts: opts, out: opts.Out, errOut: opts.Err}

	root := &cobra.Command{
		Use:           "hipparchia-console",
		Short:         "Terminal client for a Hipparchia server",
		Long:          "Drive a Hipparchia server from the terminal: searches, dictionary\nlookups, indices, and the passage browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.configure(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.opts.RunTUI(r.cfg.App)
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)
	config.Bind(root.PersistentFlags())

	root.AddCommand(
		r.searchCommand(),
		r.makerCommand("index", "Build an index of the selected texts", kindIndex),
		r.makerCommand("vocab", "Build a vocabulary list of the selected texts", kindVocab),
		r.makerCommand("text", "Assemble the selected texts", kindText),
		r.lookupCommand(),
		r.reverseCommand(),
		r.browseCommand(),
		r.optionsCommand(),
		r.selectionsCommand(),
	)
	return root
}

func (r *runner) configure(cmd *cobra.Command) error {
	cfg, err := config.Resolve(cmd.Flags(), r.opts.Environ)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	cfg.Args = append([]string(nil), r.opts.Args...)
	r.cfg = cfg
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	if r.opts.Started != nil {
		r.opts.Started(cfg)
	}
	return nil
}

// Execute runs the command tree on opts.Args and returns the process exit
// code. An interrupt cancels the command's context.
func Execute(opts Options) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root := NewRootCommand(opts)
	root.SetArgs(opts.Args)
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error(err)
		printErr(root.ErrOrStderr(), err.Error())
		return 1
	}
	return 0
}
