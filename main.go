package main

import (
	"os"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/cli"
	"github.com/atomicstack/hipparchia-console/internal/config"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(cli.Execute(cli.Options{
		Args:    os.Args[1:],
		Environ: os.Environ(),
		Started: func(cfg config.Config) { events.App.Start(startupTracePayload(cfg)) },
	}))
}

// startupTracePayload describes how the process was configured and where it
// is attached.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	payload := map[string]interface{}{
		"argv":      cfg.Args,
		"server":    cfg.App.ServerURL,
		"settings":  cfg.Flags,
		"sources":   cfg.Sources,
		"trace":     cfg.Logging.Trace,
		"log_file":  cfg.Logging.FilePath,
		"terminals": scanTerminals(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	return payload
}

type terminal struct {
	Stream string `json:"stream"`
	TTY    bool   `json:"tty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// scanTerminals reports which standard streams are terminals and their size.
func scanTerminals() []terminal {
	streams := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	found := make([]terminal, 0, len(streams))
	for _, f := range streams {
		fd := int(f.Fd())
		t := terminal{Stream: strings.TrimPrefix(f.Name(), "/dev/"), TTY: term.IsTerminal(fd)}
		if t.TTY {
			t.Width, t.Height, _ = term.GetSize(fd)
		}
		found = append(found, t)
	}
	return found
}
