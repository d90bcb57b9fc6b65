package app

import (
	"context"
	"strings"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/testutil"
)

type recordingDisplay struct {
	lines []string
}

func (d *recordingDisplay) Show(jobID, text string) { d.lines = append(d.lines, text) }
func (d *recordingDisplay) Clear(jobID string)      {}

func TestConnectLoadsServerState(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetOptions(map[string]string{"maxresults": "250"})
	srv.SetSelections(`{"selections":"<span>Homer</span>","numberofselections":1}`)

	s, err := Connect(context.Background(), Config{ServerURL: srv.URL}, &recordingDisplay{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(s.Close)

	if s.TraceID == "" {
		t.Fatalf("expected a trace id")
	}
	sp, ok := s.Options.Registry().Spinner("maxresults")
	if !ok || sp.Value != 250 {
		t.Fatalf("expected server options to be applied, got %#v", sp)
	}
	if got := s.Selections.Summary().Count; got != 1 {
		t.Fatalf("expected selection summary to be loaded, got %d", got)
	}
}

func TestConnectRunsJobs(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.SetPayload("/lex/lookup/", `{"newhtml":"<p>arma, weapons</p>"}`)

	s, err := Connect(context.Background(), Config{ServerURL: srv.URL}, &recordingDisplay{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(s.Close)

	req := jobs.Request{Kind: hipparchia.KindLexicalLookup, Term: "arma"}
	_, payload, err := s.Jobs.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(payload.Results, "weapons") {
		t.Fatalf("unexpected payload %#v", payload)
	}
}

func TestConnectFailsWithoutServer(t *testing.T) {
	if _, err := Connect(context.Background(), Config{ServerURL: "http://127.0.0.1:1"}, &recordingDisplay{}); err == nil {
		t.Fatalf("expected connection error")
	}
	if _, err := Connect(context.Background(), Config{}, &recordingDisplay{}); err == nil {
		t.Fatalf("expected error for empty server url")
	}
}
