package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/logging"
)

func TestEmitBuildsPayloadFromPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	logging.Configure(path)
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		logging.Configure("")
	})

	Backend.Poll("options", errors.New("connection refused"))
	Backend.Poll("selections", nil)
	Filter.Edit("options", "append", "max")
	logging.Sync()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entry := map[string]interface{}{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	payload := func(i int) map[string]interface{} {
		p, _ := entries[i]["payload"].(map[string]interface{})
		return p
	}
	if got := payload(0)["error"]; got != "connection refused" {
		t.Fatalf("expected flattened error, got %v", got)
	}
	if _, ok := payload(1)["error"]; ok {
		t.Fatalf("expected nil error to be left out, got %v", payload(1))
	}
	if entries[2]["event"] != "filter.append" || payload(2)["filter"] != "max" {
		t.Fatalf("unexpected filter entry %v", entries[2])
	}
}
