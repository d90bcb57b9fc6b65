package ui

import (
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/progress"
)

func TestFeedShowsOnlyTrackedJob(t *testing.T) {
	feed := NewProgressFeed()
	t.Cleanup(feed.Close)

	feed.Track("aaaaaaaa")
	feed.Show("aaaaaaaa", "previous job")
	feed.Track("bbbbbbbb")
	if id, text := feed.Line(); id != "" || text != "" {
		t.Fatalf("expected tracking a new job to drop the old line, got %s %q", id, text)
	}

	feed.Show("bbbbbbbb", "current job")
	feed.Show("aaaaaaaa", "late record")
	feed.Clear("aaaaaaaa")
	if id, text := feed.Line(); id != "bbbbbbbb" || text != "current job" {
		t.Fatalf("expected current job line kept, got %s %q", id, text)
	}

	feed.Clear("bbbbbbbb")
	if id, text := feed.Line(); id != "" || text != "" {
		t.Fatalf("expected clear for the tracked job, got %s %q", id, text)
	}
}

func TestFeedIgnoresMonitorOfEarlierJob(t *testing.T) {
	feed := NewProgressFeed()
	t.Cleanup(feed.Close)
	cfg := progress.Config{Display: feed}
	previous := progress.New(cfg, hipparchia.KindSearch, "aaaaaaaa", progress.Simple{})
	current := progress.New(cfg, hipparchia.KindSearch, "bbbbbbbb", progress.Simple{})

	feed.Track("aaaaaaaa")
	feed.Track("bbbbbbbb")
	current.Handle(hipparchia.ProgressRecord{ID: "bbbbbbbb", Statusmessage: "current job"})
	previous.Handle(hipparchia.ProgressRecord{ID: "aaaaaaaa", Statusmessage: "previous job"})
	previous.Handle(hipparchia.ProgressRecord{ID: "aaaaaaaa", Activity: "inactive"})

	if id, text := feed.Line(); id != "bbbbbbbb" || text != "current job" {
		t.Fatalf("expected the current job's line, got id=%s text=%q", id, text)
	}
}
