package ui

import (
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressFeed is the progress display shared by every monitor. Monitors
// write from their own goroutines; the model reads the latest line while
// rendering and is woken through waitForProgress. Only the job most recently
// passed to Track may write; a monitor left over from an earlier job is
// ignored.
type ProgressFeed struct {
	mu      sync.Mutex
	tracked string
	jobID   string
	text    string
	changed chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewProgressFeed() *ProgressFeed {
	return &ProgressFeed{
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Track makes jobID the only job whose progress is shown and drops any line
// left by another job.
func (f *ProgressFeed) Track(jobID string) {
	f.mu.Lock()
	f.tracked = jobID
	stale := f.jobID != "" && f.jobID != jobID
	if stale {
		f.jobID = ""
		f.text = ""
	}
	f.mu.Unlock()
	if stale {
		f.notify()
	}
}

// Show replaces the progress line with text for jobID.
func (f *ProgressFeed) Show(jobID, text string) {
	f.mu.Lock()
	if jobID != f.tracked {
		tracked := f.tracked
		f.mu.Unlock()
		events.Progress.Discard(tracked, jobID)
		return
	}
	f.jobID = jobID
	f.text = text
	f.mu.Unlock()
	f.notify()
}

// Clear removes the progress line if it still belongs to jobID.
func (f *ProgressFeed) Clear(jobID string) {
	f.mu.Lock()
	if jobID != f.tracked {
		tracked := f.tracked
		f.mu.Unlock()
		events.Progress.Discard(tracked, jobID)
		return
	}
	if f.jobID != jobID {
		f.mu.Unlock()
		return
	}
	f.jobID = ""
	f.text = ""
	f.mu.Unlock()
	f.notify()
}

// Line returns the job and text currently shown.
func (f *ProgressFeed) Line() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobID, f.text
}

// Close stops every pending wait.
func (f *ProgressFeed) Close() {
	f.once.Do(func() { close(f.done) })
}

func (f *ProgressFeed) notify() {
	select {
	case f.changed <- struct{}{}:
	default:
	}
}

type progressMsg struct{}

type progressDoneMsg struct{}

func waitForProgress(f *ProgressFeed) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.changed:
			return progressMsg{}
		case <-f.done:
			return progressDoneMsg{}
		}
	}
}

func (m *Model) handleProgressMsg(msg tea.Msg) tea.Cmd {
	if m.feed == nil {
		return nil
	}
	return waitForProgress(m.feed)
}

func (m *Model) handleProgressDoneMsg(msg tea.Msg) tea.Cmd {
	return nil
}

func (m *Model) progressLine() string {
	if m.feed == nil {
		return ""
	}
	_, text := m.feed.Line()
	return text
}
