package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/format/table"
)

func loadHistoryMenu(ctx Context) ([]Item, error) {
	return HistoryItems(ctx.History), nil
}

// HistoryItems lists past jobs, newest first, as an aligned table.
func HistoryItems(entries []JobEntry) []Item {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Started.Format("15:04:05"), string(e.Kind), e.Label, jobStatus(e)})
	}
	aligned := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft, table.AlignLeft})
	items := make([]Item, len(aligned))
	for i, label := range aligned {
		items[i] = Item{ID: entries[i].ID, Label: label}
	}
	return items
}

func jobStatus(e JobEntry) string {
	switch {
	case e.Err != "":
		return "failed"
	case e.Done:
		return "done"
	}
	return "running"
}

// HistoryAction dispatches a past job again with a fresh ID.
func HistoryAction(ctx Context, item Item) tea.Cmd {
	for _, e := range ctx.History {
		if e.ID == item.ID {
			return msgCmd(JobRequest{Request: e.Request, Label: e.Label})
		}
	}
	return msgCmd(ActionResult{Err: fmt.Errorf("job %s is no longer in the history", item.ID)})
}
