package menu

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

func loadSessionMenu(Context) ([]Item, error) {
	return []Item{
		{ID: "user", Label: "who am i"},
		{ID: "searchlist", Label: "works in the search list"},
		{ID: "genres", Label: "genre list"},
		{ID: "author", Label: "author info"},
		{ID: "reset", Label: "reset session to server defaults"},
	}, nil
}

func withServer(ctx Context, fn func() tea.Msg) tea.Cmd {
	if ctx.Server == nil {
		return msgCmd(ActionResult{Err: errors.New("not connected")})
	}
	return fn
}

func SessionResetAction(ctx Context, item Item) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		if err := ctx.Server.ResetSession(ctx.Ctx()); err != nil {
			return ActionResult{Err: err}
		}
		events.Options.Reset(ctx.ServerURL)
		return SessionReset{}
	})
}

func SessionUserAction(ctx Context, item Item) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		user, err := ctx.Server.CheckUser(ctx.Ctx())
		if err != nil {
			return ActionResult{Err: err}
		}
		if user == "" {
			user = "anonymous"
		}
		return TextResult{Title: "User", HTML: fmt.Sprintf("<p>Logged in to %s as %s</p>", ctx.ServerURL, user)}
	})
}

func SessionSearchListAction(ctx Context, item Item) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		html, err := ctx.Server.SearchList(ctx.Ctx())
		if err != nil {
			return ActionResult{Err: err}
		}
		return TextResult{Title: "Search list", HTML: html}
	})
}

func SessionGenreListAction(ctx Context, item Item) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		html, err := ctx.Server.GenreList(ctx.Ctx())
		if err != nil {
			return ActionResult{Err: err}
		}
		return TextResult{Title: "Genres", HTML: html}
	})
}

func SessionAuthorAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(FormPrompt{
		ID:      "session:author",
		Title:   "Author info",
		Fields:  []FormField{{Key: "auth", Label: "author", Placeholder: "gr0012"}},
		Context: ctx,
	})
}

func submitAuthor(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	id := strings.TrimSpace(values["auth"])
	if id == "" {
		return nil, errors.New("author id required")
	}
	return withServer(ctx, func() tea.Msg {
		html, err := ctx.Server.AuthorInfo(ctx.Ctx(), id)
		if err != nil {
			return ActionResult{Err: err}
		}
		return TextResult{Title: "Author " + id, HTML: html}
	}), nil
}
