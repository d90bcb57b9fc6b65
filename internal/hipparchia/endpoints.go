package hipparchia

import (
	"context"
	"fmt"
	"strings"
)

const (
	auxAuthorPrefix = "author:"
	auxSearchList   = "searchlist"
	auxGenreList    = "genrelist"
)

// Options fetches the canonical session option mapping.
func (c *Client) Options(ctx context.Context) (Options, error) {
	var opts Options
	if err := c.getJSON(ctx, c.endpoint("", "get/json/sessionvariables"), &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// SetOption stores one session option. The server's acknowledgement carries
// nothing of interest and is discarded.
func (c *Client) SetOption(ctx context.Context, key, value string) error {
	if _, err := c.get(ctx, c.endpoint("", "setoption", key, value)); err != nil {
		return err
	}
	c.aux.Delete(auxSearchList)
	return nil
}

// Browse fetches the passage at locator.
func (c *Client) Browse(ctx context.Context, locator string) (Passage, error) {
	var p Passage
	err := c.getJSON(ctx, c.endpoint("", "browse", locator), &p)
	return p, err
}

// BrowseRaw fetches a passage addressed by a raw citation locus.
func (c *Client) BrowseRaw(ctx context.Context, locator string) (Passage, error) {
	var p Passage
	err := c.getJSON(ctx, c.endpoint("", "browse/rawlocus", locator), &p)
	return p, err
}

// FindByForm parses an inflected form, scoped to authorID when present.
func (c *Client) FindByForm(ctx context.Context, word, authorID string) (Payload, error) {
	if strings.TrimSpace(authorID) == "" {
		authorID = "_"
	}
	var p Payload
	err := c.getJSON(ctx, c.endpoint("", "lex/findbyform", word, authorID), &p)
	return p, err
}

// Selections fetches the current corpus selection summary.
func (c *Client) Selections(ctx context.Context) (Selections, error) {
	var s Selections
	err := c.getJSON(ctx, c.endpoint("", "selection/fetch"), &s)
	return s, err
}

// MakeSelection adds a restriction to the corpus selection. rawQuery is the
// encoded restriction, for example "auth=gr0012" or "work=gr0012w001".
func (c *Client) MakeSelection(ctx context.Context, rawQuery string) (Selections, error) {
	var s Selections
	err := c.getJSON(ctx, c.endpoint(rawQuery, "selection/make", "_"), &s)
	return s, err
}

// ClearSelection removes one restriction. path is the server-issued
// /selection/clear/... address carried in the selection summary's script.
func (c *Client) ClearSelection(ctx context.Context, path string) (Selections, error) {
	if !strings.HasPrefix(path, "/selection/clear/") {
		return Selections{}, fmt.Errorf("not a selection address: %q", path)
	}
	var s Selections
	err := c.getJSON(ctx, c.endpoint("", path), &s)
	return s, err
}

// Lookup fetches the dictionary entries for an exact headword.
func (c *Client) Lookup(ctx context.Context, headword string) (Payload, error) {
	var p Payload
	err := c.getJSON(ctx, c.endpoint("", "lex/lookup", "^"+headword+"$"), &p)
	return p, err
}

// IDLookup fetches a dictionary entry by "<language>/<entryid>".
func (c *Client) IDLookup(ctx context.Context, target string) (Payload, error) {
	lang, entry, ok := strings.Cut(target, "/")
	if !ok || lang == "" || entry == "" {
		return Payload{}, fmt.Errorf("dictionary id %q: want language/entry", target)
	}
	var p Payload
	err := c.getJSON(ctx, c.endpoint("", "lex/idlookup", lang, entry), &p)
	return p, err
}

// AuthorInfo returns the descriptive HTML for an author. Results are cached.
func (c *Client) AuthorInfo(ctx context.Context, authorID string) (string, error) {
	key := auxAuthorPrefix + authorID
	if v, ok := c.aux.Get(key); ok {
		return v.(string), nil
	}
	var out struct {
		Value string `json:"value"`
	}
	if err := c.getJSON(ctx, c.endpoint("", "get/json/authorinfo", authorID), &out); err != nil {
		return "", err
	}
	c.aux.SetDefault(key, out.Value)
	return out.Value, nil
}

// SearchList returns the HTML list of works in the current search scope.
// The cached copy is dropped whenever an option changes.
func (c *Client) SearchList(ctx context.Context) (string, error) {
	if v, ok := c.aux.Get(auxSearchList); ok {
		return v.(string), nil
	}
	var out struct {
		Value string `json:"value"`
	}
	if err := c.getJSON(ctx, c.endpoint("", "get/json/searchlistcontents"), &out); err != nil {
		return "", err
	}
	c.aux.SetDefault(auxSearchList, out.Value)
	return out.Value, nil
}

// GenreList returns the HTML list of author and work genres. The server
// answers with a bare JSON string. Results are cached.
func (c *Client) GenreList(ctx context.Context) (string, error) {
	if v, ok := c.aux.Get(auxGenreList); ok {
		return v.(string), nil
	}
	var out string
	if err := c.getJSON(ctx, c.endpoint("", "get/json/genrelistcontents"), &out); err != nil {
		return "", err
	}
	c.aux.SetDefault(auxGenreList, out)
	return out, nil
}

// ResetSession restores the server's default options for this session.
func (c *Client) ResetSession(ctx context.Context) error {
	if _, err := c.get(ctx, c.endpoint("", "reset/session")); err != nil {
		return err
	}
	c.aux.Flush()
	return nil
}

// CheckUser returns the name the server associates with this session, or an
// empty string for anonymous sessions.
func (c *Client) CheckUser(ctx context.Context) (string, error) {
	var out struct {
		User string `json:"userid"`
	}
	if err := c.getJSON(ctx, c.endpoint("", "authentication/checkuser"), &out); err != nil {
		return "", err
	}
	if out.User == "Anonymous" {
		return "", nil
	}
	return out.User, nil
}
