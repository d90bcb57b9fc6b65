package hipparchia

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProgressRecord is one interim status message streamed for a running job.
type ProgressRecord struct {
	ID            string `json:"ID"`
	Statusmessage string `json:"Statusmessage"`
	Elapsed       string `json:"Elapsed"`
	Notes         string `json:"Notes"`
	Activity      string `json:"Activity"`
	Hitcount      int    `json:"Hitcount"`
	Remaining     int    `json:"Remaining"`
	Poolofwork    int    `json:"Poolofwork"`
}

// Inactive reports whether the record marks the end of its job.
func (r ProgressRecord) Inactive() bool {
	return r.Activity == "inactive"
}

// Payload is the final result of a job. The server uses different field
// names per job kind; UnmarshalJSON folds them together.
type Payload struct {
	Title   string
	Summary string
	Results string
	Image   string
	Script  string
}

// UnmarshalJSON accepts the search, maker, and lexical response shapes.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title         string `json:"title"`
		SearchSummary string `json:"searchsummary"`
		Found         string `json:"found"`
		TheHTML       string `json:"thehtml"`
		NewHTML       string `json:"newhtml"`
		Image         string `json:"image"`
		JS            string `json:"js"`
		NewJS         string `json:"newjs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payload{
		Title:   raw.Title,
		Summary: raw.SearchSummary,
		Results: firstNonEmpty(raw.Found, raw.TheHTML, raw.NewHTML),
		Image:   raw.Image,
		Script:  firstNonEmpty(raw.JS, raw.NewJS),
	}
	return nil
}

// Passage is a browse response.
type Passage struct {
	Forward    string `json:"browseforwards"`
	Back       string `json:"browseback"`
	AuthorID   string `json:"authornumber"`
	WorkID     string `json:"workid"`
	WorkNumber string `json:"worknumber"`
	AuthorBox  string `json:"authorboxcontents"`
	WorkBox    string `json:"workboxcontents"`
	HTML       string `json:"browserhtml"`
}

// Selections summarises the corpus restrictions stored in the session.
type Selections struct {
	TimeExclusions string `json:"timeexclusions"`
	Selections     string `json:"selections"`
	Exclusions     string `json:"exclusions"`
	Script         string `json:"newjs"`
	Count          int    `json:"numberofselections"`
}

// Options is the canonical session option mapping.
type Options map[string]string

// UnmarshalJSON flattens non-string scalars so that every value reads as the
// string the option controls expect.
func (o *Options) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Options, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case bool:
			if val {
				out[k] = "yes"
			} else {
				out[k] = "no"
			}
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			continue
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	*o = out
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
