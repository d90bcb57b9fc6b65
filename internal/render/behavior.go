package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Action is what activating a link does.
type Action string

const (
	ActionNone       Action = ""
	ActionBrowse     Action = "browse"
	ActionLookup     Action = "lookup"
	ActionFindByForm Action = "findbyform"
	ActionIDLookup   Action = "idlookup"
	ActionSearch     Action = "search"
	ActionDeselect   Action = "deselect"
)

// Rule attaches an action to every element matching Selector.
type Rule struct {
	Selector string
	Action   Action
	URL      string
}

// Behavior is the declarative form of a server script: the click rules it
// installs and the links in the pane they apply to.
type Behavior struct {
	Rules []Rule
	Links []Link
}

// Empty reports whether the behavior does nothing.
func (b Behavior) Empty() bool {
	return len(b.Rules) == 0
}

// Link is one activatable element.
type Link struct {
	Action Action
	Target string
	Text   string
	URL    string
}

var (
	clickPattern = regexp.MustCompile(`\$\(\s*'([^']+)'\s*\)\s*\.(?:dbl)?click\(`)
	urlPattern   = regexp.MustCompile(`getJSON\(\s*'([^']+)'\s*,`)
)

var actionPaths = []struct {
	fragment string
	action   Action
}{
	{"/browse/", ActionBrowse},
	{"/lex/findbyform/", ActionFindByForm},
	{"/lex/idlookup/", ActionIDLookup},
	{"/lex/lookup/", ActionLookup},
	{"/srch/exec/", ActionSearch},
	{"/selection/clear/", ActionDeselect},
}

// ParseRules reads the click handlers a script installs. Handlers whose
// request is not recognised are skipped.
func ParseRules(script string) []Rule {
	locs := clickPattern.FindAllStringSubmatchIndex(script, -1)
	var rules []Rule
	for i, loc := range locs {
		end := len(script)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := script[loc[1]:end]
		action := actionFor(body)
		if action == ActionNone {
			continue
		}
		rule := Rule{Selector: script[loc[2]:loc[3]], Action: action}
		if action == ActionDeselect {
			if m := urlPattern.FindStringSubmatch(body); m != nil {
				rule.URL = m[1]
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

func actionFor(body string) Action {
	for _, ap := range actionPaths {
		if strings.Contains(body, ap.fragment) {
			return ap.action
		}
	}
	return ActionNone
}

// ParseBehavior combines the rules in script with the matching elements of
// fragment.
func ParseBehavior(script, fragment string) Behavior {
	rules := ParseRules(script)
	if len(rules) == 0 {
		return Behavior{}
	}
	return Behavior{Rules: rules, Links: FindLinks(fragment, rules)}
}

// FindLinks walks fragment and returns, in document order, every element
// matched by a rule.
func FindLinks(fragment string, rules []Rule) []Link {
	if len(rules) == 0 || strings.TrimSpace(fragment) == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext())
	if err != nil {
		return nil
	}
	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, r := range rules {
				if !matches(n, r.Selector) {
					continue
				}
				if link, ok := linkFor(n, r); ok {
					links = append(links, link)
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return links
}

func matches(n *html.Node, selector string) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		return attr(n, "id") == selector[1:]
	case strings.HasPrefix(selector, "."):
		for _, class := range strings.Fields(attr(n, "class")) {
			if class == selector[1:] {
				return true
			}
		}
		return false
	default:
		return n.Data == selector
	}
}

func linkFor(n *html.Node, r Rule) (Link, bool) {
	link := Link{Action: r.Action, Text: strings.TrimSpace(nodeText(n)), URL: r.URL}
	switch r.Action {
	case ActionSearch:
		link.Target = attr(n, "searchterm")
		if link.Target == "" {
			link.Target = attr(n, "id")
		}
	case ActionIDLookup:
		lang, entry := attr(n, "language"), attr(n, "entryid")
		if lang != "" && entry != "" {
			link.Target = lang + "/" + entry
		}
	case ActionDeselect:
		link.Target = link.URL
	default:
		link.Target = attr(n, "id")
	}
	return link, link.Target != ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
