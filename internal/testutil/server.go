package testutil

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
)

// Server is an in-process stand-in for a Hipparchia server. It serves the
// JSON endpoints, the port lookup, and the progress websocket from a single
// listener so the confirmed port is always its own.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	options      map[string]string
	pushes       []string
	requests     []string
	payloads     map[string]string
	passages     map[string]string
	selections   string
	progress     []string
	progressIDs  []string
	noCookie     bool
	submitStatus int
	pushDelays   map[string]time.Duration
	hints        map[string][]string
	works        map[string][]string
	structures   map[string]string
	upgrader     websocket.Upgrader
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		options:    map[string]string{},
		payloads:   map[string]string{},
		passages:   map[string]string{},
		pushDelays: map[string]time.Duration{},
		hints:      map[string][]string{},
		works:      map[string][]string{},
		structures: map[string]string{},
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Port returns the listening port.
func (s *Server) Port() int {
	return s.Listener.Addr().(*net.TCPAddr).Port
}

// SetOptions replaces the session option mapping.
func (s *Server) SetOptions(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = make(map[string]string, len(values))
	for k, v := range values {
		s.options[k] = v
	}
}

// Options returns a copy of the current option mapping.
func (s *Server) Options() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.options))
	for k, v := range s.options {
		out[k] = v
	}
	return out
}

// Pushes lists "key=value" for every setoption call in arrival order.
func (s *Server) Pushes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pushes...)
}

// Requests lists every request URI in arrival order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestsWithPrefix filters Requests by path prefix.
func (s *Server) RequestsWithPrefix(prefix string) []string {
	var out []string
	for _, r := range s.Requests() {
		if strings.HasPrefix(r, prefix) {
			out = append(out, r)
		}
	}
	return out
}

// SetPayload serves raw JSON for any path starting with prefix.
func (s *Server) SetPayload(prefix, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads[prefix] = raw
}

// SetPassage serves raw JSON for /browse/<locator>. Raw-locus requests look
// up "raw:<locator>" first.
func (s *Server) SetPassage(locator, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages[locator] = raw
}

// SetSelections serves raw JSON for /selection/fetch.
func (s *Server) SetSelections(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = raw
}

// SetProgress queues raw JSON records streamed after a client sends its job
// ID on the progress channel.
func (s *Server) SetProgress(records ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append([]string(nil), records...)
}

// ProgressIDs lists the job IDs received on progress channels.
func (s *Server) ProgressIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.progressIDs...)
}

// SetHints sets the values /hints/<kind>/_ completes from. A term matches
// every value containing it, ignoring case; terms under two characters get
// an empty body.
func (s *Server) SetHints(kind string, values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints[kind] = append([]string(nil), values...)
}

// SetWorks sets the titles /get/json/worksof/<authorID> returns.
func (s *Server) SetWorks(authorID string, titles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.works[authorID] = append([]string(nil), titles...)
}

// SetStructure serves raw JSON for /get/json/workstructure/<locus>. Unknown
// loci get an empty body.
func (s *Server) SetStructure(locus, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.structures[locus] = raw
}

// DelayPush holds the setoption call for "key=value" for d before it is
// recorded and applied.
func (s *Server) DelayPush(push string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushDelays[push] = d
}

// FailSubmissions makes every payload route answer with status.
func (s *Server) FailSubmissions(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitStatus = status
}

// DisableCookies stops the server from issuing a session cookie.
func (s *Server) DisableCookies() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noCookie = true
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	noCookie := s.noCookie
	s.mu.Unlock()

	if !noCookie {
		http.SetCookie(w, &http.Cookie{Name: "hipparchia", Value: "test-session", Path: "/"})
	}

	path := r.URL.Path
	switch {
	case path == "/ws":
		s.serveProgress(w, r)
	case strings.HasPrefix(path, "/search/confirm/"):
		fmt.Fprint(w, strconv.Itoa(s.Port()))
	case path == "/get/json/sessionvariables":
		writeJSON(w, s.Options())
	case strings.HasPrefix(path, "/setoption/"):
		s.serveSetOption(w, strings.TrimPrefix(path, "/setoption/"))
	case strings.HasPrefix(path, "/browse/rawlocus/"):
		locator := strings.TrimPrefix(path, "/browse/rawlocus/")
		s.servePassage(w, "raw:"+locator, locator)
	case strings.HasPrefix(path, "/browse/"):
		locator := strings.TrimPrefix(path, "/browse/")
		s.servePassage(w, locator, locator)
	case path == "/selection/fetch",
		strings.HasPrefix(path, "/selection/clear/"),
		strings.HasPrefix(path, "/selection/make/"):
		s.mu.Lock()
		raw := s.selections
		s.mu.Unlock()
		if raw == "" {
			raw = `{"timeexclusions":"","selections":"","exclusions":"","newjs":"","numberofselections":-1}`
		}
		writeRaw(w, raw)
	case strings.HasPrefix(path, "/get/json/authorinfo/"):
		writeJSON(w, map[string]string{"value": "author " + strings.TrimPrefix(path, "/get/json/authorinfo/")})
	case strings.HasPrefix(path, "/hints/"):
		kind, _, _ := strings.Cut(strings.TrimPrefix(path, "/hints/"), "/")
		s.serveHints(w, kind, r.URL.Query().Get("term"))
	case strings.HasPrefix(path, "/get/json/worksof/"):
		s.mu.Lock()
		titles := s.works[strings.TrimPrefix(path, "/get/json/worksof/")]
		s.mu.Unlock()
		writeValues(w, titles)
	case strings.HasPrefix(path, "/get/json/workstructure/"):
		s.mu.Lock()
		raw := s.structures[strings.TrimPrefix(path, "/get/json/workstructure/")]
		s.mu.Unlock()
		writeRaw(w, raw)
	case path == "/get/json/searchlistcontents":
		writeJSON(w, map[string]string{"value": "<p>all works</p>"})
	case path == "/get/json/genrelistcontents":
		writeJSON(w, "<p>Epica</p>")
	case path == "/reset/session":
		s.SetOptions(nil)
		writeRaw(w, `{}`)
	case path == "/authentication/checkuser":
		writeJSON(w, map[string]string{"userid": "Anonymous"})
	default:
		s.servePayload(w, path)
	}
}

func (s *Server) serveSetOption(w http.ResponseWriter, rest string) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		http.Error(w, "bad option", http.StatusBadRequest)
		return
	}
	push := parts[0] + "=" + parts[1]
	s.mu.Lock()
	delay := s.pushDelays[push]
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	s.mu.Lock()
	s.options[parts[0]] = parts[1]
	s.pushes = append(s.pushes, push)
	s.mu.Unlock()
	writeRaw(w, `{}`)
}

func (s *Server) serveHints(w http.ResponseWriter, kind, term string) {
	if len([]rune(term)) < 2 {
		writeRaw(w, "")
		return
	}
	s.mu.Lock()
	values := s.hints[kind]
	s.mu.Unlock()
	var matched []string
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), strings.ToLower(term)) {
			matched = append(matched, v)
		}
	}
	writeValues(w, matched)
}

func (s *Server) servePassage(w http.ResponseWriter, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if raw, ok := s.passages[key]; ok {
			writeRaw(w, raw)
			return
		}
	}
	http.NotFound(w, nil)
}

func (s *Server) servePayload(w http.ResponseWriter, path string) {
	s.mu.Lock()
	status := s.submitStatus
	prefixes := make([]string, 0, len(s.payloads))
	for p := range s.payloads {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	var raw string
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			raw = s.payloads[p]
			break
		}
	}
	s.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if raw == "" {
		http.NotFound(w, nil)
		return
	}
	writeRaw(w, raw)
}

func (s *Server) serveProgress(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var id string
	if err := conn.ReadJSON(&id); err != nil {
		return
	}
	s.mu.Lock()
	s.progressIDs = append(s.progressIDs, id)
	records := append([]string(nil), s.progress...)
	s.mu.Unlock()

	for _, rec := range records {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(rec)); err != nil {
			return
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeValues(w http.ResponseWriter, values []string) {
	out := make([]map[string]string, 0, len(values))
	for _, v := range values {
		out = append(out, map[string]string{"value": v})
	}
	writeJSON(w, out)
}

func writeRaw(w http.ResponseWriter, raw string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, raw)
}
