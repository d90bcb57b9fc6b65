// Package render holds what the result panes currently show. Payloads arrive
// as HTML fragments plus an optional script and image reference; the script
// is reduced to a Behavior and installed through a per-pane registry so a new
// payload never leaves the previous payload's actions attached.
package render

import (
	"strings"
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

// Options configures a Renderer.
type Options struct {
	BaseURL string
	Policy  ImagePolicy
	Width   int
	Height  int
}

// Renderer implements the result surface used by the job dispatcher.
type Renderer struct {
	mu       sync.Mutex
	base     string
	policy   ImagePolicy
	width    int
	height   int
	html     map[Pane]string
	images   []Image
	handlers *Handlers
	version  int
}

func New(opts Options) *Renderer {
	policy := opts.Policy
	if policy == "" {
		policy = ImageStack
	}
	return &Renderer{
		base:     opts.BaseURL,
		policy:   policy,
		width:    opts.Width,
		height:   opts.Height,
		html:     make(map[Pane]string),
		handlers: NewHandlers(),
	}
}

func (r *Renderer) Handlers() *Handlers { return r.handlers }

func (r *Renderer) Policy() ImagePolicy { return r.policy }

// Resize records the viewport used to size later images.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

// Reset clears the result panes and uninstalls their behavior.
func (r *Renderer) Reset() {
	r.mu.Lock()
	for _, p := range resultPanes {
		delete(r.html, p)
	}
	r.version++
	r.mu.Unlock()
	r.handlers.Uninstall(PaneResults)
}

// Render shows a job payload.
func (r *Renderer) Render(p hipparchia.Payload) {
	r.mu.Lock()
	r.html[PaneTitle] = p.Title
	r.html[PaneSummary] = p.Summary
	r.html[PaneResults] = p.Results
	if ref := strings.TrimSpace(p.Image); ref != "" {
		r.addImageLocked(ref)
	}
	r.version++
	r.mu.Unlock()
	r.handlers.Install(PaneResults, ParseBehavior(p.Script, p.Summary+p.Results))
}

// RenderLexical shows a dictionary or morphology payload.
func (r *Renderer) RenderLexical(p hipparchia.Payload) {
	r.mu.Lock()
	r.html[PaneLexical] = p.Results
	r.version++
	r.mu.Unlock()
	r.handlers.Install(PaneLexical, ParseBehavior(p.Script, p.Results))
}

// RenderPassage shows a browsed passage. Navigation is owned by the browser
// package, so no behavior is installed here.
func (r *Renderer) RenderPassage(p hipparchia.Passage) {
	r.mu.Lock()
	var b strings.Builder
	if p.AuthorBox != "" || p.WorkBox != "" {
		b.WriteString("<p>" + p.AuthorBox + " " + p.WorkBox + "</p>")
	}
	b.WriteString(p.HTML)
	r.html[PaneBrowser] = b.String()
	r.version++
	r.mu.Unlock()
}

// ClearPane empties pane and uninstalls its behavior.
func (r *Renderer) ClearPane(pane Pane) {
	r.mu.Lock()
	if pane == PaneImages {
		r.images = nil
	}
	delete(r.html, pane)
	r.version++
	r.mu.Unlock()
	r.handlers.Uninstall(pane)
}

func (r *Renderer) addImageLocked(ref string) {
	img := newImage(r.base, ref, r.width, r.height)
	switch r.policy {
	case ImageReplace:
		r.images = []Image{img}
	default:
		r.images = append([]Image{img}, r.images...)
	}
	events.Render.Image(ref, string(r.policy), len(r.images))
}

// HTML returns the raw fragment shown in pane.
func (r *Renderer) HTML(pane Pane) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.html[pane]
}

// Text returns pane as wrapped plain text.
func (r *Renderer) Text(pane Pane, width int) string {
	if pane == PaneImages {
		imgs := r.Images()
		lines := make([]string, 0, len(imgs))
		for _, img := range imgs {
			lines = append(lines, img.String())
		}
		return strings.Join(lines, "\n")
	}
	return Text(r.HTML(pane), width)
}

// Links returns the activatable elements of the behavior installed on pane.
func (r *Renderer) Links(pane Pane) []Link {
	b, ok := r.handlers.Behavior(pane)
	if !ok {
		return nil
	}
	return b.Links
}

// Images returns the images pane, newest first.
func (r *Renderer) Images() []Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Image(nil), r.images...)
}

// Version increases on every change.
func (r *Renderer) Version() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}
