package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type BrowseTracer struct{}

var Browse = BrowseTracer{}

func (BrowseTracer) Request(locator string, raw bool) {
	logging.Trace("browse.request", map[string]interface{}{"locator": locator, "raw": raw})
}

func (BrowseTracer) Bound(forward, back string) {
	logging.Trace("browse.bound", map[string]interface{}{"forward": forward, "back": back})
}

func (BrowseTracer) Closed() {
	logging.Trace("browse.closed", nil)
}
