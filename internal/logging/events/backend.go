package events

type BackendTracer struct{}

var Backend = BackendTracer{}

// Poll records one watcher fetch; err is omitted when the fetch succeeded.
func (BackendTracer) Poll(kind string, err error) {
	emit("backend.poll", "kind", kind, "error", err)
}
