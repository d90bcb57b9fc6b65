package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type ProgressTracer struct{}

var Progress = ProgressTracer{}

func (ProgressTracer) State(id, from, to string) {
	logging.Trace("progress.state", map[string]interface{}{"id": id, "from": from, "to": to})
}

func (ProgressTracer) Port(id string, port int) {
	logging.Trace("progress.port", map[string]interface{}{"id": id, "port": port})
}

func (ProgressTracer) DialRetry(id string, attempt int, err error) {
	payload := map[string]interface{}{"id": id, "attempt": attempt}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("progress.dial-retry", payload)
}

// Discard records a progress message that belongs to a job other than the one
// being tracked.
func (ProgressTracer) Discard(tracked, received string) {
	logging.Trace("progress.discard", map[string]interface{}{"tracked": tracked, "received": received})
}

func (ProgressTracer) Closed(id, reason string) {
	logging.Trace("progress.closed", map[string]interface{}{"id": id, "reason": reason})
}
