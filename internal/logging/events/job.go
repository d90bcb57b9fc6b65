package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type JobTracer struct{}

var Job = JobTracer{}

func (JobTracer) Start(id, kind, path string) {
	logging.Trace("job.start", map[string]interface{}{"id": id, "kind": kind, "path": path})
}

func (JobTracer) Rejected(kind, current string) {
	logging.Trace("job.rejected", map[string]interface{}{"kind": kind, "current": current})
}

func (JobTracer) Failed(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("job.failed", map[string]interface{}{"id": id, "error": err.Error()})
}

func (JobTracer) Delivered(id string, resultBytes int) {
	logging.Trace("job.delivered", map[string]interface{}{"id": id, "bytes": resultBytes})
}

func (JobTracer) Abandoned(id string) {
	logging.Trace("job.abandoned", map[string]interface{}{"id": id})
}
