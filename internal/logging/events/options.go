package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type OptionsTracer struct{}

var Options = OptionsTracer{}

func (OptionsTracer) Refresh(keys int, applied int) {
	logging.Trace("options.refresh", map[string]interface{}{"keys": keys, "applied": applied})
}

func (OptionsTracer) Rejected(key, value, reason string) {
	logging.Trace("options.rejected", map[string]interface{}{"key": key, "value": value, "reason": reason})
}

func (OptionsTracer) Push(key, value string) {
	logging.Trace("options.push", map[string]interface{}{"key": key, "value": value})
}

func (OptionsTracer) PushFailed(key string, err error) {
	if err == nil {
		return
	}
	logging.Trace("options.push-failed", map[string]interface{}{"key": key, "error": err.Error()})
}

func (OptionsTracer) Cascade(key string) {
	logging.Trace("options.cascade", map[string]interface{}{"key": key})
}

func (OptionsTracer) Reset(server string) {
	logging.Trace("options.reset", map[string]interface{}{"server": server})
}
