package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

// CookiesDisabled records that the server did not keep the session cookie.
func (AppTracer) CookiesDisabled(server string) {
	emit("app.cookies-disabled", "server", server)
}

func (AppTracer) Stop(reason string) {
	emit("app.stop", "reason", reason)
}
