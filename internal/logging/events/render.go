package events

import "github.com/atomicstack/hipparchia-console/internal/logging"

type RenderTracer struct{}

var Render = RenderTracer{}

func (RenderTracer) Install(pane, action string, links int) {
	logging.Trace("render.install", map[string]interface{}{"pane": pane, "action": action, "links": links})
}

func (RenderTracer) Uninstall(pane, action string) {
	logging.Trace("render.uninstall", map[string]interface{}{"pane": pane, "action": action})
}

func (RenderTracer) Image(ref, policy string, count int) {
	logging.Trace("render.image", map[string]interface{}{"ref": ref, "policy": policy, "count": count})
}
