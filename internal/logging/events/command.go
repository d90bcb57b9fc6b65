package events

type CommandTracer struct{}

type ActionTracer struct{}

var (
	Command = CommandTracer{}
	Action  = ActionTracer{}
)

// Queue, Skip, NoOp and Result follow one menu request through the command
// bus.
func (CommandTracer) Queue(id, label string) { emit("command.queue", "id", id, "label", label) }

func (CommandTracer) Skip(id, label string) { emit("command.skip", "id", id, "label", label) }

func (CommandTracer) NoOp(id, label string) { emit("command.noop", "id", id, "label", label) }

func (CommandTracer) Result(id, label, msgType string) {
	emit("command.result", "id", id, "label", label, "msg", msgType)
}

func (ActionTracer) Error(err error) {
	if err != nil {
		emit("action.error", "error", err)
	}
}

func (ActionTracer) Success(info string) {
	emit("action.success", "info", info)
}
