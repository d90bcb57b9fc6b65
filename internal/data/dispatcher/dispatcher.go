package dispatcher

import (
	"github.com/atomicstack/hipparchia-console/internal/backend"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/state"
)

// OptionSink receives polled option mappings.
type OptionSink interface {
	Apply(values map[string]string) int
}

type Result struct {
	OptionsUpdated    bool
	SelectionsUpdated bool
	Applied           int
}

type Dispatcher struct {
	options    OptionSink
	selections state.SelectionStore
}

func New(options OptionSink, selections state.SelectionStore) *Dispatcher {
	return &Dispatcher{options: options, selections: selections}
}

// Handle routes one backend event into the matching store. Poll errors are
// logged and leave every store unchanged.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		logging.Error(evt.Err)
		return res
	}
	switch evt.Kind {
	case backend.KindOptions:
		if opts, ok := evt.Data.(hipparchia.Options); ok && d.options != nil {
			res.Applied = d.options.Apply(opts)
			res.OptionsUpdated = true
		}
	case backend.KindSelections:
		if sel, ok := evt.Data.(hipparchia.Selections); ok && d.selections != nil {
			d.selections.Set(sel)
			res.SelectionsUpdated = true
		}
	}
	return res
}
