package winloop

// Handler is invoked with an event whose code it was bound to.
type Handler func(ev Event) error

// Dispatcher maps event codes to handlers and feeds them the events
// polled from its source.
type Dispatcher struct {
	source   EventSource
	handlers map[EventCode]Handler
	observe  func(ev Event)
}

func NewDispatcher(source EventSource) *Dispatcher {
	return &Dispatcher{
		source:   source,
		handlers: make(map[EventCode]Handler),
	}
}

// Bind registers handler for code, replacing any previous one.
func (d *Dispatcher) Bind(code EventCode, handler Handler) {
	d.handlers[code] = handler
}

// Observe sets a function that sees every event, bound or not, right
// before its handler would run.
func (d *Dispatcher) Observe(fn func(ev Event)) {
	d.observe = fn
}

func (d *Dispatcher) Unbind(code EventCode) {
	delete(d.handlers, code)
}

func (d *Dispatcher) Bound(code EventCode) bool {
	_, ok := d.handlers[code]
	return ok
}

// PollAndDispatch drains one batch from the source and dispatches it.
// It never waits for new events.
func (d *Dispatcher) PollAndDispatch() (int, error) {
	if d.source == nil {
		return 0, nil
	}
	return d.Dispatch(d.source.PollEvents())
}

// Dispatch runs the bound handler of every event in order and returns
// how many events had one. Unbound events are dropped. The first
// handler error stops the batch.
func (d *Dispatcher) Dispatch(events []Event) (int, error) {
	handled := 0
	for _, ev := range events {
		if d.observe != nil {
			d.observe(ev)
		}
		handler, ok := d.handlers[ev.Code]
		if !ok {
			continue
		}
		handled++
		if err := handler(ev); err != nil {
			return handled, makeHookError(ev.Code.String()+" handler", err)
		}
	}
	return handled, nil
}
