package dom

// EventKind names an event channel an element can carry listeners for.
type EventKind string

const (
	// EventSubmit fires when a form's submit action runs.
	EventSubmit EventKind = "submit"
	// EventInput fires when a user edits a control's value.
	EventInput EventKind = "input"
)

// Event carries dispatch state to handlers. Submit handlers may cancel the
// default action; for other kinds PreventDefault is recorded but has no
// built-in effect.
type Event struct {
	Kind      EventKind
	Target    *Element
	prevented bool
}

// PreventDefault cancels the event's default action.
func (ev *Event) PreventDefault() {
	ev.prevented = true
}

// DefaultPrevented reports whether any handler cancelled the default action.
func (ev *Event) DefaultPrevented() bool {
	return ev.prevented
}

// Handler reacts to a dispatched event.
type Handler func(*Event)

// On registers a handler for the given event kind. Handlers run in
// registration order when the kind is dispatched on this element.
func (e *Element) On(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}
	if e.listeners == nil {
		e.listeners = make(map[EventKind][]Handler)
	}
	e.listeners[kind] = append(e.listeners[kind], handler)
}

// Dispatch synchronously runs the element's handlers for the given kind and
// returns the event so callers can inspect PreventDefault state. Handlers run
// to completion before Dispatch returns; there is no bubbling.
func (e *Element) Dispatch(kind EventKind) *Event {
	ev := &Event{Kind: kind, Target: e}
	for _, handler := range e.listeners[kind] {
		handler(ev)
	}
	return ev
}

// Submit dispatches a submit event on the element and reports whether the
// default submission should proceed.
func (e *Element) Submit() bool {
	return !e.Dispatch(EventSubmit).DefaultPrevented()
}
