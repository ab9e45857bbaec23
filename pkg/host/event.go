package host

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Event is delivered to function-valued properties by Dispatch.
type Event struct {
	// Type is the event name, e.g. "click".
	Type string
	// Target is the node the event was dispatched to.
	Target *Node
	// Current is the node whose handler is running.
	Current *Node
	// Payload carries event data such as an input value.
	Payload any

	stopped bool
}

// StopPropagation prevents handlers on ancestors from running.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// HandlerProp returns the property name that handles an event type:
// "click" is handled by "onClick".
func HandlerProp(eventType string) string {
	r, size := utf8.DecodeRuneInString(eventType)
	if r == utf8.RuneError {
		return "on"
	}
	return "on" + string(unicode.ToUpper(r)) + eventType[size:]
}

// IsHandlerProp reports whether a property name names an event handler.
func IsHandlerProp(name string) bool {
	if !strings.HasPrefix(name, "on") || len(name) < 3 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name[2:])
	return unicode.IsUpper(r)
}

func isHandler(v any) bool {
	switch v.(type) {
	case func(), func(*Event):
		return true
	}
	return false
}

// Dispatch delivers an event to n and then to its ancestors until a handler
// stops propagation. It reports whether any handler ran.
func (n *Node) Dispatch(eventType string, payload any) bool {
	evt := &Event{Type: eventType, Target: n, Payload: payload}
	prop := HandlerProp(eventType)
	handled := false
	for cur := n; cur != nil && !evt.stopped; cur = cur.parent {
		evt.Current = cur
		switch h := cur.props[prop].(type) {
		case func():
			h()
			handled = true
		case func(*Event):
			h(evt)
			handled = true
		}
	}
	return handled
}
