package winloop

import "fmt"

// EventCode classifies an event produced by a backend.
type EventCode int

const (
	EventQuit EventCode = iota + 1
	EventKeyDown
	EventKeyUp
	EventChar
	EventMouseMotion
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseWheel
	EventResize
	EventFocus
)

// EventUser is the first code available to applications.
const EventUser EventCode = 1000

func (code EventCode) String() string {
	switch code {
	case EventQuit:
		return "Quit"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventChar:
		return "Char"
	case EventMouseMotion:
		return "MouseMotion"
	case EventMouseButtonDown:
		return "MouseButtonDown"
	case EventMouseButtonUp:
		return "MouseButtonUp"
	case EventMouseWheel:
		return "MouseWheel"
	case EventResize:
		return "Resize"
	case EventFocus:
		return "Focus"
	}
	if code >= EventUser {
		return fmt.Sprintf("User+%d", int(code-EventUser))
	}
	return fmt.Sprintf("EventCode(%d)", int(code))
}

type Event struct {
	Code    EventCode
	Payload any
}

// Mod is a bit set of held modifier keys.
type Mod int

const (
	ModShift Mod = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// KeyPayload accompanies EventKeyDown and EventKeyUp. Name uses the
// "C-M-S-key" convention understood by KeyMap.
type KeyPayload struct {
	Name     string
	Key      int
	Scancode int
	Mods     Mod
}

// MousePayload accompanies motion and button events. Button is zero
// for motion.
type MousePayload struct {
	X, Y   float64
	Button int
	Mods   Mod
}

type WheelPayload struct {
	DX, DY float64
}

// Payload helpers return the zero value when the payload has another
// type.

func (ev Event) Key() KeyPayload {
	p, _ := ev.Payload.(KeyPayload)
	return p
}

func (ev Event) Char() rune {
	r, _ := ev.Payload.(rune)
	return r
}

func (ev Event) Mouse() MousePayload {
	p, _ := ev.Payload.(MousePayload)
	return p
}

func (ev Event) Wheel() WheelPayload {
	p, _ := ev.Payload.(WheelPayload)
	return p
}

func (ev Event) Size() Size {
	s, _ := ev.Payload.(Size)
	return s
}
