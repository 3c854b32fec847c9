// Package input defines the platform independent input events consumed by
// the app and a dispatcher that routes them to handlers.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

var eventNames = [...]string{
	EventNone:         "none",
	EventQuit:         "quit",
	EventWindowResize: "window_resize",
	EventKeyDown:      "key_down",
	EventKeyUp:        "key_up",
	EventMouseMove:    "mouse_move",
	EventMouseDown:    "mouse_down",
	EventMouseUp:      "mouse_up",
	EventMouseWheel:   "mouse_wheel",
}

func (t EventType) String() string {
	if t < 0 || int(t) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[t]
}

// Key is a physical key. Only the keys the demo reacts to are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF12
)

// Mouse buttons.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event is a processed input event. Coordinates are window pixels with the
// origin at the top left.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
	MouseX int
	MouseY int
	RelX   int
	RelY   int
	Wheel  float32
	Button uint8
}

// Handler receives dispatched events.
type Handler func(Event)

// Dispatcher routes events to the handlers registered for their type.
// Events with no handler are dropped; nothing is queued.
type Dispatcher struct {
	handlers map[EventType][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[EventType][]Handler)}
}

// On registers h for events of type t. Handlers run in registration order.
func (d *Dispatcher) On(t EventType, h Handler) {
	d.handlers[t] = append(d.handlers[t], h)
}

// OnPointerMove registers h for mouse motion.
func (d *Dispatcher) OnPointerMove(h Handler) {
	d.On(EventMouseMove, h)
}

// Has reports whether any handler is registered for t.
func (d *Dispatcher) Has(t EventType) bool {
	return len(d.handlers[t]) > 0
}

// Dispatch delivers e and reports whether any handler ran.
func (d *Dispatcher) Dispatch(e Event) bool {
	hs := d.handlers[e.Type]
	for _, h := range hs {
		h(e)
	}
	return len(hs) > 0
}

// State tracks keys and buttons held across frames.
type State struct {
	keys    map[Key]bool
	buttons map[uint8]bool
	mouseX  int
	mouseY  int
}

// NewState creates an empty input state.
func NewState() *State {
	return &State{keys: make(map[Key]bool), buttons: make(map[uint8]bool)}
}

// Apply folds an event into the state.
func (s *State) Apply(e Event) {
	switch e.Type {
	case EventKeyDown:
		s.keys[e.Key] = true
	case EventKeyUp:
		delete(s.keys, e.Key)
	case EventMouseDown:
		s.buttons[e.Button] = true
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
	case EventMouseUp:
		delete(s.buttons, e.Button)
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
	case EventMouseMove:
		s.mouseX, s.mouseY = e.MouseX, e.MouseY
	}
}

// KeyDown reports whether k is held.
func (s *State) KeyDown(k Key) bool { return s.keys[k] }

// ButtonDown reports whether button b is held.
func (s *State) ButtonDown(b uint8) bool { return s.buttons[b] }

// Mouse returns the last known pointer position.
func (s *State) Mouse() (int, int) { return s.mouseX, s.mouseY }
