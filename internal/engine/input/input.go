// Package input turns SDL2 events into per-tick key and mouse state.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// Mouse buttons as reported by MouseDown.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2

	buttonCount = 3
)

// EventType identifies a processed input event.
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
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    string // lowercased key name, e.g. "e", "=", "1"
	Repeat bool   // key auto-repeat
	Width  int
	Height int
	MouseX int
	MouseY int
	DX     int
	DY     int
	Button int // 0 left, 1 middle, 2 right
}

// Input holds the key and mouse state of the current tick.
type Input struct {
	events []Event

	pressed map[string]bool
	buttons [buttonCount]bool

	mouseX, mouseY int
	dx, dy         int

	quit          bool
	resized       bool
	width, height int
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		pressed: make(map[string]bool),
	}
}

// Update polls SDL events and folds them into this tick's state.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.begin()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.Apply(e)
		}
	}
	return i.quit
}

// Feed starts a new tick from already translated events.
func (i *Input) Feed(events ...Event) bool {
	i.begin()
	for _, e := range events {
		i.Apply(e)
	}
	return i.quit
}

func (i *Input) begin() {
	i.events = i.events[:0]
	clear(i.pressed)
	i.dx, i.dy = 0, 0
	i.resized = false
}

// Apply folds one event into the current tick.
func (i *Input) Apply(e Event) {
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventWindowResize:
		i.resized = true
		i.width, i.height = e.Width, e.Height
	case EventKeyDown:
		if !e.Repeat && e.Key != "" {
			i.pressed[e.Key] = true
		}
	case EventMouseMove:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
		i.dx += e.DX
		i.dy += e.DY
	case EventMouseDown, EventMouseUp:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
		if e.Button >= 0 && e.Button < buttonCount {
			i.buttons[e.Button] = e.Type == EventMouseDown
		}
	}
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:    KeyName(sdl.GetKeyName(e.Keysym.Sym)),
			Repeat: e.Repeat != 0,
		}
		if e.Type == sdl.KEYDOWN {
			ev.Type = EventKeyDown
			return ev, true
		} else if e.Type == sdl.KEYUP {
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DX:     int(e.XRel),
			DY:     int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: int(e.Button) - 1, // SDL numbers buttons from 1
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			ev.Type = EventMouseDown
			return ev, true
		} else if e.Type == sdl.MOUSEBUTTONUP {
			ev.Type = EventMouseUp
			return ev, true
		}
	}
	return Event{}, false
}

// KeyName normalizes an SDL key name.
func KeyName(name string) string {
	return strings.ToLower(name)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// KeyPressed reports whether the named key went down this tick.
// Held keys and auto-repeat do not count.
func (i *Input) KeyPressed(name string) bool {
	return i.pressed[KeyName(name)]
}

// MouseDown reports whether a button is currently held.
func (i *Input) MouseDown(button int) bool {
	if button < 0 || button >= buttonCount {
		return false
	}
	return i.buttons[button]
}

// MouseDelta returns the pointer motion accumulated this tick.
func (i *Input) MouseDelta() (dx, dy int) {
	return i.dx, i.dy
}

// MousePosition returns the last known pointer position in window pixels.
func (i *Input) MousePosition() (x, y int) {
	return i.mouseX, i.mouseY
}

// Resized reports whether the window size changed this tick, and the new size.
func (i *Input) Resized() (width, height int, ok bool) {
	return i.width, i.height, i.resized
}

// QuitRequested reports whether a quit event has been seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}
