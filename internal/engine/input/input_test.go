package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{}, Event{Type: EventQuit}, true},
		{"resize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600}, true},
		{"size changed", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1024, Data2: 768},
			Event{Type: EventWindowResize, Width: 1024, Height: 768}, true},
		{"focus ignored", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}, false},
		{"key down", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_1}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_1}, true},
		{"key repeat ignored", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_1}},
			Event{}, false},
		{"motion", &sdl.MouseMotionEvent{X: 10, Y: 20, XRel: 3, YRel: -4},
			Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: 3, DeltaY: -4}, true},
		{"button", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 1, Y: 2},
			Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 1, MouseY: 2}, true},
		{"wheel", &sdl.MouseWheelEvent{Y: 2}, Event{Type: EventMouseWheel, Wheel: 2}, true},
		{"wheel flipped", &sdl.MouseWheelEvent{Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED},
			Event{Type: EventMouseWheel, Wheel: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestDragTracking(t *testing.T) {
	in := New()
	in.push(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT})
	if !in.Dragging() {
		t.Error("expected dragging after left button down")
	}
	in.push(Event{Type: EventMouseUp, Button: sdl.BUTTON_RIGHT})
	if !in.Dragging() {
		t.Error("right button release should not end the drag")
	}
	in.push(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT})
	if in.Dragging() {
		t.Error("expected drag to end on left button up")
	}
	if len(in.Events()) != 3 {
		t.Errorf("expected 3 events, got %d", len(in.Events()))
	}
}
