package configurator

import "time"

// EventKind identifies what an Event reports.
type EventKind string

const (
	EventBaseShown      EventKind = "base_shown"
	EventLegsShown      EventKind = "legs_shown"
	EventTextureApplied EventKind = "texture_applied"
	EventViewChanged    EventKind = "view_changed"
	EventLoadFailed     EventKind = "load_failed"
)

// Event is a state change or failure reported to observers.
type Event struct {
	Kind    EventKind `json:"kind"`
	Key     string    `json:"key,omitempty"`
	Count   int       `json:"count,omitempty"`
	Error   string    `json:"error,omitempty"`
	Created time.Time `json:"created"`
}

// Notifier receives events on the loop goroutine. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Notify calls f.
func (f NotifierFunc) Notify(e Event) { f(e) }

// Notifiers fans an event out to every non-nil notifier in order.
type Notifiers []Notifier

// Notify calls each notifier.
func (ns Notifiers) Notify(e Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(e)
		}
	}
}

func (st *State) emit(e Event) {
	if st.Notifier == nil {
		return
	}
	e.Created = time.Now()
	st.Notifier.Notify(e)
}

func (st *State) emitFailure(key string, err error) {
	st.emit(Event{Kind: EventLoadFailed, Key: key, Error: err.Error()})
}
