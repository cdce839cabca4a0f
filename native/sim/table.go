package sim

import (
	speechsdk "github.com/wippyai/speech-sdk-go"
)

// Kind identifies the resource type behind a handle.
type Kind uint8

const (
	KindPropertyBag Kind = iota + 1
	KindSpeechConfig
	KindResult
)

func (k Kind) String() string {
	switch k {
	case KindPropertyBag:
		return "property_bag"
	case KindSpeechConfig:
		return "speech_config"
	case KindResult:
		return "recognizer_result"
	default:
		return "unknown"
	}
}

// EventType classifies handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
	// EventDoubleRelease is emitted when release is called on a handle
	// that was already released.
	EventDoubleRelease
)

// Event represents a handle lifecycle event.
type Event struct {
	Handle speechsdk.Handle
	Kind   Kind
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnHandleEvent(e Event) { f(e) }

type entry struct {
	value any
	kind  Kind
}

const (
	handleBase   = 0x1000
	handleStride = 0x10
)

// table issues handles that are never reused, so a stale handle always
// resolves to "released" rather than to a newer resource.
// Callers hold the SDK lock.
type table struct {
	entries  map[speechsdk.Handle]entry
	released map[speechsdk.Handle]Kind
	next     speechsdk.Handle
}

func newTable() *table {
	return &table{
		entries:  make(map[speechsdk.Handle]entry),
		released: make(map[speechsdk.Handle]Kind),
		next:     handleBase,
	}
}

func (t *table) insert(k Kind, value any) (speechsdk.Handle, Event) {
	h := t.next
	t.next += handleStride
	t.entries[h] = entry{kind: k, value: value}
	return h, Event{Type: EventCreated, Handle: h, Kind: k}
}

func (t *table) get(h speechsdk.Handle, k Kind) (any, bool) {
	e, ok := t.entries[h]
	if !ok || e.kind != k {
		return nil, false
	}
	return e.value, true
}

// remove drops h. A second removal of the same handle reports a double
// release instead of succeeding.
func (t *table) remove(h speechsdk.Handle, k Kind) (any, Event, bool) {
	e, ok := t.entries[h]
	if !ok || e.kind != k {
		if prev, seen := t.released[h]; seen && prev == k {
			return nil, Event{Type: EventDoubleRelease, Handle: h, Kind: k}, false
		}
		return nil, Event{}, false
	}
	delete(t.entries, h)
	t.released[h] = k
	return e.value, Event{Type: EventReleased, Handle: h, Kind: k}, true
}

func (t *table) len() int {
	return len(t.entries)
}

func (t *table) count(k Kind) int {
	n := 0
	for _, e := range t.entries {
		if e.kind == k {
			n++
		}
	}
	return n
}
