package app

import (
	"sort"
	"sync"

	"github.com/TanaroSch/translator-hotkeys/internal/binding"
	"github.com/TanaroSch/translator-hotkeys/internal/config"
)

// EventKind identifies what changed.
type EventKind int

const (
	// EventConfigUpdated follows every applied settings snapshot.
	EventConfigUpdated EventKind = iota
	// EventPinChanged follows a pin toggle.
	EventPinChanged
)

// Event is delivered to subscribers of Events.
type Event struct {
	Kind     EventKind
	Settings *config.Settings // snapshot, safe to read
	Results  []binding.Result
	Pinned   bool
}

// Events is a synchronous in-process event bus.
type Events struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// NewEvents returns an empty bus.
func NewEvents() *Events {
	return &Events{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function removing it.
func (e *Events) Subscribe(fn func(Event)) (cancel func()) {
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			e.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber in subscription order.
func (e *Events) Publish(ev Event) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.subs))
	for id := range e.subs {
		ids = append(ids, id)
	}
	fns := make(map[int]func(Event), len(e.subs))
	for id, fn := range e.subs {
		fns[id] = fn
	}
	e.mu.Unlock()

	sort.Ints(ids)
	for _, id := range ids {
		fns[id](ev)
	}
}
