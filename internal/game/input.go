package game

import (
	"bufio"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/intro"
)

// Input queues events from any goroutine and delivers them to listeners on
// the frame loop, the way a window event pump would.
type Input struct {
	mu        sync.Mutex
	pending   []intro.Event
	listeners map[int]func(intro.Event)
	nextID    int
}

// NewInput creates an empty input queue.
func NewInput() *Input {
	return &Input{listeners: make(map[int]func(intro.Event))}
}

// Push queues ev for the next Pump.
func (in *Input) Push(ev intro.Event) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = append(in.pending, ev)
}

// Subscribe adds a listener and returns the function that removes it.
func (in *Input) Subscribe(fn func(intro.Event)) func() {
	in.mu.Lock()
	defer in.mu.Unlock()

	id := in.nextID
	in.nextID++
	in.listeners[id] = fn
	return func() {
		in.mu.Lock()
		defer in.mu.Unlock()
		delete(in.listeners, id)
	}
}

// Pump delivers queued events to the current listeners and returns how many
// events were drained. Listeners run without the queue lock held.
func (in *Input) Pump() int {
	in.mu.Lock()
	events := in.pending
	in.pending = nil
	listeners := make([]func(intro.Event), 0, len(in.listeners))
	for _, fn := range in.listeners {
		listeners = append(listeners, fn)
	}
	in.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
	return len(events)
}

// Scan pushes a skip for every line read from r until EOF or a read error.
func (in *Input) Scan(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		in.Push(intro.EventSkip)
	}
	return sc.Err()
}

// Watch runs Scan and logs a read error. It is meant to run on its own
// goroutine.
func (in *Input) Watch(r io.Reader, log *zap.Logger) {
	if err := in.Scan(r); err != nil {
		log.Warn("input stream failed", zap.Error(err))
	}
}
