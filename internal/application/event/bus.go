package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/playroom-api/internal/domain"
)

// Handler consumes one domain event. Handlers run on the bus's dispatch
// goroutine, isolated from each other: a panic in one is logged and must not
// stop delivery to the rest.
type Handler func(ctx context.Context, ev domain.Event)

// Bus is the post-commit handoff between domain services and the
// notification side. Publish never blocks the caller: events ride a buffered
// channel drained by a single dispatch goroutine, so notification fan-out
// can never delay the commit path that produced the event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler

	ch   chan domain.Event
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		ch:       make(chan domain.Event, bufferSize),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for one event name. Call before Start.
func (b *Bus) Subscribe(eventName string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

// Publish enqueues an event. Callers publish only after their own write has
// committed, so a rolled-back operation never produces a stray notification.
// A full bus drops the event with a warning rather than blocking; the
// durable compensating path remains client polling.
func (b *Bus) Publish(ev domain.Event) {
	select {
	case <-b.done:
		slog.Warn("event bus stopped, dropping event", "event", ev.EventName())
	case b.ch <- ev:
	default:
		slog.Warn("event bus full, dropping event", "event", ev.EventName())
	}
}

// Start launches the dispatch goroutine. ctx bounds handler execution.
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.done:
				// Drain what was already accepted.
				for {
					select {
					case ev := <-b.ch:
						b.dispatch(ctx, ev)
					default:
						return
					}
				}
			case ev := <-b.ch:
				b.dispatch(ctx, ev)
			}
		}
	}()
}

// Stop halts intake, drains accepted events, and waits for dispatch to end.
func (b *Bus) Stop() {
	b.once.Do(func() { close(b.done) })
	b.wg.Wait()
}

func (b *Bus) dispatch(ctx context.Context, ev domain.Event) {
	b.mu.RLock()
	handlers := b.handlers[ev.EventName()]
	b.mu.RUnlock()
	for _, h := range handlers {
		b.invoke(ctx, h, ev)
	}
}

func (b *Bus) invoke(ctx context.Context, h Handler, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "event", ev.EventName(), "panic", r)
		}
	}()
	h(ctx, ev)
}
