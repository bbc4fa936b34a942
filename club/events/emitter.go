package events

import (
	"context"
	"sync"

	"github.com/johnewart/go-clubmember/club"
	"zombiezen.com/go/log"
)

// Emitter delivers registry events. Delivery is fire-and-forget: implementations log
// their own failures and never report them to the registry.
type Emitter interface {
	Emit(ctx context.Context, event club.Event)
}

type LogEmitter struct{}

func (LogEmitter) Emit(ctx context.Context, event club.Event) {
	log.Infof(ctx, "club event: %v", event)
}

type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, event club.Event) {
	for _, e := range m {
		e.Emit(ctx, event)
	}
}

// Recorder keeps every event it is handed.
type Recorder struct {
	mu     sync.Mutex
	events []club.Event
}

func (r *Recorder) Emit(_ context.Context, event club.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *Recorder) Events() []club.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]club.Event, len(r.events))
	copy(result, r.events)
	return result
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
