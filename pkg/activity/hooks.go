package activity

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Hook receives storage events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, event Event) error

func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks notifies every non-nil hook in order.
type Hooks []Hook

// Notify delivers event to each hook, stamping At when unset. Events without
// a verb are dropped. Hook failures do not stop delivery; they are joined.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if event.Verb == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every event it is notified of. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	// Err is returned from every Notify call.
	Err error
}

func (r *Recorder) Notify(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Verbs returns the recorded verbs in order.
func (r *Recorder) Verbs() []string {
	events := r.Events()
	verbs := make([]string, len(events))
	for i, event := range events {
		verbs[i] = event.Verb
	}
	return verbs
}
