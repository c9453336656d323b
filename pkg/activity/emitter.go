package activity

import "context"

// DefaultChannel is used when an emitter is built without one.
const DefaultChannel = "storage"

// Emitter stamps events with a channel and the context actor before handing
// them to its hooks. A nil Emitter emits nothing.
type Emitter struct {
	hooks   Hooks
	channel string
}

// NewEmitter builds an emitter over the non-nil hooks.
func NewEmitter(channel string, hooks ...Hook) *Emitter {
	if channel == "" {
		channel = DefaultChannel
	}
	e := &Emitter{channel: channel}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	return e
}

// Enabled reports whether any hook is attached.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit fills Channel and any empty Actor field, then notifies the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if event.Channel == "" {
		event.Channel = e.channel
	}
	if actor, ok := ActorFromContext(ctx); ok {
		event.Actor = event.Actor.merge(actor)
	}
	return e.hooks.Notify(ctx, event)
}
