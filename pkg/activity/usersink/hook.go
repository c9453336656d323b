// Package usersink records storage activity through a go-users ActivitySink.
package usersink

import (
	"context"
	"time"

	"github.com/goliatone/go-projectstorage/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook writes one ActivityRecord per storage event.
type Hook struct {
	Sink usertypes.ActivitySink
	// Channel is used for events that reach the hook without one.
	Channel string
	// Now stamps records whose event has no time. Defaults to time.Now.
	Now func() time.Time
}

// Notify converts event and logs it. Actor ids that are not UUIDs are
// recorded as uuid.Nil; identity missing from the event is read from ctx.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || event.Verb == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, h.record(ctx, event))
}

func (h Hook) record(ctx context.Context, event activity.Event) usertypes.ActivityRecord {
	actor := event.Actor
	if fallback, ok := activity.ActorFromContext(ctx); ok {
		if actor.ActorID == "" {
			actor.ActorID = fallback.ActorID
		}
		if actor.UserID == "" {
			actor.UserID = fallback.UserID
		}
		if actor.TenantID == "" {
			actor.TenantID = fallback.TenantID
		}
	}
	channel := event.Channel
	if channel == "" {
		channel = h.Channel
	}
	at := event.At
	if at.IsZero() {
		now := h.Now
		if now == nil {
			now = time.Now
		}
		at = now()
	}
	return usertypes.ActivityRecord{
		ActorID:    uuidOrNil(actor.ActorID),
		UserID:     uuidOrNil(actor.UserID),
		TenantID:   uuidOrNil(actor.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType(),
		ObjectID:   event.ObjectID(),
		Channel:    channel,
		Data:       event.Fields(),
		OccurredAt: at,
	}
}

func uuidOrNil(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
