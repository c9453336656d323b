package activity

import "context"

// Actor identifies who triggered a storage operation.
type Actor struct {
	ActorID  string
	UserID   string
	TenantID string
}

type actorKey struct{}

// WithActor returns a context carrying actor. Events emitted under that
// context are attributed to it unless they name an actor themselves.
func WithActor(ctx context.Context, actor Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// merge fills the empty fields of a from fallback.
func (a Actor) merge(fallback Actor) Actor {
	if a.ActorID == "" {
		a.ActorID = fallback.ActorID
	}
	if a.UserID == "" {
		a.UserID = fallback.UserID
	}
	if a.TenantID == "" {
		a.TenantID = fallback.TenantID
	}
	return a
}
