package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-projectstorage/pkg/activity"
	"github.com/goliatone/go-projectstorage/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookRecordsProjectUpdate(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actor := activity.Actor{ActorID: uuid.NewString(), UserID: uuid.NewString(), TenantID: uuid.NewString()}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:    activity.VerbAssetUpdated,
		Actor:   actor,
		Channel: "storage",
		Subject: activity.Subject{Type: "Project", Format: "json", ID: "1234"},
		Source:  "project-web",
		Method:  "PUT",
		Bytes:   17,
		At:      at,
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}

	want := usertypes.ActivityRecord{
		ActorID:    uuid.MustParse(actor.ActorID),
		UserID:     uuid.MustParse(actor.UserID),
		TenantID:   uuid.MustParse(actor.TenantID),
		Verb:       activity.VerbAssetUpdated,
		ObjectType: "Project",
		ObjectID:   "1234.json",
		Channel:    "storage",
		Data: map[string]any{
			"asset_id":    "1234",
			"data_format": "json",
			"source":      "project-web",
			"method":      "PUT",
			"bytes":       17,
		},
		OccurredAt: at,
	}
	if diff := cmp.Diff(want, sink.records[0]); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestHookFillsIdentityChannelAndTime(t *testing.T) {
	sink := &recordingSink{}
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	hook := usersink.Hook{Sink: sink, Channel: "audit", Now: func() time.Time { return at }}
	actorID := uuid.New()

	ctx := activity.WithActor(context.Background(), activity.Actor{ActorID: actorID.String(), UserID: "not-a-uuid"})
	if err := hook.Notify(ctx, activity.Event{Verb: activity.VerbBootstrapped, Assets: 5}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != uuid.Nil {
		t.Fatalf("unexpected identity: actor=%s user=%s", record.ActorID, record.UserID)
	}
	if record.Channel != "audit" || !record.OccurredAt.Equal(at) {
		t.Fatalf("expected hook defaults, got channel=%q at=%v", record.Channel, record.OccurredAt)
	}
	if record.ObjectType != "storage" || record.ObjectID != "default-project" || record.Data["assets"] != 5 {
		t.Fatalf("unexpected bootstrap record: %+v", record)
	}
}

func TestHookSkipsEventsWithoutVerbAndPropagatesSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("sink offline")}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("expected empty event to be ignored, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records, got %d", len(sink.records))
	}
	err := hook.Notify(context.Background(), activity.Event{Verb: activity.VerbAssetLoaded, Subject: activity.Subject{Type: "Sound", ID: "a"}})
	if err == nil || err.Error() != "sink offline" {
		t.Fatalf("expected sink error, got %v", err)
	}
	if (usersink.Hook{}).Notify(context.Background(), activity.Event{Verb: activity.VerbAssetLoaded}) != nil {
		t.Fatalf("hook without sink must be a no-op")
	}
}
