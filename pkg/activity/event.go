package activity

import (
	"strconv"
	"time"
)

// Verbs emitted by storage.
const (
	VerbAssetLoaded  = "asset.loaded"
	VerbAssetCreated = "asset.created"
	VerbAssetUpdated = "asset.updated"
	VerbBootstrapped = "storage.bootstrapped"
)

// SourceEmbedded is the Source of gets served without a network call.
const SourceEmbedded = "embedded"

// Subject names the asset an event is about. Bootstrap events have none.
type Subject struct {
	Type   string
	Format string
	ID     string
}

// Event is one storage lifecycle occurrence.
type Event struct {
	Verb    string
	Actor   Actor
	Channel string
	Subject Subject
	// Source is SourceEmbedded or the name of the store that served the call.
	Source string
	Method string
	// URL is redacted before it reaches an event.
	URL   string
	Bytes int
	// Assets and Refresh describe bootstrap events.
	Assets  int
	Refresh bool
	At      time.Time
}

// ObjectType is the asset type, or "storage" for events without a subject.
func (e Event) ObjectType() string {
	if e.Subject.Type == "" {
		return "storage"
	}
	return e.Subject.Type
}

// ObjectID is the asset key within its type: "{id}.{format}". Server
// assigned creates report the type alone; bootstraps report
// "default-project".
func (e Event) ObjectID() string {
	switch {
	case e.Subject.Type == "":
		return "default-project"
	case e.Subject.ID == "":
		return e.Subject.Type
	case e.Subject.Format == "":
		return e.Subject.ID
	}
	return e.Subject.ID + "." + e.Subject.Format
}

// Fields flattens the populated attributes for sinks that store a free-form
// payload. Keys are snake_case.
func (e Event) Fields() map[string]any {
	fields := map[string]any{}
	if e.Subject.ID != "" {
		fields["asset_id"] = e.Subject.ID
	}
	if e.Subject.Format != "" {
		fields["data_format"] = e.Subject.Format
	}
	if e.Source != "" {
		fields["source"] = e.Source
	}
	if e.Method != "" {
		fields["method"] = e.Method
	}
	if e.URL != "" {
		fields["url"] = e.URL
	}
	if e.Bytes > 0 {
		fields["bytes"] = e.Bytes
	}
	if e.Verb == VerbBootstrapped {
		fields["assets"] = e.Assets
		fields["refresh"] = strconv.FormatBool(e.Refresh)
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
