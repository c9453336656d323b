// Package hydrate turns raw project payloads into typed documents.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrArchive is returned for zipped sb2/sb3 payloads, which carry the
// project JSON inside an archive instead of as the body.
var ErrArchive = errors.New("hydrate: project payload is a zip archive")

// ErrNotObject is returned when the payload is not a JSON object.
var ErrNotObject = errors.New("hydrate: project payload is not a JSON object")

var zipMagic = []byte("PK\x03\x04")

// Validator checks a decoded project. Returning an error aborts the load.
type Validator[T any] func(*T) error

// Project decodes data, the body of project id, into T and runs validators in
// order. Nil validators are skipped.
func Project[T any](id string, data []byte, validators ...Validator[T]) (T, error) {
	var project T
	body := bytes.TrimSpace(data)
	switch {
	case len(body) == 0:
		return project, fmt.Errorf("hydrate: project %q is empty", id)
	case bytes.HasPrefix(body, zipMagic):
		return project, fmt.Errorf("%w: project %q", ErrArchive, id)
	case body[0] != '{':
		return project, fmt.Errorf("%w: project %q", ErrNotObject, id)
	}
	if err := json.Unmarshal(body, &project); err != nil {
		return project, fmt.Errorf("hydrate: decode project %q: %w", id, err)
	}
	for i, validate := range validators {
		if validate == nil {
			continue
		}
		if err := validate(&project); err != nil {
			var zero T
			return zero, fmt.Errorf("hydrate: project %q failed validation %d: %w", id, i, err)
		}
	}
	return project, nil
}
