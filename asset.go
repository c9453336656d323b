package storage

import (
	"errors"
	"fmt"
)

// Asset addresses one stored item. IDs are opaque and unique per
// (Type, Format).
type Asset struct {
	Type   AssetType
	Format DataFormat
	ID     string
}

// Key is the embedded store key for a.
func (a Asset) Key() string {
	return string(a.Type) + "/" + string(a.Format) + "/" + a.ID
}

func (a Asset) String() string {
	return a.Key()
}

// Validate checks that type and format are known. IDs are checked by the
// operations that need one.
func (a Asset) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("storage: unknown asset type %q", a.Type)
	}
	if !a.Format.Valid() {
		return fmt.Errorf("storage: unknown data format %q", a.Format)
	}
	return nil
}

// ErrAssetIDRequired is returned when an operation needs an asset id and none
// was given.
var ErrAssetIDRequired = errors.New("storage: asset id is required")

func (a Asset) validateWithID() error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		return ErrAssetIDRequired
	}
	return nil
}
