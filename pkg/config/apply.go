package config

import (
	"fmt"

	"github.com/goliatone/go-projectstorage"
)

// Apply pushes hosts, token and store definitions into s. Settings win over
// the file for every non-empty value. Stores are compiled before anything is
// registered, so a bad definition leaves s untouched.
func Apply(s *storage.Storage, settings Settings, file *File, opts ...storage.ExpressionStoreOption) error {
	if file == nil {
		file = &File{}
	}

	entries := make([]storage.StoreEntry, 0, len(file.Stores))
	for _, def := range file.Stores {
		store, err := def.ExpressionStore()
		if err != nil {
			return err
		}
		entry, err := store.Entry(opts...)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		entries = append(entries, entry)
	}

	cfg := mergeConfig(
		storage.Config{AssetHost: settings.AssetHost, ProjectHost: settings.ProjectHost, ProjectToken: settings.ProjectToken},
		storage.Config{AssetHost: file.AssetHost, ProjectHost: file.ProjectHost, ProjectToken: file.ProjectToken},
	)
	if file.OfficialWeb {
		s.AddOfficialWebStores()
	}
	if cfg.AssetHost != "" {
		s.SetAssetHost(cfg.AssetHost)
	}
	if cfg.ProjectHost != "" {
		s.SetProjectHost(cfg.ProjectHost)
	}
	if cfg.ProjectToken != "" {
		s.SetProjectToken(cfg.ProjectToken)
	}
	for _, entry := range entries {
		if err := s.Register(entry); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
