// Package storage resolves projects and typed assets (images, vector images,
// sounds) to concrete retrieval, creation and update operations.
//
// A Storage wires three independent components:
//
//   - an embedded store holding the translated default project, consulted first
//     on every Get so built-in content never touches the network;
//   - a Registry mapping each AssetType to the StoreEntry whose resolvers build
//     requests for it;
//   - a fetch.Client executing the resulting requests.
//
// Lifecycle:
//
//	s := storage.New(storage.WithLogger(storage.NewHCLogger(logger)))
//	if err := s.Bootstrap(ctx); err != nil { ... }
//	s.SetAssetHost("https://assets.example")
//	s.SetProjectHost("https://projects.example")
//	resp, err := s.Get(ctx, storage.Asset{Type: storage.AssetTypeSound, Format: storage.DataFormatWAV, ID: id})
//
// Resolvers receive an immutable Config snapshot taken at call time, so host
// and token changes apply to every later call without re-registration.
package storage
