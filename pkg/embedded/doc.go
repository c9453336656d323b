// Package embedded provides the in-memory, network-free store used to serve
// built-in content such as the default project.
//
// Entries are keyed by an opaque string (the storage package uses
// "type/format/id"). Put overwrites; there is no eviction and nothing is
// persisted beyond process memory.
package embedded
