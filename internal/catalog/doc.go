// Package catalog maintains a local sqlite index of cached gear units.
//
// The asset cache stores unit definitions as opaque JSON files; the catalog
// keeps the searchable metadata (name, category, version, cache time) in one
// queryable place so browse and search never re-parse every cached document.
// The index is derivative data: deleting catalog.db loses nothing that a
// rescan of the cache cannot rebuild.
package catalog
