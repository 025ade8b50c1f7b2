// Package gearcache owns the local cache tree for remotely-fetched gear
// units and their image assets.
//
// The cache root mirrors the remote library layout:
//
//	units/<unitId>.json
//	assets/faceplates/<filename>
//	assets/thumbnails/<filename>
//	assets/controls/<relativePath>   (buttons/, faders/, knobs/, switches/)
//
// Alongside the asset tree the manager persists two JSON sidecar lists:
// recently_used.json (ordered, capped, move-to-front) and favorites.json
// (unordered set, backed by an in-memory cache that is invalidated inside
// every successful mutation). Sidecar writes take a cross-process file lock
// so two plugin instances sharing one cache root cannot interleave updates.
//
// Every operation reports failure through its return value. Storage errors
// never escape this package.
package gearcache
