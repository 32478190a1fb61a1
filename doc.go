// Package gridcache implements near caching over an in-memory data grid: a
// local in-process byte store placed in front of a grid region, cutting
// round-trips for hot reads.
//
// Components:
//   - grid:     the process's attachment to the grid, as a client of remote
//     servers or as an embedded peer member. Live instances are tracked in a
//     process-wide registry.
//   - resolver: locates whichever cache instance is active in the current
//     process and classifies its role (client vs peer).
//   - store:    local byte store with TTL (Ristretto, BigCache).
//   - codec:    (de)serializes caller values V <-> []byte.
//
// Reads consult the local store first and fall through to the grid region,
// warming the local copy on the way back. Writes go through to the region
// and refresh the local copy. Local entries carry an authoritative expiry
// stamp so engines without per-entry TTL still honor it.
//
// When Options.Grid is nil, the near cache attaches to whatever instance the
// process already runs, via resolver.Shared().
package gridcache
