// Package library resolves gear unit templates against the remote library
// and the local cache.
//
// Unit definitions enter the process only through the fetcher, land in the
// cache on first retrieval, and are never re-fetched while a cache hit
// exists. Control schemas and their image strips load lazily: FetchSchema
// runs asynchronously and invokes a completion callback once the template's
// control list is populated, after a short settle delay that lets bulk
// library loading finish first.
package library
