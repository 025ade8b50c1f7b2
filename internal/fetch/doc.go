// Package fetch retrieves remote gear library data over HTTP.
//
// The Fetcher interface is deliberately blocking: callers own any asynchrony.
// Failures never surface as errors, only as a false success flag, matching
// the cache layer's result-value convention. HTTPFetcher enforces a fixed
// request timeout and redirect cap; Null always fails and logs the attempted
// URL, serving tests and offline mode.
package fetch
