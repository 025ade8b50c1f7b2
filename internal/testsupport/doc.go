// Package testsupport provides shared fixtures for gearrack tests: a
// temp-dir config builder, an in-memory file system, a canned-response
// fetcher, and small image helpers.
package testsupport
