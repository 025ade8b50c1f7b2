// Package presets persists named rack arrangements as JSON preset files.
//
// A preset is the same state-tree document the host chunk carries, written
// atomically (temp file then rename) under the configured presets directory.
// Every operation reports success as a boolean; after a failure the
// human-readable cause is retrievable through LastError, which is what the
// dialog layer surfaces to the user.
package presets
