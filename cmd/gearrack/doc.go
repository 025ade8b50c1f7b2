// Command gearrack is the command line companion for the gear rack cache.
// It inspects and maintains the local unit cache, the recently-used and
// favorites lists, the catalog index, and stored presets.
package main
