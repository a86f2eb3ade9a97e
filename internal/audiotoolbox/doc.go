// Package audiotoolbox implements sound.Service on macOS by calling
// AudioToolbox's System Sound Services directly.
//
// Completions are scheduled on a CoreFoundation run loop owned by a goroutine
// locked to its OS thread. The C callback carries only the sound ID across
// the boundary; the Go function is found in a process-wide table keyed by ID,
// since system sound IDs are unique within a process.
//
// The package is empty unless built for darwin with cgo enabled.
package audiotoolbox
