// Package sound wraps a platform system-sound service.
//
// A sound file is registered with a Service and identified by an ID. Handle
// carries the operations every ID supports (play, play as alert, property
// access, completion callbacks, disposal) and Sound is a disposable object
// that owns exactly one Handle for its lifetime and reports playback
// completion to a Delegate.
//
// Every platform call that returns a non-zero Status is translated at the
// call site into an *Error. Playback triggers are fire-and-forget and never
// return an error.
package sound
