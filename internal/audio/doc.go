// Package audio provides an in-process sound service built on the beep
// library. It decodes WAV, OGG, MP3 and FLAC files into memory at
// registration and plays them through the speaker, emulating the platform
// system-sound service on hosts that do not have one.
package audio
