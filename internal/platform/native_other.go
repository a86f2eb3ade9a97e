//go:build !darwin || !cgo

package platform

import (
	"errors"
	"log/slog"
)

// NativeAvailable reports whether this build can call the platform's system
// sound service.
const NativeAvailable = false

func newNative(*slog.Logger) (Service, error) {
	return nil, errors.New("native backend requires darwin and cgo")
}
