//go:build darwin && cgo

package platform

import (
	"log/slog"

	"github.com/jmylchreest/syssound/internal/audiotoolbox"
)

// NativeAvailable reports whether this build can call the platform's system
// sound service.
const NativeAvailable = true

func newNative(logger *slog.Logger) (Service, error) {
	svc, err := audiotoolbox.NewService(logger)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
