// Package platform selects the sound.Service implementation for the running
// system.
package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/syssound/internal/audio"
	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/sound"
)

// Service is a sound.Service that owns resources released by Close.
type Service interface {
	sound.Service
	Close(ctx context.Context) error
}

// Name returns the backend New would choose for b.
func Name(b config.Backend) string {
	switch b {
	case config.BackendNative, config.BackendBeep:
		return string(b)
	default:
		if NativeAvailable {
			return string(config.BackendNative)
		}
		return string(config.BackendBeep)
	}
}

// New creates the service for cfg.Backend. Auto picks the native service
// where one is available.
func New(cfg *config.Config, logger *slog.Logger, opts ...audio.Option) (Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	backend := Name(config.Backend(cfg.Backend))
	logger = logger.With("backend", backend)

	switch config.Backend(backend) {
	case config.BackendNative:
		if !NativeAvailable {
			return nil, fmt.Errorf("native backend not available in this build")
		}
		return newNative(logger)
	default:
		svc, err := audio.NewService(cfg, logger, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create beep backend: %w", err)
		}
		return svc, nil
	}
}
