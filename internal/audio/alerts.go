package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"

	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/dbus"
)

// Terminal escape sequences for the reverse-video visual bell.
const (
	flashOn  = "\x1b[?5h"
	flashOff = "\x1b[?5l"
)

// vibrate is a no-op; desktops have no vibration motor.
func (s *Service) vibrate() {
	s.logger.Debug("vibration not supported on this device")
}

// systemAlert plays the configured alert sound, falling back to the system
// beeper when none is set or it cannot be loaded.
func (s *Service) systemAlert() {
	if !s.track() {
		return
	}
	if s.alert.Sound != "" {
		buffer, err := s.alertBuffer()
		if err == nil {
			volume := float64(s.audio.Volume) / 100.0
			s.sink.Play(beep.Seq(bufferStreamer(buffer, s.sink.SampleRate(), volume), beep.Callback(s.pending.Done)))
			return
		}
		s.logger.Warn("failed to load alert sound, using beep", "path", s.alert.Sound, "error", err)
	}

	beeper := s.beeper
	go func() {
		defer s.pending.Done()
		if err := beeper(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			s.logger.Warn("system alert failed", "error", err)
		}
	}()
}

// track registers alert work so Close waits for it. It reports false once
// the service is closed, in which case no work may start.
func (s *Service) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.pending.Add(1)
	return true
}

// alertBuffer decodes the alert sound on first use.
func (s *Service) alertBuffer() (*beep.Buffer, error) {
	s.mu.Lock()
	buffer := s.alertSound
	s.mu.Unlock()
	if buffer != nil {
		return buffer, nil
	}

	path, err := filepath.Abs(config.ExpandPath(s.alert.Sound))
	if err != nil {
		return nil, err
	}
	buffer, err = decodeFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.sink.Init(buffer.Format().SampleRate, s.audio.Buffer.Duration()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.alertSound = buffer
	s.mu.Unlock()
	return buffer, nil
}

// flash presents a screen flash using the configured method.
func (s *Service) flash() {
	method := config.FlashMethod(s.alert.Flash)
	if method == config.FlashAuto {
		method = config.FlashNotify
		if s.termIsTTY {
			method = config.FlashTerminal
		}
	}

	switch method {
	case config.FlashTerminal:
		s.flashTerminal()
	case config.FlashNotify:
		s.flashNotify()
	case config.FlashNone:
	default:
		s.logger.Debug("unknown flash method", "method", method)
	}
}

// flashTerminal toggles reverse video for the flash duration.
func (s *Service) flashTerminal() {
	if !s.track() {
		return
	}
	if err := writeString(s.term, flashOn); err != nil {
		s.pending.Done()
		s.logger.Debug("terminal flash failed", "error", err)
		return
	}
	time.AfterFunc(s.alert.FlashDuration.Duration(), func() {
		defer s.pending.Done()
		if err := writeString(s.term, flashOff); err != nil {
			s.logger.Debug("terminal flash reset failed", "error", err)
		}
	})
}

// flashNotify shows a short-lived critical notification.
func (s *Service) flashNotify() {
	n := dbus.Notification{
		AppName:       "syssound",
		Summary:       "Alert",
		Urgency:       dbus.UrgencyCritical,
		SuppressSound: true,
		Transient:     true,
		ExpireTimeout: int32(s.alert.FlashDuration.Duration().Milliseconds()),
	}
	if !s.track() {
		return
	}
	notifier := s.notifier
	go func() {
		defer s.pending.Done()
		if _, err := notifier.Notify(n); err != nil {
			s.logger.Debug("notification flash failed", "error", err)
		}
	}()
}

func writeString(w io.Writer, str string) error {
	if w == nil {
		return fmt.Errorf("no terminal")
	}
	_, err := io.WriteString(w, str)
	return err
}
