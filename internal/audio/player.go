package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Sink is the output device sounds are played through.
type Sink interface {
	// Init prepares the device. Only the first call has an effect.
	Init(sampleRate beep.SampleRate, bufferSize time.Duration) error
	// SampleRate returns the rate the device was initialized with.
	SampleRate() beep.SampleRate
	// Play starts s without blocking.
	Play(s beep.Streamer)
	Close()
}

// speakerSink plays through the default audio device.
type speakerSink struct {
	mu          sync.Mutex
	logger      *slog.Logger
	initialized bool
	sampleRate  beep.SampleRate
}

// NewSpeakerSink returns a Sink backed by the beep speaker.
func NewSpeakerSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &speakerSink{
		logger:     logger,
		sampleRate: beep.SampleRate(44100),
	}
}

// Init initializes the speaker if not already done.
func (s *speakerSink) Init(sampleRate beep.SampleRate, bufferSize time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(bufferSize)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	s.sampleRate = sampleRate
	s.initialized = true
	s.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

func (s *speakerSink) SampleRate() beep.SampleRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleRate
}

func (s *speakerSink) Play(st beep.Streamer) {
	speaker.Play(st)
}

// Close stops all playback and releases the device.
func (s *speakerSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		speaker.Close()
		s.initialized = false
		s.logger.Debug("speaker closed")
	}
}

// decodeFile loads and decodes a sound file into a buffer.
func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".wav", ".wave":
		streamer, format, err = wav.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("sound file contains no samples")
	}

	return buffer, nil
}

// Length returns the playing time of the sound file at path.
func Length(path string) (time.Duration, error) {
	buffer, err := decodeFile(path)
	if err != nil {
		return 0, err
	}
	return buffer.Format().SampleRate.D(buffer.Len()), nil
}

// bufferStreamer prepares buffer for playback at sampleRate and volume (0-1).
func bufferStreamer(buffer *beep.Buffer, sampleRate beep.SampleRate, volume float64) beep.Streamer {
	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToExponent(volume),
			Silent:   volume <= 0,
		}
	}

	return streamer
}

// volumeToExponent converts a linear gain (0-1) to a base-2 exponent.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
