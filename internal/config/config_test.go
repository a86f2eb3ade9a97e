package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, 100, cfg.Audio.Volume)
	assert.False(t, cfg.Audio.Muted)
	assert.Equal(t, 100*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.Equal(t, 30*time.Second, cfg.Audio.MaxDuration.Duration())
	assert.Equal(t, "auto", cfg.Alert.Flash)
	assert.Empty(t, cfg.Alert.Sound)
	assert.True(t, cfg.Watch.Enabled)
	assert.NotNil(t, cfg.Sounds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Backend, cfg.Backend)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := `
backend = "beep"

[audio]
volume = 40
muted = true
buffer = "50ms"
max_duration = "10s"

[alert]
sound = "~/sounds/alert.wav"
flash = "terminal"
flash_duration = "200ms"

[watch]
enabled = false

[sounds]
glass = "/usr/share/sounds/glass.ogg"
frog = "~/sounds/frog.wav"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "beep", cfg.Backend)
	assert.Equal(t, 40, cfg.Audio.Volume)
	assert.True(t, cfg.Audio.Muted)
	assert.Equal(t, 50*time.Millisecond, cfg.Audio.Buffer.Duration())
	assert.Equal(t, 10*time.Second, cfg.Audio.MaxDuration.Duration())
	assert.Equal(t, "~/sounds/alert.wav", cfg.Alert.Sound)
	assert.Equal(t, "terminal", cfg.Alert.Flash)
	assert.Equal(t, 200*time.Millisecond, cfg.Alert.FlashDuration.Duration())
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, "/usr/share/sounds/glass.ogg", cfg.Sounds["glass"])
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad backend", `backend = "alsa"`},
		{"volume too high", "[audio]\nvolume = 101"},
		{"bad flash", "[alert]\nflash = \"strobe\""},
		{"bad duration", "[audio]\nbuffer = \"soon\""},
		{"zero buffer", "[audio]\nbuffer = \"0s\""},
		{"malformed", "backend = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Backend = string(BackendBeep)
	cfg.Audio.Volume = 25
	cfg.Sounds["ping"] = "/tmp/ping.wav"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "beep", loaded.Backend)
	assert.Equal(t, 25, loaded.Audio.Volume)
	assert.Equal(t, "/tmp/ping.wav", loaded.Sounds["ping"])
	assert.Equal(t, cfg.Audio.Buffer, loaded.Audio.Buffer)
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/syssound/config.toml", ConfigPath())
}

func TestResolveSound(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Sounds["frog"] = "~/sounds/frog.wav"

	assert.Equal(t, filepath.Join(home, "sounds", "frog.wav"), cfg.ResolveSound("frog"))
	assert.Equal(t, "/abs/ping.wav", cfg.ResolveSound("/abs/ping.wav"))
	assert.Equal(t, filepath.Join(home, "x.wav"), cfg.ResolveSound("~/x.wav"))
}
