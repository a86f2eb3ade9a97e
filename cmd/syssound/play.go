package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syssound/internal/audio"
)

var playOpts struct {
	alert   bool
	wait    bool
	timeout time.Duration
}

var playCmd = &cobra.Command{
	Use:   "play <file|alias>",
	Short: "Play a sound file or configured alias",
	Long: `Register a sound and play it.

By default the sound is played fire-and-forget and marked to complete
playback after the command exits. With --wait the command blocks until the
sound finishes or the timeout expires.

Examples:
  # Play a file
  syssound play ~/sounds/frog.wav

  # Play an alias from the [sounds] table as an alert
  syssound play done --alert

  # Block until the sound has finished
  syssound play done --wait --timeout 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().BoolVarP(&playOpts.alert, "alert", "a", false,
		"Play as an alert (may also flash the screen or vibrate)")
	playCmd.Flags().BoolVarP(&playOpts.wait, "wait", "w", false,
		"Wait until the sound has finished playing")
	playCmd.Flags().DurationVar(&playOpts.timeout, "timeout", closeTimeout,
		"Maximum time to wait for the sound to finish")
}

func runPlay(cmd *cobra.Command, args []string) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc, playOpts.timeout)

	m := audio.NewManager(svc, cfg, logger)
	defer func() { _ = m.Close() }()

	if playOpts.wait {
		ctx, cancel := context.WithTimeout(cmd.Context(), playOpts.timeout)
		defer cancel()
		return m.PlayAndWait(ctx, args[0], playOpts.alert)
	}

	s, err := m.Get(args[0])
	if err != nil {
		return err
	}
	if err := s.SetCompletePlaybackIfAppDies(true); err != nil {
		logger.Debug("failed to mark sound to complete playback", "error", err)
	}

	return m.Play(args[0], playOpts.alert)
}
