package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/syssound/internal/audio"
	"github.com/jmylchreest/syssound/internal/config"
	"github.com/jmylchreest/syssound/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [dir]",
	Short: "Browse and play sounds interactively",
	Long: `Launch a terminal browser over the sound files in a directory and the
aliases from the config file.

Key bindings:
  j/k, ↑/↓    Navigate list
  enter       Play sound
  a           Play as alert
  i           Show sound ID and properties
  u           Toggle is-ui-sound
  l           Toggle complete-playback-if-app-dies
  c           Copy path to clipboard
  /           Filter
  r           Rescan directory
  ?           Show help
  q           Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = config.ExpandPath(args[0])
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc, closeTimeout)

	m := audio.NewManager(svc, cfg, logger)
	defer func() { _ = m.Close() }()

	return tui.Run(m, dir, cfg.Sounds)
}
