package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/syssound/internal/sound"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Play the user's preferred alert sound",
	Long: `Play the user's preferred alert sound.

With the beep backend this is the [alert] sound from the config file, or
the system beeper when none is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trigger(sound.PlaySystemAlert)
	},
}

var flashCmd = &cobra.Command{
	Use:   "flash",
	Short: "Flash the screen",
	Long: `Flash the screen.

With the beep backend the flash method comes from the config file: a
reverse-video terminal bell, a critical desktop notification, or auto to
pick the terminal when stderr is one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trigger(sound.FlashScreen)
	},
}

var vibrateCmd = &cobra.Command{
	Use:   "vibrate",
	Short: "Vibrate the device where supported",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return trigger(sound.Vibrate)
	},
}

func init() {
	rootCmd.AddCommand(alertCmd)
	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(vibrateCmd)
}

// trigger runs fn against a fresh service and waits for it to settle.
func trigger(fn func(sound.Service)) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc, closeTimeout)

	fn(svc)
	return nil
}
