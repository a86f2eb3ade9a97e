package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/syssound/internal/audio"
	"github.com/jmylchreest/syssound/internal/sound"
)

var propCmd = &cobra.Command{
	Use:   "prop",
	Short: "Inspect and change sound properties",
	Long: `Inspect and change the boolean properties of a registered sound.

Properties:
  is-ui-sound                    Stay silent when sound effects are turned off
  complete-playback-if-app-dies  Keep playing after the process exits

Values set here apply to the sound registered by this command only.`,
}

var propGetCmd = &cobra.Command{
	Use:   "get <file|alias> <property>",
	Short: "Print a property value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSound(args[0], func(s *sound.Sound) error {
			p, err := sound.PropertyByName(args[1])
			if err != nil {
				return err
			}
			v, err := s.BoolProperty(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var propSetCmd = &cobra.Command{
	Use:   "set <file|alias> <property> <true|false>",
	Short: "Set a property and print the resulting value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseBool(args[2])
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[2], err)
		}
		return withSound(args[0], func(s *sound.Sound) error {
			p, err := sound.PropertyByName(args[1])
			if err != nil {
				return err
			}
			if err := s.SetBoolProperty(p, value); err != nil {
				return err
			}
			v, err := s.BoolProperty(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		})
	},
}

var propInfoCmd = &cobra.Command{
	Use:   "info <file|alias> <property>",
	Short: "Print a property's size and writability",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSound(args[0], func(s *sound.Sound) error {
			p, err := sound.PropertyByName(args[1])
			if err != nil {
				return err
			}
			info, err := s.PropertyInfo(p)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "property: %s\n", p)
			fmt.Fprintf(out, "size:     %d bytes\n", info.Size)
			fmt.Fprintf(out, "writable: %t\n", info.Writable)
			return nil
		})
	},
}

var propListCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported properties",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range sound.Properties() {
			code, _ := sound.FourCC(uint32(p))
			fmt.Fprintf(cmd.OutOrStdout(), "%-30s '%s'  %s\n", p.Name(), code, p)
		}
	},
}

func init() {
	rootCmd.AddCommand(propCmd)
	propCmd.AddCommand(propGetCmd, propSetCmd, propInfoCmd, propListCmd)
}

// withSound registers nameOrPath for the duration of fn.
func withSound(nameOrPath string, fn func(*sound.Sound) error) error {
	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc, closeTimeout)

	m := audio.NewManager(svc, cfg, logger)
	defer func() { _ = m.Close() }()

	s, err := m.Get(nameOrPath)
	if err != nil {
		return err
	}
	return fn(s)
}
