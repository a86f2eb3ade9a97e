package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/syssound/internal/audio"
	"github.com/jmylchreest/syssound/internal/sound"
)

var infoOpts struct {
	format string
}

// soundInfo describes one sound file as registered with the service.
type soundInfo struct {
	Name       string          `json:"name" yaml:"name"`
	Path       string          `json:"path" yaml:"path"`
	Size       int64           `json:"size" yaml:"size"`
	Modified   time.Time       `json:"modified" yaml:"modified"`
	Length     time.Duration   `json:"length_ns,omitempty" yaml:"length,omitempty"`
	ID         uint32          `json:"id,omitempty" yaml:"id,omitempty"`
	Properties map[string]bool `json:"properties,omitempty" yaml:"properties,omitempty"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info <file|alias>...",
	Short: "Describe sound files",
	Long: `Register each sound and print its size, length, ID and properties.

A sound that cannot be registered is still listed, with the error.

Examples:
  syssound info ~/sounds/*.wav
  syssound info done --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().StringVarP(&infoOpts.format, "format", "f", "text",
		"Output format (text, json, yaml)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	switch infoOpts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q, must be one of: text, json, yaml", infoOpts.format)
	}

	svc, err := openService()
	if err != nil {
		return err
	}
	defer closeService(svc, closeTimeout)

	m := audio.NewManager(svc, cfg, logger)
	defer func() { _ = m.Close() }()

	infos := make([]soundInfo, 0, len(args))
	for _, arg := range args {
		infos = append(infos, describe(m, arg))
	}

	return writeInfo(cmd.OutOrStdout(), infos, infoOpts.format)
}

// describe gathers what is known about nameOrPath. Errors are recorded in the
// result rather than returned.
func describe(m *audio.Manager, nameOrPath string) soundInfo {
	path := cfg.ResolveSound(nameOrPath)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	info := soundInfo{Name: nameOrPath, Path: path}

	fi, err := os.Stat(path)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Size = fi.Size()
	info.Modified = fi.ModTime()

	if length, err := audio.Length(path); err == nil {
		info.Length = length
	} else {
		logger.Debug("could not measure sound length", "path", path, "error", err)
	}

	s, err := m.Get(nameOrPath)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.ID = uint32(s.ID())
	info.Properties = make(map[string]bool)
	for _, p := range sound.Properties() {
		v, err := s.BoolProperty(p)
		if err != nil {
			logger.Debug("failed to read property", "property", p.Name(), "error", err)
			continue
		}
		info.Properties[p.Name()] = v
	}
	return info
}

// writeInfo renders infos in the given format.
func writeInfo(w io.Writer, infos []soundInfo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(infos)
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", info.Name)
		fmt.Fprintf(w, "  path:     %s\n", info.Path)
		if info.Size > 0 {
			fmt.Fprintf(w, "  size:     %s\n", humanize.Bytes(uint64(info.Size)))
			fmt.Fprintf(w, "  modified: %s\n", humanize.Time(info.Modified))
		}
		if info.Length > 0 {
			fmt.Fprintf(w, "  length:   %s\n", info.Length.Round(time.Millisecond))
		}
		if info.ID != 0 {
			fmt.Fprintf(w, "  id:       %d\n", info.ID)
			for _, p := range sound.Properties() {
				if v, ok := info.Properties[p.Name()]; ok {
					fmt.Fprintf(w, "  %s: %t\n", p.Name(), v)
				}
			}
		}
		if info.Error != "" {
			fmt.Fprintf(w, "  error:    %s\n", info.Error)
		}
	}
	return nil
}
