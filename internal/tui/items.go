package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// soundExtensions are the file types offered for browsing. Which of them
// play depends on the backend.
var soundExtensions = map[string]bool{
	".wav":  true,
	".wave": true,
	".ogg":  true,
	".oga":  true,
	".mp3":  true,
	".flac": true,
	".aif":  true,
	".aiff": true,
	".caf":  true,
}

// soundItem is a browsable sound file.
type soundItem struct {
	name    string // alias or file name
	path    string
	alias   bool
	size    int64
	modTime time.Time
}

func (i soundItem) Title() string {
	return i.name
}

func (i soundItem) Description() string {
	parts := make([]string, 0, 3)
	if i.alias {
		parts = append(parts, "alias")
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(i.path)), "."); ext != "" {
		parts = append(parts, ext)
	}
	if i.size > 0 {
		parts = append(parts, humanize.Bytes(uint64(i.size)))
	} else {
		parts = append(parts, "missing")
	}
	return strings.Join(parts, " · ")
}

func (i soundItem) FilterValue() string {
	return i.name + " " + i.path
}

// newSoundItem stats path; a missing file yields an item with no size.
func newSoundItem(name, path string, alias bool) soundItem {
	item := soundItem{name: name, path: path, alias: alias}
	if info, err := os.Stat(path); err == nil {
		item.size = info.Size()
		item.modTime = info.ModTime()
	}
	return item
}

// loadItems lists configured aliases in name order, followed by the sound
// files in dir. An empty dir lists aliases only.
func loadItems(dir string, aliases map[string]string) ([]soundItem, error) {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]soundItem, 0, len(names))
	for _, name := range names {
		items = append(items, newSoundItem(name, aliases[name], true))
	}

	if dir == "" {
		return items, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return items, err
	}
	for _, e := range entries {
		if e.IsDir() || !soundExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		items = append(items, newSoundItem(e.Name(), filepath.Join(dir, e.Name()), false))
	}
	return items, nil
}
