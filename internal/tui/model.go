// Package tui provides the BubbleTea-based sound browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/syssound/internal/sound"
)

// Player registers and plays sounds by alias or path.
type Player interface {
	Get(nameOrPath string) (*sound.Sound, error)
	PlayAndWait(ctx context.Context, nameOrPath string, alert bool) error
}

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeInfo
	ModeHelp
)

// playTimeout bounds how long the browser waits for a completion.
const playTimeout = time.Minute

// Model is the main TUI model.
type Model struct {
	player  Player
	dir     string
	aliases map[string]string

	mode Mode

	// Components
	list     list.Model
	viewport viewport.Model
	help     help.Model

	// State
	selected *soundItem
	playing  map[string]int // path -> plays in flight
	width    int
	height   int
	ready    bool

	keys KeyMap

	statusMsg string
	statusErr bool
}

// soundDelegate marks sounds that are currently playing.
type soundDelegate struct {
	list.DefaultDelegate
	playing map[string]int
}

func newSoundDelegate(playing map[string]int) soundDelegate {
	return soundDelegate{DefaultDelegate: list.NewDefaultDelegate(), playing: playing}
}

// Render renders a list item with a marker for sounds in flight.
func (d soundDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(soundItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	titleStyle := d.DefaultDelegate.Styles.NormalTitle
	descStyle := d.DefaultDelegate.Styles.NormalDesc
	if isSelected {
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	}
	if si.size == 0 {
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	title := si.Title()
	if d.playing[si.path] > 0 {
		title = "♪ " + title
	}
	if itemWidth > 0 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}

	desc := si.Description()
	if itemWidth > 0 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a browser over the sound files in dir and the given aliases.
func New(player Player, dir string, aliases map[string]string) Model {
	playing := make(map[string]int)

	l := list.New(nil, newSoundDelegate(playing), 0, 0)
	l.Title = "Sounds"
	if dir != "" {
		l.Title = "Sounds in " + dir
	}
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return Model{
		player:  player,
		dir:     dir,
		aliases: aliases,
		mode:    ModeList,
		list:    l,
		help:    help.New(),
		playing: playing,
		keys:    DefaultKeyMap(),
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return m.loadSounds
}

type loadedMsg struct {
	items []soundItem
	err   error
}

// loadSounds scans the directory and aliases.
func (m Model) loadSounds() tea.Msg {
	items, err := loadItems(m.dir, m.aliases)
	return loadedMsg{items: items, err: err}
}

// playFinishedMsg reports the end of a play started from the browser.
type playFinishedMsg struct {
	item soundItem
	err  error
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case loadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			items[i] = it
		}
		cmd := m.list.SetItems(items)
		if msg.err != nil {
			return m, tea.Batch(cmd, m.setStatus("Scan failed: "+msg.err.Error(), true))
		}
		return m, cmd

	case playFinishedMsg:
		if m.playing[msg.item.path] > 1 {
			m.playing[msg.item.path]--
		} else {
			delete(m.playing, msg.item.path)
		}
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("%s: %v", msg.item.name, msg.err), true)
		}
		return m, m.setStatus("Finished "+msg.item.name, false)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, m.setStatus("Copy failed: "+msg.err.Error(), true)
		}
		return m, m.setStatus("Copied path to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeInfo:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) setStatus(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing a filter takes every key.
	if m.mode == ModeList && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeInfo:
		return m.handleInfoKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(soundItem)

	switch {
	case key.Matches(msg, m.keys.Play):
		if ok {
			return m.play(item, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Alert):
		if ok {
			return m.play(item, true)
		}
		return m, nil

	case key.Matches(msg, m.keys.Info):
		if ok {
			m.selected = &item
			m.mode = ModeInfo
			m.viewport.SetContent(m.renderInfo(item))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleUI):
		if ok {
			return m, m.toggle(item, sound.PropertyIsUISound)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleLinger):
		if ok {
			return m, m.toggle(item, sound.PropertyCompletePlaybackIfAppDies)
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if ok {
			return m, copyToClipboard(item.path)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadSounds
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleInfoKey handles keys in info mode.
func (m Model) handleInfoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Info):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Play):
		if m.selected != nil {
			return m.play(*m.selected, false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Alert):
		if m.selected != nil {
			return m.play(*m.selected, true)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleUI), key.Matches(msg, m.keys.ToggleLinger):
		if m.selected == nil {
			return m, nil
		}
		p := sound.PropertyIsUISound
		if key.Matches(msg, m.keys.ToggleLinger) {
			p = sound.PropertyCompletePlaybackIfAppDies
		}
		cmd := m.toggle(*m.selected, p)
		m.viewport.SetContent(m.renderInfo(*m.selected))
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// play starts item and returns a command that waits for its completion.
func (m Model) play(item soundItem, alert bool) (tea.Model, tea.Cmd) {
	m.playing[item.path]++
	m.statusMsg = "Playing " + item.name
	m.statusErr = false

	player := m.player
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		return playFinishedMsg{item: item, err: player.PlayAndWait(ctx, item.path, alert)}
	}
}

// toggle flips a boolean property on the sound for item.
func (m Model) toggle(item soundItem, p sound.Property) tea.Cmd {
	s, err := m.player.Get(item.path)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	v, err := s.BoolProperty(p)
	if err == nil {
		err = s.SetBoolProperty(p, !v)
	}
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	return m.setStatus(fmt.Sprintf("%s: %s", p, onOff(!v)), false)
}

// renderInfo renders the info view for a sound.
func (m Model) renderInfo(item soundItem) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	s := headerStyle.Render(item.name) + "\n\n"
	s += labelStyle.Render("Path: ") + item.path + "\n"
	if item.size > 0 {
		s += labelStyle.Render("Size: ") + humanize.Bytes(uint64(item.size)) + "\n"
		s += labelStyle.Render("Modified: ") + humanize.Time(item.modTime) + "\n"
	}

	snd, err := m.player.Get(item.path)
	if err != nil {
		s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(err.Error()) + "\n"
		return s
	}

	s += labelStyle.Render("Sound ID: ") + fmt.Sprintf("%d", uint32(snd.ID())) + "\n\n"
	s += labelStyle.Render("Properties:") + "\n"
	for _, p := range sound.Properties() {
		v, err := snd.BoolProperty(p)
		value := onOff(v)
		if err != nil {
			value = err.Error()
		}
		s += fmt.Sprintf("  %s: %s\n", p, value)
	}
	return s
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeInfo:
		return m.viewInfo()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, "list")
	}

	return s
}

func (m Model) viewInfo() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Sound Info")

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, "info")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += keyStyle.Render("  /") + "            Filter\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  enter") + "        Play sound\n"
	s += keyStyle.Render("  a") + "            Play as alert\n"
	s += keyStyle.Render("  i") + "            Show sound info\n"
	s += keyStyle.Render("  u") + "            Toggle UI sound\n"
	s += keyStyle.Render("  l") + "            Toggle complete playback if app dies\n"
	s += keyStyle.Render("  c") + "            Copy path to clipboard\n"
	s += keyStyle.Render("  r") + "            Rescan directory\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
// mode determines which keybinds are shown: "list" or "info".
func (m Model) buildKeybindBar(width int, mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind

	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit", 1},
			{"enter", "play", 2},
			{"a", "alert", 3},
			{"?", "help", 4},
			{"/", "filter", 5},
			{"i", "info", 6},
			{"c", "copy", 7},
			{"r", "rescan", 8},
		}
	case "info":
		binds = []keybind{
			{"q", "quit", 1},
			{"esc", "back", 2},
			{"enter", "play", 3},
			{"u", "ui sound", 4},
			{"l", "complete playback", 5},
		}
	}

	const separator = "  "
	result := ""
	plain := 0
	for _, b := range binds {
		item := keyStyle.Render(b.key) + " " + b.desc
		n := len(b.key) + 1 + len(b.desc)
		testLen := plain + n
		if plain > 0 {
			testLen += len(separator)
		}

		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
		plain = testLen
	}

	return style.Render(result)
}

// Run starts the browser and blocks until it exits.
func Run(player Player, dir string, aliases map[string]string) error {
	p := tea.NewProgram(New(player, dir, aliases), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
