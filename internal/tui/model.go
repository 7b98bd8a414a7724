package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/juststeveking/pingtray/internal/monitor"
)

// Info describes what is being monitored, for the header
type Info struct {
	Target    string
	Method    string
	Interval  time.Duration
	Threshold time.Duration
}

// Model represents the terminal dashboard state
type Model struct {
	info     Info
	state    monitor.DisplayState
	width    int
	height   int
	now      time.Time
	quitting bool
	onQuit   func()
	spinner  spinner.Model
	keys     keyMap
	help     help.Model
}

type keyMap struct {
	Quit key.Binding
	Help key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// NewModel creates a new dashboard model showing the placeholder state.
// onQuit is called once when the user quits.
func NewModel(info Info, onQuit func()) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(colorChecking)

	return Model{
		info:    info,
		state:   monitor.Placeholder(info.Target),
		now:     time.Now(),
		onQuit:  onQuit,
		spinner: s,
		keys:    defaultKeys(),
		help:    help.New(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		doTick(),
	)
}

// stateMsg wraps a published display state for Bubble Tea
type stateMsg monitor.DisplayState

// tickMsg is sent on every tick
type tickMsg time.Time

// doTick returns a command that waits for the next tick
func doTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
