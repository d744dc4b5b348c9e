// Package tui renders the mini player in the terminal. The model holds
// no playback state of its own: every frame is a projection of the
// controller's View.
package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tunebar/tunebar/internal/player"
	"github.com/tunebar/tunebar/internal/tui/components"
	"github.com/tunebar/tunebar/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelPlaylist
)

const seekStepSeconds = 5

// changedMsg is sent by the controller's on-change hook.
type changedMsg struct{}

// Model is the main TUI model
type Model struct {
	ctrl         *player.Controller
	width        int
	height       int
	focusedPanel Panel

	view player.View

	nowPlaying   *components.NowPlaying
	playlistView *components.Playlist

	filterInput textinput.Model
	filtering   bool

	showHelp bool
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctrl *player.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter tracks..."
	ti.CharLimit = 64
	ti.Width = 30

	return Model{
		ctrl:         ctrl,
		focusedPanel: PanelNowPlaying,
		view:         ctrl.View(),
		nowPlaying:   components.NewNowPlaying(),
		playlistView: components.NewPlaylist(),
		filterInput:  ti,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case changedMsg:
		m.view = m.ctrl.View()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "esc":
			m.filtering = false
			m.filterInput.SetValue("")
			m.playlistView.SetFilter("")
			return m, nil
		case "enter":
			m.filtering = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.playlistView.SetFilter(m.filterInput.Value())
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.SaveNow()
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "tab":
		if m.focusedPanel == PanelNowPlaying {
			m.focusedPanel = PanelPlaylist
		} else {
			m.focusedPanel = PanelNowPlaying
		}
		return m, nil

	case " ", "p":
		m.ctrl.TogglePlay()
	case "n":
		m.ctrl.Next()
	case "b":
		m.ctrl.Previous()
	case "s":
		m.ctrl.ToggleShuffle()
	case "m":
		m.ctrl.ToggleMute()
	case "+", "=":
		m.ctrl.SetVolume(m.view.Volume + 5)
	case "-":
		m.ctrl.SetVolume(m.view.Volume - 5)
	case "left":
		m.ctrl.SeekTo(m.view.Position - seekStepSeconds)
	case "right":
		m.ctrl.SeekTo(m.view.Position + seekStepSeconds)

	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// Jump to a fraction of the track, like clicking the seek bar.
		d, _ := strconv.Atoi(msg.String())
		m.ctrl.SeekFraction(float64(d) / 10)

	case "/":
		m.focusedPanel = PanelPlaylist
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "up", "k":
		if m.focusedPanel == PanelPlaylist {
			m.playlistView.MoveUp()
		}
	case "down", "j":
		if m.focusedPanel == PanelPlaylist {
			m.playlistView.MoveDown(m.view.PlaylistRef)
		}
	case "enter":
		if m.focusedPanel == PanelPlaylist {
			if idx := m.playlistView.Selected(m.view.PlaylistRef); idx >= 0 {
				m.ctrl.PlayTrack(idx)
			}
		}
	}

	m.view = m.ctrl.View()
	return m, nil
}

// View renders the interface
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	npHeight := 12
	plHeight := m.height - npHeight - 4
	if plHeight < 5 {
		plHeight = 5
	}

	nowPlaying := m.nowPlaying.Render(m.view, m.width-2, npHeight, m.focusedPanel == PanelNowPlaying)
	playlist := m.playlistView.Render(
		m.view.PlaylistRef, m.view.Index, m.view.PlaylistErr,
		m.width-2, plHeight, m.focusedPanel == PanelPlaylist,
	)

	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left,
		nowPlaying,
		playlist,
		footer,
	)
}

func (m Model) renderFooter() string {
	if m.showHelp {
		return styles.Dim.Render(
			" space play/pause • n next • b prev • s shuffle • m mute • +/- volume\n" +
				" ←/→ seek • 0-9 jump • / filter • tab focus • enter play selected • q quit")
	}
	if m.filtering {
		return " " + m.filterInput.View()
	}
	return styles.Dim.Render(" ? help • q quit")
}

// Run starts the TUI and blocks until it exits. Controller changes
// repaint the screen through the on-change hook.
func Run(ctrl *player.Controller) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	ctrl.SetOnChange(func() {
		p.Send(changedMsg{})
	})
	defer ctrl.SetOnChange(nil)

	_, err := p.Run()
	return err
}
