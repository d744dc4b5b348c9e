package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/player"
	"github.com/tunebar/tunebar/internal/tui/styles"
)

// NowPlaying displays the current track and transport state
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(v player.View, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if v.Track == nil {
		content = styles.Muted.Render(placeholderFor(v))
	} else {
		content = n.renderTrack(v, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func placeholderFor(v player.View) string {
	switch v.State {
	case core.StateUninitialized:
		return "Connecting to player..."
	default:
		return "No track playing"
	}
}

func (n *NowPlaying) renderTrack(v player.View, width int) string {
	track := v.Track

	icon := styles.StatusIcon(v.State.Active())
	titleStyle := styles.Title.Width(width - 4)
	title := titleStyle.Render(track.Title)

	number := styles.Subtitle.Render(fmt.Sprintf("Track %d/%d", v.Index+1, v.Count))
	thumb := styles.Dim.Render(track.ThumbnailURL)

	// Seek bar with times on either side
	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(v.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatSeconds(v.Position), bar, formatSeconds(v.Duration))

	controls := n.renderControls(v)

	lines := []string{
		icon + " " + title,
		"  " + number,
		"  " + thumb,
		"",
		progress,
		"",
		controls,
	}
	if v.Status != "" {
		lines = append(lines, styles.Paused.Render(v.Status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *NowPlaying) renderControls(v player.View) string {
	var controls string

	controls += styles.Dim.Render("⏮ ")
	if v.State.Active() {
		controls += styles.Playing.Render("⏸")
	} else {
		controls += styles.Paused.Render("▶")
	}
	controls += styles.Dim.Render(" ⏭")

	if v.Shuffle {
		controls += "  " + styles.Highlight.Render("🔀 shuffle")
	}

	controls += "  " + volumeIndicator(v)

	return controls
}

// volumeIndicator shows the volume icon tier and slider position.
func volumeIndicator(v player.View) string {
	var icon string
	switch v.Tier() {
	case player.VolumeMutedTier:
		icon = "🔇"
	case player.VolumeLowTier:
		icon = "🔈"
	default:
		icon = "🔊"
	}
	slider := styles.ProgressBar(float64(v.Volume), 10)
	return fmt.Sprintf("%s %s %d%%", icon, slider, v.Volume)
}

func formatSeconds(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
