package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/tui/styles"
)

// Playlist displays the selectable track list with the active track
// highlighted.
type Playlist struct {
	cursor int
	offset int
	filter string
}

// NewPlaylist creates a new Playlist component
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// SetFilter narrows the visible rows to titles containing the query.
func (p *Playlist) SetFilter(query string) {
	p.filter = strings.ToLower(query)
	p.cursor = 0
	p.offset = 0
}

// MoveUp moves the selection cursor up one row.
func (p *Playlist) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
}

// MoveDown moves the selection cursor down one row.
func (p *Playlist) MoveDown(pl *core.Playlist) {
	if p.cursor < len(p.visible(pl))-1 {
		p.cursor++
	}
}

// Selected returns the playlist index under the cursor, or -1.
func (p *Playlist) Selected(pl *core.Playlist) int {
	vis := p.visible(pl)
	if p.cursor < 0 || p.cursor >= len(vis) {
		return -1
	}
	return vis[p.cursor]
}

// visible returns the playlist indices passing the filter.
func (p *Playlist) visible(pl *core.Playlist) []int {
	out := make([]int, 0, pl.Len())
	for i := range pl.Tracks {
		if p.filter != "" && !strings.Contains(strings.ToLower(pl.Tracks[i].Title), p.filter) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Render renders the playlist panel
func (p *Playlist) Render(pl *core.Playlist, activeIdx int, loadErr error, width, height int, focused bool) string {
	title := styles.PanelTitle("Playlist", focused)

	var content string
	switch {
	case loadErr != nil:
		content = styles.ErrorText.Render("Playlist unavailable") + "\n" +
			styles.Dim.Render("Will retry on next start")
	case pl.IsEmpty():
		content = styles.Muted.Render("Loading playlist...")
	default:
		content = p.renderTracks(pl, activeIdx, width-4, height-4)
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

func (p *Playlist) renderTracks(pl *core.Playlist, activeIdx, width, maxLines int) string {
	vis := p.visible(pl)
	if len(vis) == 0 {
		return styles.Muted.Render("No matches")
	}
	if p.cursor >= len(vis) {
		p.cursor = len(vis) - 1
	}

	visibleCount := maxLines - 1
	if visibleCount < 1 {
		visibleCount = 1
	}
	if p.cursor >= p.offset+visibleCount {
		p.offset = p.cursor - visibleCount + 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}

	end := p.offset + visibleCount
	if end > len(vis) {
		end = len(vis)
	}

	var lines []string
	for row := p.offset; row < end; row++ {
		idx := vis[row]
		track := pl.Track(idx)
		line := fmt.Sprintf("%3d. %s", idx+1, truncate(track.Title, width-8))

		switch {
		case idx == activeIdx:
			line = styles.Playing.Render("♪ " + line)
		case row == p.cursor:
			line = styles.Highlight.Render("> " + line)
		default:
			line = "  " + line
		}
		lines = append(lines, line)
	}

	if end < len(vis) {
		lines = append(lines, styles.Dim.Render(fmt.Sprintf("  … %d more", len(vis)-end)))
	}

	return strings.Join(lines, "\n")
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
