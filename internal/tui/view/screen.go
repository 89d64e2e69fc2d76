// Package view lays out the board screen: header, body, footer and the
// dialog drawn over them.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterLines is the height reserved for the footer.
const FooterLines = 3

// Overlay draws a dialog over a finished frame.
type Overlay interface {
	Render(base string, width, height int, content string) string
}

// Footer holds the bottom lines. Input is only set while editing a cell.
type Footer struct {
	Input  string
	Status string
	Help   string
}

// Screen is one frame of the board.
type Screen struct {
	Width  int
	Height int
	Bg     lipgloss.Color

	Banner   string // bell banner, pre-styled, shown above the header
	BannerBg lipgloss.Color
	Header   string
	Body     string
	Footer   Footer

	Dialog  string // drawn through Overlay when set
	Overlay Overlay
}

// Compose lays s out to exactly Width × Height cells. Before the first
// resize it returns a placeholder.
func Compose(s Screen) string {
	if s.Width <= 0 || s.Height <= 0 {
		return "Carregando..."
	}

	var parts []string
	if s.Banner != "" {
		parts = append(parts, Fit(s.Banner, s.Width, 1, s.BannerBg))
	}
	parts = append(parts, Fit(s.Header, s.Width, 1, s.Bg), Fit("", s.Width, 1, s.Bg))

	bodyH := max(s.Height-len(parts)-FooterLines, 1)
	parts = append(parts,
		Place(s.Body, s.Width, bodyH, lipgloss.Top, s.Bg),
		s.Footer.render(s.Width, s.Bg),
	)

	frame := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if s.Dialog != "" && s.Overlay != nil {
		return s.Overlay.Render(frame, s.Width, s.Height, s.Dialog)
	}
	return frame
}

func (f Footer) render(width int, bg lipgloss.Color) string {
	lines := make([]string, 0, FooterLines)
	if f.Input != "" {
		lines = append(lines, f.Input)
	}
	lines = append(lines, f.Status, f.Help)
	return Place(strings.Join(lines, "\n"), width, FooterLines, lipgloss.Bottom, bg)
}

// Place aligns content vertically in a w × h box filled with bg.
func Place(content string, w, h int, vAlign lipgloss.Position, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content, lipgloss.WithWhitespaceBackground(bg))
	return Fit(placed, w, h, bg)
}

// Fit pads or cuts content to exactly width × height cells.
func Fit(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	fill := lipgloss.NewStyle().Background(bg)
	for i, line := range lines {
		switch w := lipgloss.Width(line); {
		case w > width:
			lines[i] = ansi.Cut(line, 0, width)
		case w < width:
			lines[i] = line + fill.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
