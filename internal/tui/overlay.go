package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/horario/internal/tui/view"
)

// OverlayModel splices a modal box over the base view.
type OverlayModel struct {
	open bool
	bg   lipgloss.Color
}

// NewOverlayModel returns a closed overlay.
func NewOverlayModel(bg lipgloss.Color) OverlayModel {
	return OverlayModel{bg: bg}
}

// Open shows the overlay.
func (o *OverlayModel) Open() { o.open = true }

// Close hides the overlay.
func (o *OverlayModel) Close() { o.open = false }

// Active reports whether the overlay is visible.
func (o OverlayModel) Active() bool {
	return o.open
}

// Render centers content over base. The base is padded or cut to
// width × height first so rows line up.
func (o OverlayModel) Render(base string, width, height int, content string) string {
	if !o.open || width <= 0 || height <= 0 || content == "" {
		return base
	}

	box := strings.Split(strings.TrimRight(content, "\n"), "\n")
	boxW := 0
	for _, line := range box {
		if w := lipgloss.Width(line); w > boxW {
			boxW = w
		}
	}
	boxW = min(boxW, width)
	if len(box) > height {
		box = box[:height]
	}

	top := (height - len(box)) / 2
	left := (width - boxW) / 2

	bgSeq := ""
	if o.bg != "" {
		bgSeq = ansi.Style{}.BackgroundColor(ansi.HexColor(string(o.bg))).String()
	}

	rows := strings.Split(view.Fit(base, width, height, lipgloss.Color("")), "\n")
	for i, line := range box {
		w := lipgloss.Width(line)
		if w > boxW {
			line = ansi.Cut(line, 0, boxW)
		} else if w < boxW {
			line += strings.Repeat(" ", boxW-w)
		}
		line = bgSeq + reapplyBackground(line, bgSeq) + ansi.ResetStyle

		row := rows[top+i]
		rows[top+i] = ansi.Cut(row, 0, left) + line + ansi.Cut(row, left+boxW, width)
	}
	return strings.Join(rows, "\n")
}

// reapplyBackground restores the modal background after every reset in line.
func reapplyBackground(line, bgSeq string) string {
	if bgSeq == "" || line == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	return strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
}
