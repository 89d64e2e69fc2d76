package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DialogStyles styles the PIN dialog.
type DialogStyles struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Body         lipgloss.Style
	Input        lipgloss.Style
	Error        lipgloss.Style
	Note         lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
}

// Dialog is a titled box around one input line.
type Dialog struct {
	Title   string
	Input   string // rendered text input
	Error   string
	Note    string // shown only without an error
	Actions []string
	Focus   int // index into Actions
}

// RenderDialog draws d: title, input, then error or note, then actions.
func RenderDialog(d Dialog, s DialogStyles) string {
	body := s.Input.Render(d.Input)
	switch {
	case d.Error != "":
		body += "\n" + s.Error.Render(d.Error)
	case d.Note != "":
		body += "\n" + s.Note.Render(d.Note)
	}

	parts := []string{s.Title.Render(d.Title), "", s.Body.Render(body)}
	if len(d.Actions) > 0 {
		buttons := make([]string, len(d.Actions))
		for i, label := range d.Actions {
			style := s.Button
			if i == d.Focus {
				style = s.ButtonActive
			}
			buttons[i] = style.Render(label)
		}
		parts = append(parts, "", strings.Join(buttons, " "))
	}
	return s.Frame.Render(strings.Join(parts, "\n"))
}
