// Package theme loads the colour schemes used by the board and editor.
//
// A theme is a TOML document. The built-in ones are embedded; a custom theme
// is any file path ending in ".toml" and may name a built-in theme in
// "extends" to inherit every colour it leaves out.
package theme

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embedded embed.FS

// DefaultName is used when no theme is configured or the name is unknown.
const DefaultName = "mocha"

var builtin = []string{"mocha", "macchiato", "frappe", "latte", "light"}

// Theme holds the hex colours of one scheme.
type Theme struct {
	Name        string `toml:"name"`
	Extends     string `toml:"extends,omitempty"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // header, cards
	BgSelection string `toml:"bg_selection"` // cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // vacant periods, hints
	Accent      string `toml:"accent"`
	Lesson      string `toml:"lesson"`
	Break       string `toml:"break"`
	Current     string `toml:"current"` // live period, bell banner
	Warning     string `toml:"warning"` // conflicts

	Modal ModalColorsHex `toml:"modal"`
}

// ModalColorsHex overrides the colours of the PIN prompt and edit dialogs.
// Blank values fall back to the base colours.
type ModalColorsHex struct {
	Bg        string `toml:"bg"`
	Border    string `toml:"border"`
	Text      string `toml:"text"`
	Muted     string `toml:"muted"`
	Highlight string `toml:"highlight"`
}

// Load resolves name to a theme. Unknown built-in names fall back to
// DefaultName; a ".toml" path is read from disk and must exist.
func Load(name string) (*Theme, error) {
	if strings.HasSuffix(strings.ToLower(name), ".toml") {
		return LoadFile(name)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = DefaultName
	}
	data, err := embedded.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}
	t, err := parse(name, data)
	if err != nil {
		return nil, err
	}
	t.fill(nil)
	return t, nil
}

// LoadFile reads a custom theme. Colours it leaves blank come from the theme
// named in "extends", or from DefaultName.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading theme file: %w", err)
	}
	t, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	parent := t.Extends
	if parent == "" || strings.HasSuffix(strings.ToLower(parent), ".toml") {
		parent = DefaultName
	}
	base, err := Load(parent)
	if err != nil {
		return nil, err
	}
	t.fill(base)
	return t, nil
}

func parse(label string, data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", label, err)
	}
	for field, hex := range t.colors() {
		if *hex == "" {
			continue
		}
		if _, ok := parseRGB(*hex); !ok {
			return nil, fmt.Errorf("parsing theme %q: %s %q is not a #rrggbb colour", label, field, *hex)
		}
	}
	return &t, nil
}

// colors maps each base colour key to its field.
func (t *Theme) colors() map[string]*string {
	return map[string]*string{
		"bg":           &t.Bg,
		"bg_highlight": &t.BgHighlight,
		"bg_selection": &t.BgSelection,
		"fg":           &t.Fg,
		"fg_muted":     &t.FgMuted,
		"accent":       &t.Accent,
		"lesson":       &t.Lesson,
		"break":        &t.Break,
		"current":      &t.Current,
		"warning":      &t.Warning,
	}
}

// fill copies blank base colours from parent, then derives blank modal
// colours from the base ones.
func (t *Theme) fill(parent *Theme) {
	if parent != nil {
		own := t.colors()
		for key, src := range parent.colors() {
			if *own[key] == "" {
				*own[key] = *src
			}
		}
		t.Modal.Bg = firstSet(t.Modal.Bg, parent.Modal.Bg)
		t.Modal.Border = firstSet(t.Modal.Border, parent.Modal.Border)
		t.Modal.Text = firstSet(t.Modal.Text, parent.Modal.Text)
		t.Modal.Muted = firstSet(t.Modal.Muted, parent.Modal.Muted)
		t.Modal.Highlight = firstSet(t.Modal.Highlight, parent.Modal.Highlight)
	}

	t.Modal.Bg = firstSet(t.Modal.Bg, t.BgHighlight, t.Bg)
	t.Modal.Border = firstSet(t.Modal.Border, t.Accent)
	t.Modal.Text = firstSet(t.Modal.Text, t.Fg)
	t.Modal.Muted = firstSet(t.Modal.Muted, t.FgMuted)
	t.Modal.Highlight = firstSet(t.Modal.Highlight, t.BgSelection, t.Accent)
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available lists the built-in theme names.
func Available() []string {
	return slices.Clone(builtin)
}

// IsAvailable reports whether name is a built-in theme or a path to an
// existing theme file.
func IsAvailable(name string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".toml") {
		_, err := os.Stat(name)
		return err == nil
	}
	return slices.Contains(builtin, strings.ToLower(name))
}
