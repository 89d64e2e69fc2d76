package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRGB(t *testing.T) {
	c, ok := parseRGB("#89B4fa")
	if !ok || c != (rgb{0x89, 0xb4, 0xfa}) {
		t.Fatalf("parseRGB = %+v, %t", c, ok)
	}
	if c.hex() != "#89b4fa" {
		t.Errorf("hex() = %q", c.hex())
	}
	for _, bad := range []string{"", "89b4fa", "#89b4f", "#zzzzzz"} {
		if _, ok := parseRGB(bad); ok {
			t.Errorf("parseRGB(%q) accepted", bad)
		}
	}

	if got := (rgb{200, 20, 100}).scale(0.5, 40); got != (rgb{100, 40, 50}) {
		t.Errorf("scale = %+v", got)
	}
	if got := (rgb{0, 0, 0}).mix(rgb{200, 100, 50}, 2); got != (rgb{200, 100, 50}) {
		t.Errorf("mix clamps the ratio, got %+v", got)
	}
}

func TestNewPalette_DarkCards(t *testing.T) {
	th := &Theme{
		Bg: "#101010", BgHighlight: "#202020", BgSelection: "#303030",
		Fg: "#ffffff", FgMuted: "#aaaaaa", Accent: "#ff0000",
		Lesson: "#88aacc", Break: "#445566", Current: "#777777", Warning: "#888888",
	}
	th.fill(nil)
	p := NewPalette(th)

	if p.LessonBg != lipgloss.Color("#445566") {
		t.Errorf("LessonBg = %q, want the halved lesson colour", p.LessonBg)
	}
	if p.BreakBg != lipgloss.Color("#1e1e1e") {
		t.Errorf("BreakBg = %q, want the floored break colour", p.BreakBg)
	}
	if p.LessonBgAlt == p.LessonBg {
		t.Error("adjacent columns share a background")
	}
	if p.TextOnBreak != lipgloss.Color(th.Bg) && p.TextOnBreak != lipgloss.Color(th.Fg) {
		t.Errorf("TextOnBreak = %q", p.TextOnBreak)
	}
	if p.Modal.Bg != lipgloss.Color(th.BgHighlight) || p.Modal.Border.Dark != th.Accent {
		t.Errorf("modal fallbacks = %+v", p.Modal)
	}
	if p.Modal.Backdrop != lipgloss.Color(th.BgSelection) {
		t.Errorf("Backdrop = %q", p.Modal.Backdrop)
	}
}

func TestNewPalette_LightThemeWashesCards(t *testing.T) {
	th, err := Load("light")
	if err != nil {
		t.Fatal(err)
	}
	p := NewPalette(th)

	if mustRGB(string(p.LessonBg)).luminance() <= mustRGB(th.Lesson).luminance() {
		t.Errorf("LessonBg %q should be lighter than %q", p.LessonBg, th.Lesson)
	}
	if mustRGB(string(p.LessonBgAlt)).luminance() >= mustRGB(string(p.LessonBg)).luminance() {
		t.Errorf("LessonBgAlt %q should be darker than LessonBg on light themes", p.LessonBgAlt)
	}
}

func TestNewPalette_NilUsesDefault(t *testing.T) {
	if p := NewPalette(nil); p.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want the mocha background", p.Bg)
	}
}

func TestReadableOn(t *testing.T) {
	if got := readableOn("#f0f0f0", "#ffffff", "#111111"); got != "#111111" {
		t.Errorf("readableOn light background = %q", got)
	}
	if got := readableOn("#101010", "#ffffff", "#111111"); got != "#ffffff" {
		t.Errorf("readableOn dark background = %q", got)
	}
}
