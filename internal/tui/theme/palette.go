package theme

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the lipgloss colours the board renders with, including the
// card backgrounds derived from the theme's accent colours.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Lesson      lipgloss.Color
	Break       lipgloss.Color
	Current     lipgloss.Color
	Warning     lipgloss.Color

	LessonBg    lipgloss.Color // even columns
	LessonBgAlt lipgloss.Color // odd columns
	BreakBg     lipgloss.Color
	EmptyBg     lipgloss.Color // vacant period or class without lessons

	TextOnAccent  lipgloss.Color
	TextOnWarning lipgloss.Color
	TextOnCurrent lipgloss.Color
	TextOnLesson  lipgloss.Color
	TextOnBreak   lipgloss.Color

	Modal ModalColors
}

// ModalColors holds the dialog colours.
type ModalColors struct {
	Bg          lipgloss.Color
	Border      lipgloss.AdaptiveColor
	Text        lipgloss.AdaptiveColor
	Muted       lipgloss.AdaptiveColor
	Highlight   lipgloss.AdaptiveColor
	Panel       lipgloss.AdaptiveColor
	ReverseText lipgloss.AdaptiveColor
	Backdrop    lipgloss.Color
}

// NewPalette derives a Palette from t. A nil theme means DefaultName.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	bg := mustRGB(t.Bg)
	light := bg.luminance() > 0.55

	lessonBg := cardShade(mustRGB(t.Lesson), bg, light, 0.50, 40, 0.75)
	breakBg := cardShade(mustRGB(t.Break), bg, light, 0.30, 30, 0.88)
	emptyBg := cardShade(mustRGB(t.FgMuted), bg, light, 0.30, 30, 0.88)
	lessonBgAlt := lessonBg.mix(rgb{255, 255, 255}, 0.30)
	if light {
		lessonBgAlt = lessonBg.mix(rgb{}, 0.10)
	}

	panel := firstSet(t.BgSelection, t.BgHighlight, t.Bg)
	readable := func(on string) lipgloss.Color {
		return lipgloss.Color(readableOn(on, t.Bg, t.Fg))
	}

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Lesson:      lipgloss.Color(t.Lesson),
		Break:       lipgloss.Color(t.Break),
		Current:     lipgloss.Color(t.Current),
		Warning:     lipgloss.Color(t.Warning),

		LessonBg:    lipgloss.Color(lessonBg.hex()),
		LessonBgAlt: lipgloss.Color(lessonBgAlt.hex()),
		BreakBg:     lipgloss.Color(breakBg.hex()),
		EmptyBg:     lipgloss.Color(emptyBg.hex()),

		TextOnAccent:  readable(t.Accent),
		TextOnWarning: readable(t.Warning),
		TextOnCurrent: readable(t.Current),
		TextOnLesson:  readable(lessonBg.hex()),
		TextOnBreak:   readable(breakBg.hex()),

		Modal: ModalColors{
			Bg:          lipgloss.Color(t.Modal.Bg),
			Border:      fixed(t.Modal.Border),
			Text:        fixed(t.Modal.Text),
			Muted:       fixed(t.Modal.Muted),
			Highlight:   fixed(t.Modal.Highlight),
			Panel:       fixed(panel),
			ReverseText: lipgloss.AdaptiveColor{Dark: t.Modal.Bg, Light: t.Modal.Text},
			Backdrop:    lipgloss.Color(panel),
		},
	}
}

// cardShade darkens accent on dark themes (scaled by factor, clamped at
// floor) and washes it toward bg on light ones.
func cardShade(accent, bg rgb, light bool, factor float64, floor uint8, wash float64) rgb {
	if light {
		return accent.mix(bg, wash)
	}
	return accent.scale(factor, floor)
}

func fixed(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

// readableOn picks whichever of a or b contrasts more with bg.
func readableOn(bg, a, b string) string {
	back := mustRGB(bg)
	if contrast(back, mustRGB(a)) >= contrast(back, mustRGB(b)) {
		return a
	}
	return b
}

type rgb struct{ r, g, b uint8 }

func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// mustRGB parses hex, treating anything malformed as black.
func mustRGB(hex string) rgb {
	c, _ := parseRGB(hex)
	return c
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

func (c rgb) scale(factor float64, floor uint8) rgb {
	ch := func(v uint8) uint8 {
		return max(uint8(float64(v)*factor), floor)
	}
	return rgb{ch(c.r), ch(c.g), ch(c.b)}
}

// mix moves c toward o by ratio, clamped to [0, 1].
func (c rgb) mix(o rgb, ratio float64) rgb {
	ratio = math.Min(math.Max(ratio, 0), 1)
	ch := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-ratio) + float64(b)*ratio)
	}
	return rgb{ch(c.r, o.r), ch(c.g, o.g), ch(c.b, o.b)}
}

// luminance is the WCAG relative luminance.
func (c rgb) luminance() float64 {
	lin := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.04045 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

func contrast(a, b rgb) float64 {
	la, lb := a.luminance(), b.luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
