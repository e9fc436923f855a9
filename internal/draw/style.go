package draw

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/tomz197/neoncatch/internal/object"
)

// Style names a palette entry.
type Style uint8

const (
	StyleNone Style = iota
	StyleDim
	StyleBold
	StyleTitle
	StyleFrame
	StylePlayer
	StyleAccent
	StyleSpark
	StyleSparkDim
	StyleGain
	StyleLoss
	StyleLink

	// One style per token category, in category order.
	StyleHuman
	StyleAI
	StyleDiscord
	StyleReferral
	StyleZK
	StyleFake
	StyleSybil

	styleCount
)

// categoryColors are the neon tones of each token category.
var categoryColors = map[object.Category]lipgloss.Color{
	object.CategoryHuman:    "#34D399", // emerald
	object.CategoryAI:       "#38BDF8", // sky
	object.CategoryDiscord:  "#818CF8", // indigo
	object.CategoryReferral: "#FBBF24", // amber
	object.CategoryZK:       "#E879F9", // fuchsia
	object.CategoryFake:     "#FB7185", // rose
	object.CategorySybil:    "#EF4444", // red
}

// CategoryStyle returns the style tokens of c are drawn with.
func CategoryStyle(c object.Category) Style {
	s := StyleHuman + Style(c)
	if s < StyleHuman || s > StyleSybil {
		return StyleBold
	}
	return s
}

// Palette turns styles into escape sequences for one output.
type Palette struct {
	styles [styleCount]lipgloss.Style
	plain  [styleCount]bool
}

// NewRenderer creates a lipgloss renderer for w that detects the color
// profile from the environment, for local play.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetHasDarkBackground(true)
	return r
}

// NewRendererWithProfile creates a renderer with a fixed color profile. SSH
// sessions use it since the remote terminal cannot be queried.
func NewRendererWithProfile(w io.Writer, profile termenv.Profile) *lipgloss.Renderer {
	r := NewRenderer(w)
	r.SetColorProfile(profile)
	return r
}

// NewPalette builds every style on r.
func NewPalette(r *lipgloss.Renderer) *Palette {
	p := &Palette{}
	p.styles[StyleNone] = r.NewStyle()
	p.plain[StyleNone] = true
	p.styles[StyleDim] = r.NewStyle().Faint(true)
	p.styles[StyleBold] = r.NewStyle().Bold(true)
	p.styles[StyleTitle] = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	p.styles[StyleFrame] = r.NewStyle().Foreground(lipgloss.Color("#7C3AED"))
	p.styles[StylePlayer] = r.NewStyle().Foreground(lipgloss.Color("#F8FAFC"))
	p.styles[StyleAccent] = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#22D3EE"))
	p.styles[StyleSpark] = r.NewStyle().Foreground(lipgloss.Color("#F8FAFC"))
	p.styles[StyleSparkDim] = r.NewStyle().Foreground(lipgloss.Color("#64748B"))
	p.styles[StyleGain] = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3E635"))
	p.styles[StyleLoss] = r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F43F5E"))
	p.styles[StyleLink] = r.NewStyle().Underline(true).Foreground(lipgloss.Color("#38BDF8"))
	for c, color := range categoryColors {
		p.styles[CategoryStyle(c)] = r.NewStyle().Bold(true).Foreground(color)
	}
	return p
}

// Render wraps s in the escape sequences of style.
func (p *Palette) Render(style Style, s string) string {
	if style >= styleCount || p.plain[style] {
		return s
	}
	return p.styles[style].Render(s)
}
