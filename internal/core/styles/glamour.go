package styles

import (
	glamouransi "github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func colorHexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return nil
	}
	hex := cc.Hex()
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() glamouransi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(CurrentPalette.Foreground)
	primary := colorHexPtr(CurrentPalette.Primary)
	secondary := colorHexPtr(CurrentPalette.Secondary)
	muted := colorHexPtr(CurrentPalette.Muted)
	surface := colorHexPtr(CurrentPalette.Surface)

	cfg.Document.Color = fg
	cfg.Document.Margin = uintPtr(0)

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}

func uintPtr(v uint) *uint {
	return &v
}
