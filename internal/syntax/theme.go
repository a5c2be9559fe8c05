package syntax

import "github.com/alecthomas/chroma/v2"

// Theme maps token types to foreground colours.
type Theme struct {
	Name  string
	style *chroma.Style
}

// NewTheme wraps a chroma style.
func NewTheme(style *chroma.Style) Theme {
	return Theme{Name: style.Name, style: style}
}

// Colour returns the foreground colour for tt. chroma resolves missing
// entries through the token's category and then the theme's Text entry, so
// the result is unset only when the theme defines none of them.
func (t Theme) Colour(tt chroma.TokenType) chroma.Colour {
	if t.style == nil {
		return 0
	}
	return t.style.Get(tt).Colour
}
