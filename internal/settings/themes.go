package settings

// Theme is the fully resolved color set applied to a page.
type Theme struct {
	Primary string
	Accent  string
	Bg      string
	Text    string
}

// themeTable maps each layout style to its default colors. Unknown styles
// resolve through the "modern" entry.
var themeTable = map[string]Theme{
	"modern": {
		Primary: "#2563eb",
		Accent:  "#f59e0b",
		Bg:      "#ffffff",
		Text:    "#1f2937",
	},
	"trust": {
		Primary: "#1e3a5f",
		Accent:  "#c9a227",
		Bg:      "#f8f9fa",
		Text:    "#212529",
	},
	"casual": {
		Primary: "#f97316",
		Accent:  "#10b981",
		Bg:      "#fffbf5",
		Text:    "#44403c",
	},
	"elegant": {
		Primary: "#4a3728",
		Accent:  "#b08d57",
		Bg:      "#faf7f2",
		Text:    "#2d2a26",
	},
}

// ResolveTheme returns the theme for a layout style with per-channel
// overrides applied. There is no blending: each of the four channels is
// either the override or the table value.
func ResolveTheme(layoutStyle string, overrides Colors) Theme {
	theme, ok := themeTable[layoutStyle]
	if !ok {
		theme = themeTable[DefaultLayoutStyle]
	}
	if overrides.Primary != "" {
		theme.Primary = overrides.Primary
	}
	if overrides.Accent != "" {
		theme.Accent = overrides.Accent
	}
	if overrides.Bg != "" {
		theme.Bg = overrides.Bg
	}
	if overrides.Text != "" {
		theme.Text = overrides.Text
	}
	return theme
}

// KnownLayoutStyle reports whether the given style has a theme table entry.
func KnownLayoutStyle(style string) bool {
	_, ok := themeTable[style]
	return ok
}
