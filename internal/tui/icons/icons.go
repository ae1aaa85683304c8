// ABOUTME: Glyphs for pieces, reference data, tabs, and toasts
// ABOUTME: Picks Nerd Font codepoints when the terminal has them, Unicode otherwise

package icons

import (
	"os"
	"strings"
	"sync"

	"github.com/markalston/gestao-pecas/internal/uistate"
)

// EnvNerdFonts forces Nerd Font glyphs on ("1"/"true") or off
const EnvNerdFonts = "GESTAO_NERD_FONTS"

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	if env := os.Getenv(EnvNerdFonts); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	if os.Getenv("NERD_FONTS") == "1" {
		return true
	}

	return false
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Domain
	Peca       = Icon{"󰈙", "▤"} // nf-md-file_document
	Cliente    = Icon{"󰒋", "▣"} // nf-md-domain
	Secretaria = Icon{"󰉋", "▢"} // nf-md-folder
	Tipo       = Icon{"󰓹", "◆"} // nf-md-tag
	Image      = Icon{"󰋩", "▧"} // nf-md-image
	Report     = Icon{"󰄭", "▁"} // nf-md-chart_line
	User       = Icon{"󰀄", "☺"} // nf-md-account
	Lock       = Icon{"󰌾", "⚿"} // nf-md-lock

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Add = Icon{"󰐕", "+"} // nf-md-plus

	// Application
	App      = Icon{"󰏗", "◈"} // nf-md-package_variant
	Settings = Icon{"󰒓", "⚙"} // nf-md-cog
)

// ForTab returns the glyph shown beside a tab label
func ForTab(t uistate.Tab) Icon {
	switch t {
	case uistate.TabCadastro:
		return Add
	case uistate.TabRelatorio:
		return Report
	case uistate.TabConfiguracao:
		return Settings
	default:
		return Peca
	}
}
