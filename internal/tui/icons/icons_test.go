// ABOUTME: Tests for glyph selection
// ABOUTME: Covers the Nerd Font override and the per-tab glyphs

package icons

import (
	"testing"

	"github.com/markalston/gestao-pecas/internal/uistate"
)

func TestDetectNerdFontsOverride(t *testing.T) {
	t.Setenv(EnvNerdFonts, "true")
	if !detectNerdFonts() {
		t.Error("override true should enable Nerd Fonts")
	}

	t.Setenv(EnvNerdFonts, "0")
	t.Setenv("TERM_PROGRAM", "WezTerm")
	if detectNerdFonts() {
		t.Error("override 0 should win over terminal detection")
	}
}

func TestForTab(t *testing.T) {
	tests := []struct {
		tab  uistate.Tab
		want Icon
	}{
		{uistate.TabCadastro, Add},
		{uistate.TabListagem, Peca},
		{uistate.TabRelatorio, Report},
		{uistate.TabConfiguracao, Settings},
	}
	for _, tt := range tests {
		if got := ForTab(tt.tab); got != tt.want {
			t.Errorf("ForTab(%v) = %v, want %v", tt.tab, got, tt.want)
		}
	}
}
