// ABOUTME: Tests for badge and metric block widgets
// ABOUTME: Checks level mapping and fixed-width block rendering

package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
)

func TestLevelFromToast(t *testing.T) {
	tests := []struct {
		level permissions.ToastLevel
		want  StatusLevel
	}{
		{permissions.ToastSuccess, StatusOK},
		{permissions.ToastError, StatusCritical},
		{permissions.ToastInfo, StatusInfo},
	}
	for _, tt := range tests {
		if got := LevelFromToast(tt.level); got != tt.want {
			t.Errorf("LevelFromToast(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestRoleBadgeShowsLabel(t *testing.T) {
	out := RoleBadge("Master", permissions.RoleMaster, true)
	if !strings.Contains(out, "Master") {
		t.Errorf("expected label in badge, got %q", out)
	}
	out = RoleBadge("intruso", permissions.Role("intruso"), true)
	if !strings.Contains(out, "intruso") {
		t.Errorf("expected raw role in badge, got %q", out)
	}
}

func TestMetricBlockLinesHaveEqualWidth(t *testing.T) {
	cfg := DefaultMetricBlockConfig()
	cfg.Width = 24
	block := CountBlock(icons.Peca, "Peças", 42, "no período", cfg)

	lines := strings.Split(block, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	for i, line := range lines[1:] {
		if w := lipgloss.Width(line); w != cfg.Width {
			t.Errorf("line %d width = %d, want %d: %q", i+1, w, cfg.Width, line)
		}
	}
	if !strings.Contains(block, "42") {
		t.Error("expected count in block")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Secretaria de Educação", 10); got != "Secreta..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("curto", 10); got != "curto" {
		t.Errorf("truncate = %q", got)
	}
}
