// ABOUTME: Test to verify header/footer width alignment
// ABOUTME: Ensures the frame renders at the terminal width for guests and signed-in users

package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/tui/login"
)

func assertFrameWidth(t *testing.T, view string, expectedWidth int) {
	t.Helper()
	headerFound, footerFound := false, false

	for _, line := range strings.Split(view, "\n") {
		if strings.HasPrefix(line, "╭") {
			headerFound = true
			if w := lipgloss.Width(line); w != expectedWidth {
				t.Errorf("Header width mismatch: expected %d, got %d", expectedWidth, w)
				t.Logf("Header line: %q", line)
			}
		}
		if idx := strings.Index(line, "╰"); idx >= 0 {
			footerFound = true
			if w := lipgloss.Width(line[idx:]); w != expectedWidth {
				t.Errorf("Footer width mismatch: expected %d, got %d", expectedWidth, w)
				t.Logf("Footer line: %q", line[idx:])
			}
		}
	}

	if !headerFound {
		t.Error("Header not found in output")
	}
	if !footerFound {
		t.Error("Footer not found in output")
	}
}

func TestFrameAlignment(t *testing.T) {
	widths := []int{60, 80, 100, 120}

	for _, targetWidth := range widths {
		t.Run(fmt.Sprintf("guest_%d", targetWidth), func(t *testing.T) {
			h := newHarness(t)
			h.boot()
			h.send(tea.WindowSizeMsg{Width: targetWidth, Height: 30})

			// Frame clamps to a minimum of 80 for usability
			assertFrameWidth(t, h.ui.View(), max(targetWidth, minTerminalWidth))
		})

		t.Run(fmt.Sprintf("signed_in_%d", targetWidth), func(t *testing.T) {
			h := newHarness(t)
			h.loginAdmin()
			h.send(tea.WindowSizeMsg{Width: targetWidth, Height: 30})

			assertFrameWidth(t, h.ui.View(), max(targetWidth, minTerminalWidth))
		})
	}
}

func TestHeaderShowsUserAndRole(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	header := h.ui.renderHeader()

	if !strings.Contains(header, "Gestão de Peças") {
		t.Errorf("header missing title: %q", header)
	}
	if !strings.Contains(header, "Administrador") || !strings.Contains(header, "Master") {
		t.Errorf("header missing user or role: %q", header)
	}
}

func TestFooterFollowsFocus(t *testing.T) {
	h := newHarness(t)
	h.boot()

	if footer := h.ui.renderFooter(); !strings.Contains(footer, "Entrar") {
		t.Errorf("login footer should offer Entrar: %q", footer)
	}

	h.send(login.CancelledMsg{})
	if footer := h.ui.renderFooter(); !strings.Contains(footer, "L Entrar") {
		t.Errorf("guest footer should offer login: %q", footer)
	}
}
