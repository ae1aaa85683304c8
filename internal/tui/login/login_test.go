// ABOUTME: Tests for the login modal
// ABOUTME: Covers cancel, submit, and retry behaviour

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEscCancels(t *testing.T) {
	f := New()
	f.Init()

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestPendingIgnoresInput(t *testing.T) {
	f := New()
	f.pending = true

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("pending modal should ignore keys")
	}
	if !strings.Contains(f.View(), "Entrando") {
		t.Error("pending modal should say it is signing in")
	}
}

func TestRetryKeepsUsername(t *testing.T) {
	f := New()
	f.username = "joao"
	f.password = "errada"
	f.pending = true

	f.Retry()

	if f.Pending() {
		t.Error("retry should clear pending")
	}
	if f.username != "joao" {
		t.Errorf("username = %q, want joao", f.username)
	}
	if f.password != "" {
		t.Error("retry should clear the password")
	}
}

func TestViewShowsTitle(t *testing.T) {
	f := New()
	f.Init()
	if !strings.Contains(f.View(), "Entrar no sistema") {
		t.Error("expected modal title")
	}
}
