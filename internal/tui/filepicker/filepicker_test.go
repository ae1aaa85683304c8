// ABOUTME: Tests for the proof image picker
// ABOUTME: Validates navigation, selection, size limits, and image discovery

package filepicker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/gestao-pecas/internal/app"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWithoutImages(t *testing.T) {
	fp := New(nil, t.TempDir())

	if fp.state != stateList {
		t.Errorf("expected initial state stateList, got %d", fp.state)
	}
	if fp.listItemCount() != 1 {
		t.Errorf("expected only the path option, got %d", fp.listItemCount())
	}
}

func TestDiscoverImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.PNG", 1)
	writeFile(t, dir, "a.jpg", 1)
	writeFile(t, dir, "notes.txt", 1)
	os.Mkdir(filepath.Join(dir, "pasta.png"), 0755)

	images, err := DiscoverImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %v", images)
	}
	if filepath.Base(images[0]) != "a.jpg" {
		t.Errorf("expected sorted names, got %v", images)
	}

	missing, err := DiscoverImages(filepath.Join(dir, "nada"))
	if err != nil || len(missing) != 0 {
		t.Errorf("missing dir should be empty, got %v, %v", missing, err)
	}
}

func TestNavigateDownAndUp(t *testing.T) {
	fp := New([]string{"/a.png", "/b.png"}, "")
	fp.width = 80

	model, _ := fp.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated := model.(*FilePicker)
	if updated.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", updated.cursor)
	}

	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyUp})
	if model.(*FilePicker).cursor != 0 {
		t.Error("expected cursor back at 0")
	}
}

func TestSelectRecentFile(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "print.png", 16)

	fp := New([]string{img}, "")
	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command to be returned")
	}

	selected, ok := cmd().(FileSelectedMsg)
	if !ok {
		t.Fatalf("expected FileSelectedMsg, got %T", cmd())
	}
	if selected.Path != img || len(selected.Data) != 16 {
		t.Errorf("unexpected selection %s (%d bytes)", selected.Path, len(selected.Data))
	}
}

func TestRejectsOversizedImage(t *testing.T) {
	dir := t.TempDir()
	big := writeFile(t, dir, "grande.png", app.MaxProofSize+1)

	fp := New([]string{big}, "")
	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("oversized image must not be selected")
	}
	if !strings.Contains(fp.View(), app.MsgProofTooLarge) {
		t.Error("expected size error in view")
	}
}

func TestMissingFileShowsError(t *testing.T) {
	fp := New(nil, "")
	fp.state = stateInput
	fp.textInput.SetValue("/nao/existe.png")

	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("missing file must not be selected")
	}
	if !strings.Contains(fp.err, "não encontrado") {
		t.Errorf("unexpected error %q", fp.err)
	}
}

func TestEmptyPathShowsError(t *testing.T) {
	fp := New(nil, "")
	fp.state = stateInput

	fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if fp.err == "" {
		t.Error("expected error for empty path")
	}
}

func TestSelectEnterPath(t *testing.T) {
	fp := New([]string{"/a.png"}, "")
	fp.cursor = 1

	model, _ := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := model.(*FilePicker)
	if !updated.InInput() {
		t.Errorf("expected input state, got %d", updated.state)
	}

	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(*FilePicker).state != stateList {
		t.Error("esc should return to the list")
	}
}

func TestBrowseDirectory(t *testing.T) {
	dir := t.TempDir()
	img := writeFile(t, dir, "campanha.jpg", 8)

	fp := New(nil, dir)
	fp.cursor = 1

	model, _ := fp.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated := model.(*FilePicker)
	if updated.state != stateBrowse {
		t.Fatalf("expected browse state, got %d", updated.state)
	}
	if !strings.Contains(updated.View(), "campanha.jpg") {
		t.Error("browse view should list the image")
	}

	_, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection")
	}
	if got := cmd().(FileSelectedMsg).Path; got != img {
		t.Errorf("expected %s, got %s", img, got)
	}
}

func TestEscCancelsFromList(t *testing.T) {
	fp := New(nil, "")

	_, cmd := fp.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/print.png"); got != filepath.Join(home, "print.png") {
		t.Errorf("expandPath = %q", got)
	}
	if got := expandPath("/abs/print.png"); got != "/abs/print.png" {
		t.Errorf("expandPath = %q", got)
	}
}
