// ABOUTME: Tests for the piece listing screen
// ABOUTME: Validates rendering, row actions, delete confirmation, and filters

package listagem

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
)

type fakeRefs struct{}

func (fakeRefs) Clientes() []string  { return []string{"Prefeitura"} }
func (fakeRefs) TiposPeca() []string { return []string{"Post"} }

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func samplePecas() []client.Peca {
	return []client.Peca{
		{ID: 2, Cliente: "Prefeitura", Secretaria: "Saúde", TipoPeca: "Post", NomePeca: "Vacinação", DataCriacao: "2024-03-02", HasComprovacao: true},
		{ID: 1, Cliente: "Prefeitura", Secretaria: "Educação", TipoPeca: "Post", NomePeca: "Matrículas", DataCriacao: "2024-03-01"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded() *Listagem {
	l := New(fakeRefs{}, 120, 30)
	l.SetPecas(samplePecas(), now)
	return l
}

func TestViewBeforeLoadAsksForLogin(t *testing.T) {
	l := New(fakeRefs{}, 120, 30)
	if !strings.Contains(l.View(), "Faça login") {
		t.Error("expected login hint before first load")
	}
}

func TestViewListsPecas(t *testing.T) {
	l := loaded()
	view := l.View()

	for _, want := range []string{"Vacinação", "Matrículas", "2 peça(s)", "Todas as peças"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
	if !l.Updated().Equal(now) {
		t.Errorf("expected updated time %v, got %v", now, l.Updated())
	}
}

func TestEmptyResult(t *testing.T) {
	l := New(fakeRefs{}, 120, 30)
	l.SetPecas(nil, now)
	if !strings.Contains(l.View(), "Nenhuma peça encontrada") {
		t.Error("expected empty message")
	}
}

func TestRefreshEmitsFilter(t *testing.T) {
	l := loaded()
	l.filter = client.PecaFilter{Cliente: "Prefeitura"}

	cmd := l.Refresh()
	if !l.loading {
		t.Error("refresh should mark loading")
	}
	msgs := collect(cmd)
	found := false
	for _, m := range msgs {
		if r, ok := m.(RefreshMsg); ok {
			found = true
			if r.Filter.Cliente != "Prefeitura" {
				t.Errorf("unexpected filter %+v", r.Filter)
			}
		}
	}
	if !found {
		t.Error("expected RefreshMsg")
	}
}

// collect runs cmd, expanding batches, and skips spinner ticks
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c == nil {
				continue
			}
			m := c()
			if _, tick := m.(spinner.TickMsg); tick {
				continue
			}
			out = append(out, m)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestEnterShowsSelected(t *testing.T) {
	l := loaded()

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if got := cmd().(ShowMsg).ID; got != 2 {
		t.Errorf("expected piece 2, got %d", got)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	l := loaded()

	_, cmd := l.Update(keyRunes("d"))
	if cmd != nil {
		t.Fatal("delete should ask first")
	}
	if !strings.Contains(l.View(), "Tem certeza que deseja excluir esta peça?") {
		t.Error("expected confirmation prompt")
	}

	_, cmd = l.Update(keyRunes("y"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	if got := cmd().(DeleteMsg).ID; got != 2 {
		t.Errorf("expected delete of 2, got %d", got)
	}
}

func TestDeleteDeclined(t *testing.T) {
	l := loaded()
	l.Update(keyRunes("d"))

	_, cmd := l.Update(keyRunes("n"))
	if cmd != nil {
		t.Error("declined delete must not emit")
	}
	if l.confirmDelete != 0 {
		t.Error("confirmation should be cleared")
	}
}

func TestEditEmitsSelected(t *testing.T) {
	l := loaded()
	l.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := l.Update(keyRunes("e"))
	if cmd == nil {
		t.Fatal("expected edit command")
	}
	if got := cmd().(EditMsg).Peca.ID; got != 1 {
		t.Errorf("expected edit of 1, got %d", got)
	}
}

func TestDetailPane(t *testing.T) {
	l := loaded()
	proof, err := app.EncodeProof([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	if err != nil {
		t.Fatal(err)
	}
	p := samplePecas()[0]
	p.Comprovacao = proof
	l.SetDetail(&p)

	view := l.View()
	if !strings.Contains(view, "Peça #2") || !strings.Contains(view, "image/png") {
		t.Errorf("unexpected detail view:\n%s", view)
	}

	_, cmd := l.Update(keyRunes("s"))
	if cmd == nil {
		t.Fatal("expected save command")
	}
	if got := cmd().(SaveProofMsg).Peca.ID; got != 2 {
		t.Errorf("expected save of 2, got %d", got)
	}

	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.Detail() != nil {
		t.Error("esc should close the detail pane")
	}
}

func TestFilterFormEscCloses(t *testing.T) {
	l := loaded()
	l.Update(keyRunes("f"))
	if !l.InForm() {
		t.Fatal("expected filter form")
	}
	l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if l.InForm() {
		t.Error("esc should close the filter form")
	}
}

func TestClearResets(t *testing.T) {
	l := loaded()
	l.Clear()
	if l.Loaded() {
		t.Error("clear should forget the load")
	}
	if _, ok := l.Selected(); ok {
		t.Error("nothing should be selected")
	}
}

func TestDescribeFilter(t *testing.T) {
	got := describeFilter(client.PecaFilter{Cliente: "Prefeitura", DataInicio: "2024-03-01"})
	if got != "Filtro: cliente Prefeitura, de 2024-03-01 a -" {
		t.Errorf("describeFilter = %q", got)
	}
}

func TestColumnsFillWidth(t *testing.T) {
	narrow := columns(60)
	wide := columns(160)
	if wide[4].Width <= narrow[4].Width {
		t.Error("name column should absorb extra width")
	}
}
