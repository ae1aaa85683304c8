// ABOUTME: Login modal as a bubbletea model
// ABOUTME: Collects username and password with a huh form and hands them to the root model

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
)

// SubmitMsg carries the typed credentials
type SubmitMsg struct {
	Username string
	Password string
}

// CancelledMsg is sent when the modal is dismissed
type CancelledMsg struct{}

// Form is the login modal
type Form struct {
	form     *huh.Form
	username string
	password string
	pending  bool
}

// New creates an empty login modal
func New() *Form {
	f := &Form{}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Usuário").
				Value(&f.username),
			huh.NewInput().
				Title("Senha").
				EchoMode(huh.EchoModePassword).
				Value(&f.password),
		).Title(icons.Lock.String() + " Entrar no sistema"),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Pending reports whether a submission is awaiting the backend
func (f *Form) Pending() bool {
	return f.pending
}

// Retry reopens the form after a failed attempt, keeping the username
func (f *Form) Retry() tea.Cmd {
	f.pending = false
	f.password = ""
	f.form = f.build()
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f.pending {
		return f, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.pending = true
		submit := SubmitMsg{Username: strings.TrimSpace(f.username), Password: f.password}
		return f, func() tea.Msg { return submit }
	case huh.StateAborted:
		return f, func() tea.Msg { return CancelledMsg{} }
	}
	return f, cmd
}

// View implements tea.Model
func (f *Form) View() string {
	body := f.form.View()
	if f.pending {
		body = lipgloss.JoinVertical(lipgloss.Left,
			styles.Title.Render(icons.Lock.String()+" Entrar no sistema"),
			styles.Subtitle.Render("Entrando..."),
		)
	}
	return styles.Modal.Render(body)
}
