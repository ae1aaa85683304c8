// ABOUTME: Piece registration and edit wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
)

// Refs supplies the choices offered by the selects
type Refs interface {
	Clientes() []string
	Secretarias(cliente string) []string
	TiposPeca() []string
}

// WizardCompleteMsg is sent when the last step is confirmed.
// PickProof asks the root to open the proof picker before submitting.
type WizardCompleteMsg struct {
	ID        int
	Draft     app.PecaDraft
	Original  *client.Peca
	PickProof bool
}

// Editing reports whether the message finishes an edit
func (m WizardCompleteMsg) Editing() bool {
	return m.Original != nil
}

// Patch returns the fields that differ from the original piece
func (m WizardCompleteMsg) Patch() client.PecaPatch {
	var p client.PecaPatch
	if m.Original == nil {
		return p
	}
	o, d := m.Original, m.Draft
	changed := func(old, cur string) *string {
		if old == cur {
			return nil
		}
		return &cur
	}
	p.Cliente = changed(o.Cliente, d.Cliente)
	p.Secretaria = changed(o.Secretaria, d.Secretaria)
	p.TipoPeca = changed(o.TipoPeca, d.TipoPeca)
	p.NomePeca = changed(o.NomePeca, d.NomePeca)
	p.DataCriacao = changed(o.DataCriacao, d.DataCriacao)
	p.DataVeiculacao = changed(o.DataVeiculacao, d.DataVeiculacao)
	p.Observacao = changed(o.Observacao, d.Observacao)
	return p
}

// WizardCancelledMsg is sent when the wizard is cancelled
type WizardCancelledMsg struct{}

// Wizard manages the registration flow as a bubbletea model
type Wizard struct {
	refs     Refs
	original *client.Peca
	form     *huh.Form
	step     int
	width    int

	// Form field values
	cliente        string
	secretaria     string
	tipoPeca       string
	nomePeca       string
	dataCriacao    string
	dataVeiculacao string
	observacao     string
	replaceProof   bool
}

// Step names for progress indicator
var stepNames = []string{"Cliente", "Peça", "Comprovação"}

// New creates a registration wizard with today's date as creation date
func New(refs Refs, now time.Time) *Wizard {
	w := &Wizard{
		refs:        refs,
		step:        1,
		dataCriacao: now.Format(client.DateLayout),
	}
	if c := refs.Clientes(); len(c) == 1 {
		w.cliente = c[0]
	}
	w.form = w.createStep1Form()
	return w
}

// NewEdit creates a wizard pre-filled with an existing piece
func NewEdit(refs Refs, peca client.Peca) *Wizard {
	w := &Wizard{
		refs:           refs,
		original:       &peca,
		step:           1,
		cliente:        peca.Cliente,
		secretaria:     peca.Secretaria,
		tipoPeca:       peca.TipoPeca,
		nomePeca:       peca.NomePeca,
		dataCriacao:    peca.DataCriacao,
		dataVeiculacao: peca.DataVeiculacao,
		observacao:     peca.Observacao,
	}
	w.form = w.createStep1Form()
	return w
}

// Editing reports whether the wizard edits an existing piece
func (w *Wizard) Editing() bool {
	return w.original != nil
}

func options(values []string, current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(values)+1)
	found := false
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
		found = found || v == current
	}
	// keep a value that was removed from the lists after the piece was saved
	if current != "" && !found {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func required(message string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func (w *Wizard) title(step int) string {
	verb := "Cadastrar"
	if w.Editing() {
		verb = fmt.Sprintf("Editar #%d", w.original.ID)
	}
	return fmt.Sprintf("%s %s - Passo %d: %s", icons.Peca.String(), verb, step, stepNames[step-1])
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cliente").
				Description("Use ↑/↓ para escolher, Enter para confirmar").
				Options(options(w.refs.Clientes(), w.cliente)...).
				Value(&w.cliente).
				Validate(required(app.MsgSelectCliente)),
		).Title(w.title(1)),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Secretaria").
				Options(options(w.refs.Secretarias(w.cliente), w.secretaria)...).
				Value(&w.secretaria).
				Validate(required(app.MsgRequiredFields)),
			huh.NewSelect[string]().
				Title("Tipo de peça").
				Options(options(w.refs.TiposPeca(), w.tipoPeca)...).
				Value(&w.tipoPeca).
				Validate(required(app.MsgRequiredFields)),
			huh.NewInput().
				Title("Nome da peça").
				Value(&w.nomePeca).
				Validate(required(app.MsgRequiredFields)),
			huh.NewInput().
				Title("Data de criação").
				Placeholder("AAAA-MM-DD").
				CharLimit(10).
				Value(&w.dataCriacao).
				Validate(validateDate(true)),
			huh.NewInput().
				Title("Data de veiculação").
				Description("Opcional").
				Placeholder("AAAA-MM-DD").
				CharLimit(10).
				Value(&w.dataVeiculacao).
				Validate(validateDate(false)),
		).Title(w.title(2)).
			Description(w.cliente),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	proof := huh.NewConfirm().
		Title("Substituir a comprovação?").
		Affirmative("Sim").
		Negative("Não").
		Value(&w.replaceProof)
	fields := []huh.Field{
		huh.NewText().
			Title("Observação").
			Description("Opcional").
			CharLimit(500).
			Value(&w.observacao),
	}
	if w.Editing() {
		fields = append(fields, proof)
	} else {
		fields = append(fields, huh.NewNote().
			Title("Comprovação").
			Description("Ao confirmar, escolha a imagem (print) da veiculação."))
	}
	return huh.NewForm(
		huh.NewGroup(fields...).Title(w.title(3)),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return WizardCancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		return w.advanceStep()
	case huh.StateAborted:
		return w, func() tea.Msg { return WizardCancelledMsg{} }
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		if !contains(w.refs.Secretarias(w.cliente), w.secretaria) {
			w.secretaria = ""
		}
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		msg := w.Complete()
		return w, func() tea.Msg { return msg }
	}

	return w, nil
}

// Complete returns the completion message for the collected values
func (w *Wizard) Complete() WizardCompleteMsg {
	msg := WizardCompleteMsg{
		Draft: app.PecaDraft{
			Cliente:        w.cliente,
			Secretaria:     w.secretaria,
			TipoPeca:       w.tipoPeca,
			NomePeca:       strings.TrimSpace(w.nomePeca),
			DataCriacao:    w.dataCriacao,
			DataVeiculacao: w.dataVeiculacao,
			Observacao:     strings.TrimSpace(w.observacao),
		},
		Original:  w.original,
		PickProof: !w.Editing() || w.replaceProof,
	}
	if w.original != nil {
		msg.ID = w.original.ID
	}
	return msg
}

// Reopen returns to the last step, as after an abandoned proof pick
func (w *Wizard) Reopen() tea.Cmd {
	w.step = 3
	w.form = w.createStep3Form()
	return w.form.Init()
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	label := "Progresso"
	topFillWidth := max(0, width-5-lipgloss.Width(label))
	topBorder := "┌─ " + titleStyle.Render(label) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	progressLinePadded := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func validateDate(mandatory bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if mandatory {
				return errors.New(app.MsgRequiredFields)
			}
			return nil
		}
		if _, err := time.Parse(client.DateLayout, s); err != nil {
			return errors.New("use o formato AAAA-MM-DD")
		}
		return nil
	}
}
