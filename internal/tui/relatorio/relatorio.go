// ABOUTME: Report screen: filter form, summary blocks, and grouped piece lines
// ABOUTME: Scrolls the report in a viewport and asks the root to generate or export it

package relatorio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/report"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
	"github.com/markalston/gestao-pecas/internal/tui/widgets"
)

// Refs supplies the filter choices
type Refs interface {
	Clientes() []string
	Secretarias(cliente string) []string
}

// GenerateMsg asks the root to generate a report
type GenerateMsg struct {
	Filter client.RelatorioFilter
}

// ExportMsg asks the root to export the last report as PDF
type ExportMsg struct{}

// Relatorio is the report screen
type Relatorio struct {
	refs     Refs
	rel      *client.Relatorio
	viewport viewport.Model
	pending  bool

	form        *huh.Form
	fCliente    string
	fSecretaria string
	fDesde      string
	fAte        string

	width  int
	height int
}

// New creates the report screen with the filter form open
func New(refs Refs, width, height int) *Relatorio {
	r := &Relatorio{
		refs:     refs,
		viewport: viewport.New(width, max(3, height-8)),
		width:    width,
		height:   height,
	}
	r.form = r.buildForm()
	return r
}

// Init implements tea.Model
func (r *Relatorio) Init() tea.Cmd {
	if r.form != nil {
		return r.form.Init()
	}
	return nil
}

func (r *Relatorio) buildForm() *huh.Form {
	secretarias := func() []huh.Option[string] {
		opts := []huh.Option[string]{huh.NewOption("Todas", "")}
		if r.fCliente == "" {
			return opts
		}
		for _, s := range r.refs.Secretarias(r.fCliente) {
			opts = append(opts, huh.NewOption(s, s))
		}
		return opts
	}

	clientes := []huh.Option[string]{huh.NewOption("Todos os clientes", "")}
	for _, c := range r.refs.Clientes() {
		clientes = append(clientes, huh.NewOption(c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cliente").
				Options(clientes...).
				Value(&r.fCliente),
			huh.NewSelect[string]().
				Title("Secretaria").
				OptionsFunc(secretarias, &r.fCliente).
				Value(&r.fSecretaria),
			huh.NewInput().
				Title("Data início").
				Placeholder("AAAA-MM-DD").
				Value(&r.fDesde).
				Validate(optionalDate),
			huh.NewInput().
				Title("Data fim").
				Placeholder("AAAA-MM-DD").
				Value(&r.fAte).
				Validate(optionalDate),
		).Title(icons.Report.String() + " Gerar relatório"),
	).WithTheme(styles.FormTheme())
}

// SetSize updates the screen dimensions
func (r *Relatorio) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = max(3, height-8)
	if r.rel != nil {
		r.viewport.SetContent(Render(r.rel, width))
	}
}

// SetReport shows a generated report
func (r *Relatorio) SetReport(rel *client.Relatorio) {
	r.pending = false
	r.rel = rel
	r.form = nil
	r.viewport.SetContent(Render(rel, r.width))
	r.viewport.GotoTop()
}

// Failed reopens the filter form after a refused or failed generation
func (r *Relatorio) Failed() tea.Cmd {
	r.pending = false
	r.form = r.buildForm()
	return r.form.Init()
}

// Clear forgets the shown report, as after logout
func (r *Relatorio) Clear() {
	r.rel = nil
	r.pending = false
	r.form = r.buildForm()
}

// Report returns the shown report
func (r *Relatorio) Report() *client.Relatorio {
	return r.rel
}

// InForm reports whether the filter form has focus
func (r *Relatorio) InForm() bool {
	return r.form != nil && !r.pending
}

// Update implements tea.Model
func (r *Relatorio) Update(msg tea.Msg) (*Relatorio, tea.Cmd) {
	if r.pending {
		return r, nil
	}
	if r.form != nil {
		return r.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "g", "f":
			r.form = r.buildForm()
			return r, r.form.Init()
		case "p":
			return r, func() tea.Msg { return ExportMsg{} }
		}
	}

	var cmd tea.Cmd
	r.viewport, cmd = r.viewport.Update(msg)
	return r, cmd
}

func (r *Relatorio) updateForm(msg tea.Msg) (*Relatorio, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		if r.rel != nil {
			r.form = nil
		}
		return r, nil
	}

	form, cmd := r.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		r.form = f
	}

	switch r.form.State {
	case huh.StateCompleted:
		r.pending = true
		filter := client.RelatorioFilter{
			Cliente:    r.fCliente,
			Secretaria: r.fSecretaria,
			DataInicio: strings.TrimSpace(r.fDesde),
			DataFim:    strings.TrimSpace(r.fAte),
		}
		return r, func() tea.Msg { return GenerateMsg{Filter: filter} }
	case huh.StateAborted:
		r.form = r.buildForm()
		return r, r.form.Init()
	}
	return r, cmd
}

// View renders the screen
func (r *Relatorio) View() string {
	if r.pending {
		return styles.Subtitle.Render("Gerando relatório...")
	}
	if r.form != nil {
		return r.form.View()
	}
	if r.rel == nil {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		r.summary(),
		"",
		r.viewport.View(),
	)
}

// summary renders the metric blocks across the top
func (r *Relatorio) summary() string {
	cfg := widgets.DefaultMetricBlockConfig()
	cfg.Width = 24
	cliente := r.rel.Info.Cliente
	if cliente == "" {
		cliente = "Todos"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.CountBlock(icons.Peca, "Peças", r.rel.Stats.TotalPecas, "no período", cfg),
		" ",
		widgets.CountBlock(icons.Secretaria, "Secretarias", r.rel.Stats.TotalSecretarias, "com peças", cfg),
		" ",
		widgets.MetricBlock(icons.Cliente, "Cliente", cliente, report.Period(r.rel.Info), cfg),
	)
}

// Render lays out a report grouped by secretariat
func Render(rel *client.Relatorio, width int) string {
	var sb strings.Builder

	cliente := report.AllClients
	if rel.Info.Cliente != "" {
		cliente = strings.ToUpper(rel.Info.Cliente)
	}
	sb.WriteString(styles.Title.Render("ATIVIDADES DE " + cliente))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("NO MÊS DE " + report.Period(rel.Info)))
	sb.WriteString("\n")

	for _, g := range report.GroupBySecretaria(rel.Linhas) {
		total := 0
		rows := make([][]string, 0, len(g.Linhas))
		for i, l := range g.Linhas {
			total += l.Quantidade
			name := l.NomePeca
			if name == "" {
				name = report.NoName
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				l.TipoPeca,
				name,
				l.DataCriacao,
				dash(l.DataVeiculacao),
				strconv.Itoa(l.Quantidade),
			})
		}
		sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("%s - %d PEÇAS", strings.ToUpper(g.Secretaria), total)))
		sb.WriteString("\n")
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
			Headers("#", "Tipo", "Peça", "Criação", "Veiculação", "Qtd").
			Rows(rows...).
			Width(min(width, 110))
		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	sb.WriteString(widgets.StatusText(
		fmt.Sprintf("TOTAL: %d peças em %d secretaria(s)", rel.Stats.TotalPecas, rel.Stats.TotalSecretarias),
		widgets.StatusInfo))
	return sb.String()
}

func optionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(client.DateLayout, s); err != nil {
		return errors.New("use o formato AAAA-MM-DD")
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
