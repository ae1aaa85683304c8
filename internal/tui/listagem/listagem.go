// ABOUTME: Piece listing screen with filters, detail pane, and row actions
// ABOUTME: Renders pieces in a bubbles table; the root model performs the requests

package listagem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
	"github.com/markalston/gestao-pecas/internal/tui/widgets"
)

// Refs supplies the filter choices
type Refs interface {
	Clientes() []string
	TiposPeca() []string
}

// RefreshMsg asks the root to load pieces matching Filter
type RefreshMsg struct {
	Filter client.PecaFilter
}

// ShowMsg asks the root to fetch a piece with its proof
type ShowMsg struct {
	ID int
}

// EditMsg asks the root to open the edit wizard
type EditMsg struct {
	Peca client.Peca
}

// DeleteMsg asks the root to delete a confirmed piece
type DeleteMsg struct {
	ID int
}

// SaveProofMsg asks the root to write the proof of Peca to disk
type SaveProofMsg struct {
	Peca client.Peca
}

// Listagem displays registered pieces
type Listagem struct {
	refs    Refs
	table   table.Model
	spinner spinner.Model
	pecas   []client.Peca
	filter  client.PecaFilter
	loading bool
	loaded  bool
	updated time.Time

	filterForm *huh.Form
	fCliente   string
	fTipo      string
	fSecret    string
	fDesde     string
	fAte       string

	detail        *client.Peca
	confirmDelete int

	width  int
	height int
}

// New creates an empty listing
func New(refs Refs, width, height int) *Listagem {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(3, height-6)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	return &Listagem{
		refs:    refs,
		table:   t,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   width,
		height:  height,
	}
}

// columns sizes the table to width, giving the slack to the piece name
func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Cliente", Width: 14},
		{Title: "Secretaria", Width: 14},
		{Title: "Tipo", Width: 10},
		{Title: "Peça", Width: 20},
		{Title: "Criação", Width: 10},
		{Title: "Veiculação", Width: 10},
		{Title: "Comp.", Width: 5},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if extra := width - used; extra > 0 {
		cols[4].Width += extra
	}
	return cols
}

// SetSize updates the listing dimensions
func (l *Listagem) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.table.SetColumns(columns(width))
	l.table.SetHeight(max(3, height-6))
}

// Refresh starts a reload with the current filter
func (l *Listagem) Refresh() tea.Cmd {
	l.loading = true
	filter := l.filter
	return tea.Batch(l.spinner.Tick, func() tea.Msg { return RefreshMsg{Filter: filter} })
}

// SetPecas replaces the listed pieces
func (l *Listagem) SetPecas(pecas []client.Peca, now time.Time) {
	l.loading = false
	l.loaded = true
	l.updated = now
	l.pecas = pecas
	rows := make([]table.Row, 0, len(pecas))
	for _, p := range pecas {
		rows = append(rows, table.Row{
			strconv.Itoa(p.ID),
			p.Cliente,
			p.Secretaria,
			p.TipoPeca,
			p.NomePeca,
			p.DataCriacao,
			dash(p.DataVeiculacao),
			proofMark(p),
		})
	}
	l.table.SetRows(rows)
	if l.table.Cursor() >= len(rows) {
		l.table.SetCursor(max(0, len(rows)-1))
	}
}

// LoadFailed stops the spinner after a failed reload
func (l *Listagem) LoadFailed() {
	l.loading = false
}

// Clear drops every listed piece, as after logout
func (l *Listagem) Clear() {
	l.pecas = nil
	l.detail = nil
	l.loaded = false
	l.confirmDelete = 0
	l.table.SetRows(nil)
}

// SetDetail shows the detail pane for peca
func (l *Listagem) SetDetail(peca *client.Peca) {
	l.detail = peca
}

// Detail returns the piece shown in the detail pane
func (l *Listagem) Detail() *client.Peca {
	return l.detail
}

// Updated returns the time of the last successful load
func (l *Listagem) Updated() time.Time {
	return l.updated
}

// Loaded reports whether pieces were loaded at least once
func (l *Listagem) Loaded() bool {
	return l.loaded
}

// InForm reports whether the filter form has focus
func (l *Listagem) InForm() bool {
	return l.filterForm != nil
}

// Selected returns the piece under the cursor
func (l *Listagem) Selected() (client.Peca, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.pecas) {
		return client.Peca{}, false
	}
	return l.pecas[i], true
}

// Update handles listing keys
func (l *Listagem) Update(msg tea.Msg) (*Listagem, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !l.loading {
			return l, nil
		}
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	}

	if l.filterForm != nil {
		return l.updateFilter(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	if l.confirmDelete != 0 {
		id := l.confirmDelete
		l.confirmDelete = 0
		if key.String() == "y" || key.String() == "s" {
			return l, func() tea.Msg { return DeleteMsg{ID: id} }
		}
		return l, nil
	}

	if l.detail != nil {
		switch key.String() {
		case "esc", "b":
			l.detail = nil
		case "s":
			p := *l.detail
			return l, func() tea.Msg { return SaveProofMsg{Peca: p} }
		case "e":
			p := *l.detail
			return l, func() tea.Msg { return EditMsg{Peca: p} }
		case "d":
			l.confirmDelete = l.detail.ID
		}
		return l, nil
	}

	switch key.String() {
	case "r":
		return l, l.Refresh()
	case "f":
		return l, l.openFilter()
	case "c":
		l.filter = client.PecaFilter{}
		return l, l.Refresh()
	case "enter":
		if p, ok := l.Selected(); ok {
			return l, func() tea.Msg { return ShowMsg{ID: p.ID} }
		}
		return l, nil
	case "e":
		if p, ok := l.Selected(); ok {
			return l, func() tea.Msg { return EditMsg{Peca: p} }
		}
		return l, nil
	case "d":
		if p, ok := l.Selected(); ok {
			l.confirmDelete = p.ID
		}
		return l, nil
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

func (l *Listagem) openFilter() tea.Cmd {
	l.fCliente = l.filter.Cliente
	l.fSecret = l.filter.Secretaria
	l.fTipo = l.filter.TipoPeca
	l.fDesde = l.filter.DataInicio
	l.fAte = l.filter.DataFim

	l.filterForm = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cliente").
				Options(withAll(l.refs.Clientes())...).
				Value(&l.fCliente),
			huh.NewInput().
				Title("Secretaria").
				Description("Opcional").
				Value(&l.fSecret),
			huh.NewSelect[string]().
				Title("Tipo de peça").
				Options(withAll(l.refs.TiposPeca())...).
				Value(&l.fTipo),
			huh.NewInput().
				Title("Criada a partir de").
				Placeholder("AAAA-MM-DD").
				Value(&l.fDesde).
				Validate(optionalDate),
			huh.NewInput().
				Title("Criada até").
				Placeholder("AAAA-MM-DD").
				Value(&l.fAte).
				Validate(optionalDate),
		).Title(icons.Peca.String() + " Filtrar peças"),
	).WithTheme(styles.FormTheme())
	return l.filterForm.Init()
}

func (l *Listagem) updateFilter(msg tea.Msg) (*Listagem, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		l.filterForm = nil
		return l, nil
	}

	form, cmd := l.filterForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.filterForm = f
	}

	switch l.filterForm.State {
	case huh.StateCompleted:
		l.filterForm = nil
		l.filter = client.PecaFilter{
			Cliente:    l.fCliente,
			Secretaria: strings.TrimSpace(l.fSecret),
			TipoPeca:   l.fTipo,
			DataInicio: strings.TrimSpace(l.fDesde),
			DataFim:    strings.TrimSpace(l.fAte),
		}
		return l, l.Refresh()
	case huh.StateAborted:
		l.filterForm = nil
		return l, nil
	}
	return l, cmd
}

// Filter returns the active filter
func (l *Listagem) Filter() client.PecaFilter {
	return l.filter
}

// View renders the listing
func (l *Listagem) View() string {
	if l.filterForm != nil {
		return l.filterForm.View()
	}
	if l.detail != nil {
		return l.viewDetail()
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Peca.String() + " Peças Cadastradas"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(describeFilter(l.filter)))
	sb.WriteString("\n")

	switch {
	case l.loading && len(l.pecas) == 0:
		sb.WriteString(l.spinner.View() + " Carregando peças...")
	case !l.loaded:
		sb.WriteString(styles.Subtitle.Render("Faça login para ver as peças cadastradas."))
	case len(l.pecas) == 0:
		sb.WriteString(styles.Subtitle.Render("Nenhuma peça encontrada."))
	default:
		sb.WriteString(l.table.View())
		sb.WriteString("\n")
		count := fmt.Sprintf("%d peça(s)", len(l.pecas))
		if l.loading {
			count = l.spinner.View() + " " + count
		}
		sb.WriteString(styles.Help.Render(count))
	}

	if l.confirmDelete != 0 {
		sb.WriteString("\n\n")
		sb.WriteString(widgets.StatusText(
			fmt.Sprintf("Tem certeza que deseja excluir esta peça? (#%d)  y/N", l.confirmDelete),
			widgets.StatusWarning))
	}
	return sb.String()
}

func (l *Listagem) viewDetail() string {
	p := l.detail
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Peça #%d", icons.Peca.String(), p.ID)))
	sb.WriteString("\n")

	field := func(label, value string) {
		sb.WriteString(styles.LabelStyle.Render(label))
		sb.WriteString(styles.ValueStyle.Render(dash(value)))
		sb.WriteString("\n")
	}
	field("Cliente", p.Cliente)
	field("Secretaria", p.Secretaria)
	field("Tipo", p.TipoPeca)
	field("Peça", p.NomePeca)
	field("Data de criação", p.DataCriacao)
	field("Data de veiculação", p.DataVeiculacao)
	field("Observação", p.Observacao)
	field("Cadastrada em", p.DataCadastro)

	sb.WriteString(styles.LabelStyle.Render("Comprovação"))
	sb.WriteString(describeProof(*p))
	sb.WriteString("\n")

	if l.confirmDelete != 0 {
		sb.WriteString("\n")
		sb.WriteString(widgets.StatusText("Tem certeza que deseja excluir esta peça?  y/N", widgets.StatusWarning))
	}
	return sb.String()
}

func describeProof(p client.Peca) string {
	if p.Comprovacao == "" {
		if p.HasComprovacao {
			return widgets.StatusText("anexada", widgets.StatusOK)
		}
		return widgets.StatusText(app.MsgProofNotFound, widgets.StatusNeutral)
	}
	mime, data, err := app.DecodeProof(p.Comprovacao)
	if err != nil {
		return widgets.StatusText("inválida", widgets.StatusCritical)
	}
	return widgets.StatusText(fmt.Sprintf("%s, %d KB", mime, (len(data)+1023)/1024), widgets.StatusOK)
}

func describeFilter(f client.PecaFilter) string {
	var parts []string
	if f.Cliente != "" {
		parts = append(parts, "cliente "+f.Cliente)
	}
	if f.Secretaria != "" {
		parts = append(parts, "secretaria "+f.Secretaria)
	}
	if f.TipoPeca != "" {
		parts = append(parts, "tipo "+f.TipoPeca)
	}
	if f.DataInicio != "" || f.DataFim != "" {
		parts = append(parts, fmt.Sprintf("de %s a %s", dash(f.DataInicio), dash(f.DataFim)))
	}
	if len(parts) == 0 {
		return "Todas as peças"
	}
	return "Filtro: " + strings.Join(parts, ", ")
}

func withAll(values []string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("Todos", "")}
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
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

func proofMark(p client.Peca) string {
	if p.HasComprovacao || p.Comprovacao != "" {
		return icons.CheckOK.String()
	}
	return "-"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
