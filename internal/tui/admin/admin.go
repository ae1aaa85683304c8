// ABOUTME: Settings screen for clients, secretariats, piece types, and user accounts
// ABOUTME: Lists each section in a table and collects additions with huh forms

package admin

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
	"github.com/markalston/gestao-pecas/internal/tui/widgets"
)

// Section is one list managed on the settings screen
type Section int

const (
	SectionClientes Section = iota
	SectionSecretarias
	SectionTipos
	SectionUsuarios
)

func (s Section) String() string {
	switch s {
	case SectionClientes:
		return "Clientes"
	case SectionSecretarias:
		return "Secretarias"
	case SectionTipos:
		return "Tipos de peça"
	case SectionUsuarios:
		return "Usuários"
	default:
		return "?"
	}
}

func (s Section) icon() icons.Icon {
	switch s {
	case SectionClientes:
		return icons.Cliente
	case SectionSecretarias:
		return icons.Secretaria
	case SectionTipos:
		return icons.Tipo
	default:
		return icons.User
	}
}

// Refs is the reference data shown on the screen
type Refs interface {
	Clientes() []string
	Secretarias(cliente string) []string
	TiposPeca() []string
}

// AddMsg asks the root to add a reference entry. Cliente is set for secretariats.
type AddMsg struct {
	Section Section
	Cliente string
	Nome    string
}

// AddUserMsg asks the root to create an account
type AddUserMsg struct {
	Username string
	Password string
	Role     permissions.Role
}

// DeleteMsg asks the root to delete a confirmed entry
type DeleteMsg struct {
	Section Section
	Cliente string
	Nome    string
	UserID  int
}

// LoadUsersMsg asks the root to fetch the account list
type LoadUsersMsg struct{}

type entry struct {
	cliente string
	nome    string
	userID  int
}

// Admin is the settings screen
type Admin struct {
	refs      Refs
	showUsers bool
	section   Section
	table     table.Model
	entries   []entry
	users     []client.Usuario

	form     *huh.Form
	fCliente string
	fNome    string
	fUser    string
	fPass    string
	fRole    string

	confirm *entry

	width  int
	height int
}

// New creates the settings screen; showUsers enables the accounts section
func New(refs Refs, showUsers bool, width, height int) *Admin {
	t := table.New(table.WithFocused(true), table.WithHeight(max(3, height-8)))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.Foreground(styles.Text).Background(styles.Primary).Bold(false)
	t.SetStyles(s)

	a := &Admin{refs: refs, showUsers: showUsers, table: t, width: width, height: height}
	a.Reload()
	return a
}

// Sections returns the sections available to the session
func (a *Admin) Sections() []Section {
	s := []Section{SectionClientes, SectionSecretarias, SectionTipos}
	if a.showUsers {
		s = append(s, SectionUsuarios)
	}
	return s
}

// Section returns the section on display
func (a *Admin) Section() Section {
	return a.section
}

// SetShowUsers toggles the accounts section, as when the session changes
func (a *Admin) SetShowUsers(show bool) {
	a.showUsers = show
	if !show && a.section == SectionUsuarios {
		a.section = SectionClientes
	}
	a.Reload()
}

// SetSize updates the screen dimensions
func (a *Admin) SetSize(width, height int) {
	a.width = width
	a.height = height
	a.table.SetHeight(max(3, height-8))
	a.Reload()
}

// SetUsers replaces the listed accounts
func (a *Admin) SetUsers(users []client.Usuario) {
	a.users = users
	a.Reload()
}

// Reload rebuilds the rows of the current section from the caches
func (a *Admin) Reload() {
	a.entries = nil
	var cols []table.Column
	var rows []table.Row
	wide := max(20, a.width-12)

	switch a.section {
	case SectionClientes:
		cols = []table.Column{{Title: "Cliente", Width: wide}}
		for _, c := range a.refs.Clientes() {
			a.entries = append(a.entries, entry{nome: c})
			rows = append(rows, table.Row{c})
		}
	case SectionSecretarias:
		cols = []table.Column{{Title: "Cliente", Width: wide / 2}, {Title: "Secretaria", Width: wide - wide/2}}
		for _, c := range a.refs.Clientes() {
			for _, s := range a.refs.Secretarias(c) {
				a.entries = append(a.entries, entry{cliente: c, nome: s})
				rows = append(rows, table.Row{c, s})
			}
		}
	case SectionTipos:
		cols = []table.Column{{Title: "Tipo de peça", Width: wide}}
		for _, t := range a.refs.TiposPeca() {
			a.entries = append(a.entries, entry{nome: t})
			rows = append(rows, table.Row{t})
		}
	case SectionUsuarios:
		cols = []table.Column{
			{Title: "ID", Width: 5},
			{Title: "Usuário", Width: 16},
			{Title: "Nome", Width: 20},
			{Title: "Permissão", Width: 14},
			{Title: "Status", Width: 8},
		}
		for _, u := range a.users {
			status := "ativo"
			if !u.IsActive {
				status = "inativo"
			}
			a.entries = append(a.entries, entry{nome: u.Username, userID: u.ID})
			rows = append(rows, table.Row{strconv.Itoa(u.ID), u.Username, u.Nome, permissions.Label(permissions.Role(u.Role)), status})
		}
	}

	// columns first so the new rows render against matching widths
	a.table.SetRows(nil)
	a.table.SetColumns(cols)
	a.table.SetRows(rows)
	if a.table.Cursor() >= len(rows) {
		a.table.SetCursor(max(0, len(rows)-1))
	}
}

// InForm reports whether an add form has focus
func (a *Admin) InForm() bool {
	return a.form != nil
}

func (a *Admin) selected() (entry, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.entries) {
		return entry{}, false
	}
	return a.entries[i], true
}

func (a *Admin) switchTo(s Section) tea.Cmd {
	a.section = s
	a.confirm = nil
	a.table.SetCursor(0)
	a.Reload()
	if s == SectionUsuarios {
		return func() tea.Msg { return LoadUsersMsg{} }
	}
	return nil
}

// Update handles settings keys
func (a *Admin) Update(msg tea.Msg) (*Admin, tea.Cmd) {
	if a.form != nil {
		return a.updateForm(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	if a.confirm != nil {
		e := *a.confirm
		a.confirm = nil
		if key.String() == "y" || key.String() == "s" {
			return a, func() tea.Msg {
				return DeleteMsg{Section: a.section, Cliente: e.cliente, Nome: e.nome, UserID: e.userID}
			}
		}
		return a, nil
	}

	switch key.String() {
	case "c":
		return a, a.switchTo(SectionClientes)
	case "s":
		return a, a.switchTo(SectionSecretarias)
	case "t":
		return a, a.switchTo(SectionTipos)
	case "u":
		if a.showUsers {
			return a, a.switchTo(SectionUsuarios)
		}
		return a, nil
	case "r":
		if a.section == SectionUsuarios {
			return a, func() tea.Msg { return LoadUsersMsg{} }
		}
		a.Reload()
		return a, nil
	case "a":
		return a, a.openForm()
	case "d":
		if e, ok := a.selected(); ok {
			a.confirm = &e
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func required(message string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func (a *Admin) openForm() tea.Cmd {
	a.fNome, a.fUser, a.fPass, a.fRole = "", "", "", ""
	if a.fCliente == "" {
		if c := a.refs.Clientes(); len(c) > 0 {
			a.fCliente = c[0]
		}
	}

	var group *huh.Group
	switch a.section {
	case SectionClientes:
		group = huh.NewGroup(
			huh.NewInput().Title("Nome do cliente").Value(&a.fNome).Validate(required(app.MsgClienteName)),
		)
	case SectionSecretarias:
		var opts []huh.Option[string]
		for _, c := range a.refs.Clientes() {
			opts = append(opts, huh.NewOption(c, c))
		}
		group = huh.NewGroup(
			huh.NewSelect[string]().Title("Cliente").Options(opts...).Value(&a.fCliente).Validate(required(app.MsgSelectCliente)),
			huh.NewInput().Title("Nome da secretaria").Value(&a.fNome).Validate(required(app.MsgSecretariaName)),
		)
	case SectionTipos:
		group = huh.NewGroup(
			huh.NewInput().Title("Tipo de peça").Value(&a.fNome).Validate(required(app.MsgTipoName)),
		)
	case SectionUsuarios:
		var opts []huh.Option[string]
		for _, r := range permissions.Roles() {
			opts = append(opts, huh.NewOption(permissions.Label(r), string(r)))
		}
		group = huh.NewGroup(
			huh.NewInput().Title("Usuário").Value(&a.fUser).Validate(required(app.MsgAllFields)),
			huh.NewInput().Title("Senha").EchoMode(huh.EchoModePassword).Value(&a.fPass).Validate(required(app.MsgAllFields)),
			huh.NewSelect[string]().Title("Permissão").Options(opts...).Value(&a.fRole),
		)
	}

	a.form = huh.NewForm(
		group.Title(fmt.Sprintf("%s Adicionar em %s", icons.Add.String(), a.section)),
	).WithTheme(styles.FormTheme())
	return a.form.Init()
}

func (a *Admin) updateForm(msg tea.Msg) (*Admin, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.form = nil
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		if a.section == SectionUsuarios {
			add := AddUserMsg{Username: strings.TrimSpace(a.fUser), Password: a.fPass, Role: permissions.Role(a.fRole)}
			return a, func() tea.Msg { return add }
		}
		add := AddMsg{Section: a.section, Nome: strings.TrimSpace(a.fNome)}
		if a.section == SectionSecretarias {
			add.Cliente = a.fCliente
		}
		return a, func() tea.Msg { return add }
	case huh.StateAborted:
		a.form = nil
		return a, nil
	}
	return a, cmd
}

// View renders the screen
func (a *Admin) View() string {
	if a.form != nil {
		return a.form.View()
	}

	var tabs []string
	for _, s := range a.Sections() {
		label := fmt.Sprintf("%s %s", s.icon().String(), s)
		if s == a.section {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Settings.String() + " Configurações"))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")

	if len(a.entries) == 0 {
		sb.WriteString(styles.Subtitle.Render("Nenhum registro."))
	} else {
		sb.WriteString(a.table.View())
	}

	if a.confirm != nil {
		sb.WriteString("\n\n")
		sb.WriteString(widgets.StatusText(a.confirmPrompt(*a.confirm)+"  y/N", widgets.StatusWarning))
	}
	return sb.String()
}

func (a *Admin) confirmPrompt(e entry) string {
	switch a.section {
	case SectionClientes:
		return fmt.Sprintf("Excluir o cliente %q e todas as suas secretarias?", e.nome)
	case SectionUsuarios:
		return "Tem certeza que deseja excluir este usuário?"
	default:
		return fmt.Sprintf("Excluir %q?", e.nome)
	}
}
