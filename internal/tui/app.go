// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes keys to the active tab or overlay and runs core flows in commands

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/logger"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/tui/admin"
	"github.com/markalston/gestao-pecas/internal/tui/filepicker"
	"github.com/markalston/gestao-pecas/internal/tui/icons"
	"github.com/markalston/gestao-pecas/internal/tui/listagem"
	"github.com/markalston/gestao-pecas/internal/tui/login"
	"github.com/markalston/gestao-pecas/internal/tui/menu"
	"github.com/markalston/gestao-pecas/internal/tui/recentfiles"
	"github.com/markalston/gestao-pecas/internal/tui/relatorio"
	"github.com/markalston/gestao-pecas/internal/tui/styles"
	"github.com/markalston/gestao-pecas/internal/tui/widgets"
	"github.com/markalston/gestao-pecas/internal/tui/wizard"
	"github.com/markalston/gestao-pecas/internal/uistate"
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	chromeHeight     = 6  // Header, tabs, toasts, and footer lines
	maxToasts        = 3
	toastLifetime    = 4 * time.Second
)

// bootedMsg is sent when the stored session has been restored
type bootedMsg struct {
	err error
}

// loginDoneMsg is sent when a login attempt finishes
type loginDoneMsg struct {
	err error
}

// loggedOutMsg is sent after the session is discarded
type loggedOutMsg struct{}

// pecasLoadedMsg is sent when the listing query returns
type pecasLoadedMsg struct {
	pecas []client.Peca
	err   error
}

// pecaLoadedMsg is sent when a single piece is fetched for the detail pane
type pecaLoadedMsg struct {
	peca *client.Peca
	err  error
}

// pecaSavedMsg is sent when a create or update finishes
type pecaSavedMsg struct {
	editing bool
	err     error
}

// pecaDeletedMsg is sent when a delete finishes
type pecaDeletedMsg struct {
	err error
}

// reportMsg is sent when a report is generated
type reportMsg struct {
	rel *client.Relatorio
	err error
}

// refsChangedMsg is sent after reference data or accounts change
type refsChangedMsg struct {
	users bool
	err   error
}

// usersLoadedMsg is sent when the account list arrives
type usersLoadedMsg struct {
	users []client.Usuario
	err   error
}

// toastExpiredMsg removes a toast after its lifetime
type toastExpiredMsg struct {
	id int
}

type toast struct {
	id      int
	level   permissions.ToastLevel
	message string
}

// Options configures the TUI
type Options struct {
	// WorkDir is where the proof picker starts and where saved proofs and PDFs land
	WorkDir string
	// ConfigDir holds the recent proofs list
	ConfigDir string
	Logger    *slog.Logger
	Now       func() time.Time
}

// App is the root model for the TUI
type App struct {
	core   *app.App
	ctx    context.Context
	bridge *Bridge
	logger *slog.Logger
	now    func() time.Time

	workDir     string
	recentFiles *recentfiles.RecentFiles

	state  uistate.State
	booted bool
	width  int
	height int

	toasts    []toast
	nextToast int

	// Tab bar and tab contents
	tabs      *menu.Menu
	cadastro  *wizard.Wizard
	listagem  *listagem.Listagem
	relatorio *relatorio.Relatorio
	admin     *admin.Admin

	// Overlays, drawn over the active tab in this order of priority
	login      *login.Form
	filePicker *filepicker.FilePicker
	editor     *wizard.Wizard
	pending    *wizard.WizardCompleteMsg
}

// New creates the root model for core. bridge must be the presenter core was built with.
func New(ctx context.Context, core *app.App, bridge *Bridge, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	a := &App{
		core:        core,
		ctx:         ctx,
		bridge:      bridge,
		logger:      opts.Logger,
		now:         opts.Now,
		workDir:     opts.WorkDir,
		recentFiles: recentfiles.New(opts.ConfigDir),
		tabs:        menu.New(),
		width:       minTerminalWidth,
		height:      24,
	}
	a.state = uistate.Compute(core.Session(), core.AuthDisabled(), uistate.TabListagem)
	a.listagem = listagem.New(core.Refs(), a.contentWidth(), a.contentHeight())
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.bridge.Wait(a.ctx), a.boot())
}

func (a *App) boot() tea.Cmd {
	return func() tea.Msg {
		return bootedMsg{err: a.core.Boot(a.ctx)}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.resize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case bridgeMsg:
		cmds := []tea.Cmd{a.bridge.Wait(a.ctx)}
		for _, ev := range msg.events {
			cmds = append(cmds, a.handleEvent(ev))
		}
		return a, tea.Batch(cmds...)

	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.id == msg.id {
				a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
				break
			}
		}
		return a, nil

	case bootedMsg:
		a.booted = true
		if msg.err != nil {
			a.logger.Warn("Boot failed", "error", msg.err)
		}
		a.syncState()
		if a.state.Authenticated {
			return a, a.activate(a.state.Active)
		}
		return a, nil

	case menu.TabSelectedMsg:
		if !a.core.UI().Select(msg.Tab) {
			return a, nil
		}
		a.syncState()
		return a, a.activate(a.state.Active)

	// Login modal
	case login.SubmitMsg:
		return a, func() tea.Msg {
			return loginDoneMsg{err: a.core.Login(a.ctx, msg.Username, msg.Password)}
		}
	case login.CancelledMsg:
		a.login = nil
		return a, nil
	case loginDoneMsg:
		if msg.err != nil {
			if a.login != nil {
				return a, a.login.Retry()
			}
			return a, nil
		}
		a.login = nil
		a.resetViews()
		a.syncState()
		return a, a.activate(a.state.Active)
	case loggedOutMsg:
		a.resetViews()
		a.syncState()
		return a, nil

	// Registration and edit
	case wizard.WizardCompleteMsg:
		return a.handleWizardComplete(msg)
	case wizard.WizardCancelledMsg:
		if a.editor != nil {
			a.editor = nil
			return a, nil
		}
		a.cadastro = wizard.New(a.core.Refs(), a.now())
		a.cadastro.SetWidth(a.contentWidth())
		return a, a.cadastro.Init()
	case filepicker.FileSelectedMsg:
		a.filePicker = nil
		if err := a.recentFiles.Add(msg.Path); err != nil {
			a.logger.Debug("Recent proofs not saved", "error", err)
		}
		if a.pending == nil {
			return a, nil
		}
		done := *a.pending
		a.pending = nil
		done.Draft.Proof = msg.Data
		return a, a.submit(done)
	case filepicker.CancelledMsg:
		a.filePicker = nil
		a.pending = nil
		if w := a.formWizard(); w != nil {
			return a, w.Reopen()
		}
		return a, nil
	case pecaSavedMsg:
		return a.handlePecaSaved(msg)

	// Listing
	case listagem.RefreshMsg:
		return a, a.loadPecas(msg.Filter)
	case pecasLoadedMsg:
		if msg.err != nil {
			a.listagem.LoadFailed()
			return a, nil
		}
		a.listagem.SetPecas(msg.pecas, a.now())
		return a, nil
	case listagem.ShowMsg:
		return a, func() tea.Msg {
			p, err := a.core.GetPeca(a.ctx, msg.ID)
			return pecaLoadedMsg{peca: p, err: err}
		}
	case pecaLoadedMsg:
		if msg.err == nil {
			a.listagem.SetDetail(msg.peca)
		}
		return a, nil
	case listagem.EditMsg:
		if !a.core.Require(permissions.ActionEdit) {
			return a, nil
		}
		a.editor = wizard.NewEdit(a.core.Refs(), msg.Peca)
		a.editor.SetWidth(a.contentWidth())
		return a, a.editor.Init()
	case listagem.DeleteMsg:
		return a, func() tea.Msg {
			return pecaDeletedMsg{err: a.core.DeletePeca(a.ctx, msg.ID)}
		}
	case pecaDeletedMsg:
		if msg.err != nil {
			return a, nil
		}
		a.listagem.SetDetail(nil)
		return a, a.listagem.Refresh()
	case listagem.SaveProofMsg:
		return a, a.saveProof(msg.Peca)

	// Reports
	case relatorio.GenerateMsg:
		return a, func() tea.Msg {
			rel, err := a.core.GerarRelatorio(a.ctx, msg.Filter)
			return reportMsg{rel: rel, err: err}
		}
	case reportMsg:
		if a.relatorio == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.relatorio.Failed()
		}
		a.relatorio.SetReport(msg.rel)
		return a, nil
	case relatorio.ExportMsg:
		return a, a.exportPDF()

	// Settings
	case admin.AddMsg:
		return a, a.addRef(msg)
	case admin.AddUserMsg:
		return a, func() tea.Msg {
			_, err := a.core.CreateUsuario(a.ctx, msg.Username, msg.Password, msg.Role)
			return refsChangedMsg{users: true, err: err}
		}
	case admin.DeleteMsg:
		return a, a.deleteRef(msg)
	case admin.LoadUsersMsg:
		return a, a.loadUsers()
	case refsChangedMsg:
		if a.admin == nil {
			return a, nil
		}
		if msg.users {
			return a, a.loadUsers()
		}
		a.admin.Reload()
		return a, nil
	case usersLoadedMsg:
		if a.admin != nil && msg.err == nil {
			a.admin.SetUsers(msg.users)
		}
		return a, nil
	}

	return a.forward(msg)
}

// handleEvent applies one presenter event
func (a *App) handleEvent(ev tea.Msg) tea.Cmd {
	switch ev := ev.(type) {
	case renderMsg:
		wasAuthenticated := a.state.Authenticated
		a.applyState(ev.state)
		if wasAuthenticated && !ev.state.Authenticated {
			a.resetViews()
		}
	case toastMsg:
		a.nextToast++
		t := toast{id: a.nextToast, level: ev.level, message: ev.message}
		a.toasts = append(a.toasts, t)
		if len(a.toasts) > maxToasts {
			a.toasts = a.toasts[len(a.toasts)-maxToasts:]
		}
		return tea.Tick(toastLifetime, func(time.Time) tea.Msg { return toastExpiredMsg{id: t.id} })
	case openLoginMsg:
		if a.login == nil {
			a.login = login.New()
			return a.login.Init()
		}
	}
	return nil
}

// syncState pulls the controller's latest state
func (a *App) syncState() {
	a.applyState(a.core.UI().State())
}

func (a *App) applyState(st uistate.State) {
	if len(st.Tabs) == 0 {
		return
	}
	a.state = st
	a.tabs.SetState(st)
	if a.admin != nil {
		a.admin.SetShowUsers(st.ShowAdmin)
	}
}

// resetViews drops every view holding data of the previous session
func (a *App) resetViews() {
	a.cadastro = nil
	a.relatorio = nil
	a.admin = nil
	a.editor = nil
	a.filePicker = nil
	a.pending = nil
	a.listagem.Clear()
}

// activate prepares the content of tab after it becomes active
func (a *App) activate(tab uistate.Tab) tea.Cmd {
	switch tab {
	case uistate.TabCadastro:
		if a.cadastro == nil {
			a.cadastro = wizard.New(a.core.Refs(), a.now())
			a.cadastro.SetWidth(a.contentWidth())
			return a.cadastro.Init()
		}
	case uistate.TabListagem:
		if a.state.Authenticated && !a.listagem.Loaded() {
			return a.listagem.Refresh()
		}
	case uistate.TabRelatorio:
		if a.relatorio == nil {
			a.relatorio = relatorio.New(a.core.Refs(), a.contentWidth(), a.contentHeight())
			return a.relatorio.Init()
		}
	case uistate.TabConfiguracao:
		if a.admin == nil {
			a.admin = admin.New(a.core.Refs(), a.state.ShowAdmin, a.contentWidth(), a.contentHeight())
			if a.state.ShowAdmin {
				return a.loadUsers()
			}
		}
	}
	return nil
}

func (a *App) resize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	w, h := a.contentWidth(), a.contentHeight()
	a.listagem.SetSize(w, h)
	if a.relatorio != nil {
		a.relatorio.SetSize(w, h)
	}
	if a.admin != nil {
		a.admin.SetSize(w, h)
	}
	inner := tea.WindowSizeMsg{Width: w, Height: h}
	var cmds []tea.Cmd
	if a.filePicker != nil {
		a.filePicker.Update(inner)
	}
	for _, wz := range []*wizard.Wizard{a.cadastro, a.editor} {
		if wz != nil {
			_, cmd := wz.Update(inner)
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

// handleKey routes a key to the topmost overlay, then the tab bar, then the active tab
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch {
	case a.login != nil:
		_, cmd := a.login.Update(msg)
		return a, cmd
	case a.filePicker != nil:
		_, cmd := a.filePicker.Update(msg)
		return a, cmd
	case a.editor != nil:
		_, cmd := a.editor.Update(msg)
		return a, cmd
	}

	inForm := a.inForm()
	if cmd := a.tabs.Update(msg, inForm); cmd != nil {
		return a, cmd
	}
	if !inForm {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "L":
			a.core.UI().OpenLogin()
			return a, nil
		case "O":
			if !a.state.Authenticated {
				return a, nil
			}
			return a, func() tea.Msg {
				if err := a.core.Logout(); err != nil {
					return nil
				}
				return loggedOutMsg{}
			}
		}
	}
	return a.forward(msg)
}

// inForm reports whether the active tab has a text form focused
func (a *App) inForm() bool {
	switch a.state.Active {
	case uistate.TabCadastro:
		return a.cadastro != nil
	case uistate.TabListagem:
		return a.listagem.InForm()
	case uistate.TabRelatorio:
		return a.relatorio != nil && a.relatorio.InForm()
	case uistate.TabConfiguracao:
		return a.admin != nil && a.admin.InForm()
	}
	return false
}

// forward passes msg to the focused component
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.login != nil:
		_, cmd = a.login.Update(msg)
	case a.filePicker != nil:
		_, cmd = a.filePicker.Update(msg)
	case a.editor != nil:
		_, cmd = a.editor.Update(msg)
	default:
		switch a.state.Active {
		case uistate.TabCadastro:
			if a.cadastro != nil {
				_, cmd = a.cadastro.Update(msg)
			}
		case uistate.TabListagem:
			a.listagem, cmd = a.listagem.Update(msg)
		case uistate.TabRelatorio:
			if a.relatorio != nil {
				a.relatorio, cmd = a.relatorio.Update(msg)
			}
		case uistate.TabConfiguracao:
			if a.admin != nil {
				a.admin, cmd = a.admin.Update(msg)
			}
		}
	}
	return a, cmd
}

// formWizard returns the wizard the proof pick belongs to
func (a *App) formWizard() *wizard.Wizard {
	if a.editor != nil {
		return a.editor
	}
	return a.cadastro
}

func (a *App) handleWizardComplete(msg wizard.WizardCompleteMsg) (tea.Model, tea.Cmd) {
	if !msg.PickProof {
		return a, a.submit(msg)
	}
	recent, err := a.recentFiles.Load()
	if err != nil {
		a.logger.Debug("Recent proofs unavailable", "error", err)
	}
	a.pending = &msg
	a.filePicker = filepicker.New(recent, a.workDir)
	a.filePicker.Update(tea.WindowSizeMsg{Width: a.contentWidth(), Height: a.contentHeight()})
	return a, a.filePicker.Init()
}

// submit sends a completed wizard to the backend
func (a *App) submit(msg wizard.WizardCompleteMsg) tea.Cmd {
	if msg.Editing() {
		return func() tea.Msg {
			_, err := a.core.UpdatePeca(a.ctx, msg.ID, msg.Patch(), msg.Draft.Proof)
			return pecaSavedMsg{editing: true, err: err}
		}
	}
	return func() tea.Msg {
		_, err := a.core.CreatePeca(a.ctx, msg.Draft)
		return pecaSavedMsg{err: err}
	}
}

func (a *App) handlePecaSaved(msg pecaSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if w := a.formWizard(); w != nil {
			return a, w.Reopen()
		}
		return a, nil
	}

	var cmds []tea.Cmd
	if msg.editing {
		a.editor = nil
		a.listagem.SetDetail(nil)
	} else {
		a.cadastro = wizard.New(a.core.Refs(), a.now())
		a.cadastro.SetWidth(a.contentWidth())
		cmds = append(cmds, a.cadastro.Init())
	}
	if a.listagem.Loaded() {
		cmds = append(cmds, a.listagem.Refresh())
	}
	return a, tea.Batch(cmds...)
}

func (a *App) loadPecas(filter client.PecaFilter) tea.Cmd {
	return func() tea.Msg {
		pecas, err := a.core.ListPecas(a.ctx, filter)
		return pecasLoadedMsg{pecas: pecas, err: err}
	}
}

// saveProof writes the proof image of p into the work directory
func (a *App) saveProof(p client.Peca) tea.Cmd {
	return func() tea.Msg {
		if p.Comprovacao == "" {
			full, err := a.core.GetPeca(a.ctx, p.ID)
			if err != nil {
				return nil
			}
			p = *full
		}
		contentType, data, err := app.DecodeProof(p.Comprovacao)
		if err != nil {
			a.core.UI().Toast(permissions.ToastError, err.Error())
			return nil
		}
		path := filepath.Join(a.workDir, app.ProofFileName(p.ID, contentType))
		if err := os.WriteFile(path, data, 0600); err != nil {
			a.core.UI().Toast(permissions.ToastError, fmt.Sprintf("Erro ao salvar comprovação: %v", err))
			return nil
		}
		a.core.UI().Toast(permissions.ToastSuccess, "Comprovação salva em "+path)
		return nil
	}
}

// exportPDF writes the last report into the work directory
func (a *App) exportPDF() tea.Cmd {
	return func() tea.Msg {
		if a.core.LastReport() == nil {
			return nil
		}
		path := filepath.Join(a.workDir, a.core.ExportFileName())
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			a.core.UI().Toast(permissions.ToastError, fmt.Sprintf("Erro ao criar %s: %v", path, err))
			return nil
		}
		err = a.core.ExportarPDF(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
			return nil
		}
		a.core.UI().Toast(permissions.ToastInfo, "Arquivo: "+path)
		return nil
	}
}

func (a *App) addRef(msg admin.AddMsg) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch msg.Section {
		case admin.SectionClientes:
			err = a.core.AddCliente(a.ctx, msg.Nome)
		case admin.SectionSecretarias:
			err = a.core.AddSecretaria(a.ctx, msg.Cliente, msg.Nome)
		case admin.SectionTipos:
			err = a.core.AddTipoPeca(a.ctx, msg.Nome)
		}
		return refsChangedMsg{err: err}
	}
}

func (a *App) deleteRef(msg admin.DeleteMsg) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch msg.Section {
		case admin.SectionClientes:
			err = a.core.DeleteCliente(a.ctx, msg.Nome)
		case admin.SectionSecretarias:
			err = a.core.DeleteSecretaria(a.ctx, msg.Cliente, msg.Nome)
		case admin.SectionTipos:
			err = a.core.DeleteTipoPeca(a.ctx, msg.Nome)
		case admin.SectionUsuarios:
			return refsChangedMsg{users: true, err: a.core.DeleteUsuario(a.ctx, msg.UserID)}
		}
		return refsChangedMsg{err: err}
	}
}

func (a *App) loadUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := a.core.ListUsuarios(a.ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch {
	case a.login != nil:
		content = a.centered(a.login.View())
	case a.filePicker != nil:
		content = a.filePicker.View()
	case a.editor != nil:
		content = a.editor.View()
	default:
		content = a.viewTab()
	}

	parts := []string{a.tabs.View(), content}
	if t := a.viewToasts(); t != "" {
		parts = append(parts, t)
	}
	return a.wrapWithFrame(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (a *App) viewTab() string {
	if !a.booted {
		return styles.Subtitle.Render("Carregando...")
	}
	switch a.state.Active {
	case uistate.TabCadastro:
		if a.cadastro != nil {
			return a.cadastro.View()
		}
	case uistate.TabListagem:
		if !a.state.Authenticated {
			return styles.Subtitle.Render(icons.Lock.String() + " Faça login para ver as peças (L)")
		}
		return a.listagem.View()
	case uistate.TabRelatorio:
		if a.relatorio != nil {
			return a.relatorio.View()
		}
	case uistate.TabConfiguracao:
		if a.admin != nil {
			return a.admin.View()
		}
	}
	return ""
}

func (a *App) viewToasts() string {
	lines := make([]string, 0, len(a.toasts))
	for _, t := range a.toasts {
		lines = append(lines, widgets.StatusText(t.message, widgets.LevelFromToast(t.level)))
	}
	return strings.Join(lines, "\n")
}

// centered places s in the middle of the content area
func (a *App) centered(s string) string {
	return lipgloss.Place(a.contentWidth(), a.contentHeight(), lipgloss.Center, lipgloss.Center, s)
}

func (a *App) frameWidth() int {
	return max(a.width, minTerminalWidth)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 4
}

func (a *App) contentHeight() int {
	return max(a.height-chromeHeight-maxToasts, 8)
}

// renderHeader creates the header bar with app branding and the session user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Gestão de Peças"))

	role := permissions.Role("")
	if snap := a.core.Session(); snap.User != nil {
		role = snap.User.Role
	}
	rightText := " " + icons.User.String() + " " + userStyle.Render(a.state.UserName) + " " +
		widgets.RoleBadge(a.state.RoleLabel, role, a.state.Authenticated) + " "
	if a.state.LoginDisabled {
		rightText = " " + widgets.Badge("modo teste", widgets.StatusWarning) + rightText
	}

	fillWidth := max(width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText), 0) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		if key, label, ok := strings.Cut(s, " "); ok {
			styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	rightText, rightPlainText := "", ""
	if a.state.Active == uistate.TabListagem && a.overlay() == "" && !a.listagem.Updated().IsZero() {
		elapsed := formatTimeSince(a.now().Sub(a.listagem.Updated()))
		rightText = " " + statusStyle.Render("Atualizado "+elapsed) + " "
		rightPlainText = " Atualizado " + elapsed + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		// Drop shortcuts from the right until the line fits
		for len(shortcuts) > 0 && fillWidth < 0 {
			shortcuts = shortcuts[:len(shortcuts)-1]
			styled = styled[:len(styled)-1]
			leftText = " " + strings.Join(styled, "  ") + " "
			leftPlainText = " " + strings.Join(shortcuts, "  ") + " "
			fillWidth = width - 4 - lipgloss.Width(leftPlainText) - lipgloss.Width(rightPlainText)
		}
		fillWidth = max(fillWidth, 0)
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// overlay names the open overlay, or "" when a tab has focus
func (a *App) overlay() string {
	switch {
	case a.login != nil:
		return "login"
	case a.filePicker != nil:
		return "filepicker"
	case a.editor != nil:
		return "editor"
	}
	return ""
}

// shortcuts lists the keys for the focused screen
func (a *App) shortcuts() []string {
	switch a.overlay() {
	case "login":
		return []string{"Enter Entrar", "Esc Cancelar"}
	case "filepicker":
		return []string{"↑↓ Navegar", "Enter Selecionar", "Esc Voltar"}
	case "editor":
		return []string{"Enter Confirmar", "Esc Cancelar"}
	}

	session := "L Entrar"
	if a.state.ShowLogout {
		session = "O Sair"
	}
	switch a.state.Active {
	case uistate.TabCadastro:
		return []string{"alt+N Aba", "Enter Confirmar", "Esc Limpar"}
	case uistate.TabListagem:
		if a.listagem.InForm() {
			return []string{"Enter Filtrar", "Esc Cancelar"}
		}
		return []string{"Tab Aba", "r Atualizar", "f Filtrar", "Enter Ver", "e Editar", "d Excluir", session, "q Sair"}
	case uistate.TabRelatorio:
		if a.relatorio != nil && a.relatorio.InForm() {
			return []string{"alt+N Aba", "Enter Gerar", "Esc Fechar"}
		}
		return []string{"Tab Aba", "g Gerar", "p PDF", session, "q Sair"}
	case uistate.TabConfiguracao:
		if a.admin != nil && a.admin.InForm() {
			return []string{"alt+N Aba", "Enter Salvar", "Esc Cancelar"}
		}
		return []string{"Tab Aba", "c/s/t/u Seção", "a Adicionar", "d Excluir", session, "q Sair"}
	}
	return []string{session, "q Sair"}
}

// formatTimeSince formats an elapsed duration in Portuguese
func formatTimeSince(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "agora"
		}
		return fmt.Sprintf("há %ds", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("há %dmin", int(d.Minutes()))
	}
	return fmt.Sprintf("há %dh", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI on the alternate screen and blocks until it exits
func Run(ctx context.Context, core *app.App, bridge *Bridge, opts Options) error {
	defer bridge.Close()
	p := tea.NewProgram(New(ctx, core, bridge, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
