// ABOUTME: Derives what the interface shows from the session and auth mode
// ABOUTME: Pure Compute plus a Controller that hands each State to a Presenter

package uistate

import (
	"sync"

	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/session"
)

// Tab is a top-level screen of the application
type Tab int

const (
	TabCadastro Tab = iota
	TabListagem
	TabRelatorio
	TabConfiguracao
)

// AllTabs lists the tabs in display order
var AllTabs = []Tab{TabCadastro, TabListagem, TabRelatorio, TabConfiguracao}

// String returns the display title of a Tab
func (t Tab) String() string {
	switch t {
	case TabCadastro:
		return "Cadastrar Peça"
	case TabListagem:
		return "Peças Cadastradas"
	case TabRelatorio:
		return "Relatórios"
	case TabConfiguracao:
		return "Configurações"
	default:
		return "?"
	}
}

// Labels shown while logged out
const (
	GuestLabel   = "Visitante"
	NoRoleLabel  = "Sem permissão"
	MsgLoginOff  = "Modo teste ativo: login está desabilitado."
	MsgLogoutOff = "Modo teste ativo: logout está desabilitado."
)

// State is everything the presentation layer needs to draw the chrome
type State struct {
	Authenticated bool
	UserName      string
	RoleLabel     string
	ShowLogin     bool
	ShowLogout    bool
	ShowAdmin     bool
	LoginDisabled bool
	InvalidRole   bool
	Tabs          []Tab
	Active        Tab
}

// Visible reports whether t is among the visible tabs
func (s State) Visible(t Tab) bool {
	for _, v := range s.Tabs {
		if v == t {
			return true
		}
	}
	return false
}

// Compute derives the UI state. It has no side effects.
func Compute(snap session.Session, authDisabled bool, current Tab) State {
	st := State{LoginDisabled: authDisabled}

	if !snap.Authenticated() {
		st.UserName = GuestLabel
		st.RoleLabel = NoRoleLabel
		st.ShowLogin = true
		st.Tabs = []Tab{TabListagem}
		st.Active = TabListagem
		return st
	}

	st.Authenticated = true
	st.UserName = snap.User.DisplayName
	st.RoleLabel = permissions.Label(snap.User.Role)
	st.ShowLogout = true

	perm, ok := permissions.Lookup(snap.User.Role)
	if !ok {
		st.InvalidRole = true
		st.Tabs = []Tab{TabListagem}
		st.Active = TabListagem
		return st
	}

	st.ShowAdmin = perm.CanAdmin
	for _, t := range AllTabs {
		switch t {
		case TabCadastro:
			if !perm.CanInsert {
				continue
			}
		case TabRelatorio:
			if !perm.CanReport {
				continue
			}
		case TabConfiguracao:
			if !perm.CanConfig {
				continue
			}
		}
		st.Tabs = append(st.Tabs, t)
	}

	st.Active = current
	if !st.Visible(current) {
		st.Active = TabListagem
	}
	return st
}

// SessionView is the read side of the session store
type SessionView interface {
	Snapshot() session.Session
	AuthDisabled() bool
}

// Presenter draws states and transient messages
type Presenter interface {
	permissions.Notifier
	Render(State)
}

// Controller recomputes the UI state after session changes
type Controller struct {
	store     SessionView
	presenter Presenter

	mu     sync.Mutex
	active Tab
	last   State
}

// NewController creates a controller starting on the listing tab
func NewController(store SessionView, presenter Presenter) *Controller {
	return &Controller{store: store, presenter: presenter, active: TabListagem}
}

// Refresh computes the current state and renders it. It performs no I/O.
func (c *Controller) Refresh() State {
	c.mu.Lock()
	st := Compute(c.store.Snapshot(), c.store.AuthDisabled(), c.active)
	c.active = st.Active
	c.last = st
	c.mu.Unlock()

	if st.InvalidRole {
		c.presenter.Toast(permissions.ToastError, permissions.MsgInvalidRole)
	}
	c.presenter.Render(st)
	return st
}

// State returns the most recently computed state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Select switches to tab when it is visible and re-renders
func (c *Controller) Select(tab Tab) bool {
	c.mu.Lock()
	visible := c.last.Visible(tab)
	if visible {
		c.active = tab
	}
	c.mu.Unlock()

	if visible {
		c.Refresh()
	}
	return visible
}

// SessionExpired re-renders for the cleared session and asks for credentials
func (c *Controller) SessionExpired() {
	c.Refresh()
	c.OpenLogin()
}

// OpenLogin shows the login prompt, or an info message in auth-disabled mode
func (c *Controller) OpenLogin() {
	if c.store.AuthDisabled() {
		c.presenter.Toast(permissions.ToastInfo, MsgLoginOff)
		return
	}
	c.presenter.OpenLogin()
}

// Toast forwards a message to the presenter
func (c *Controller) Toast(level permissions.ToastLevel, message string) {
	c.presenter.Toast(level, message)
}
