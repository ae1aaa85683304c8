// ABOUTME: Application flows shared by the CLI and the TUI
// ABOUTME: Wires session, gateway, permissions, UI state, and caches into user operations

package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/markalston/gestao-pecas/internal/authmode"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/refdata"
	"github.com/markalston/gestao-pecas/internal/session"
	"github.com/markalston/gestao-pecas/internal/uistate"
)

// Sentinels for client-side refusals
var (
	ErrDenied       = errors.New("permission denied")
	ErrValidation   = errors.New("validation failed")
	ErrAuthDisabled = errors.New("authentication disabled")
	ErrNoResults    = errors.New("no results")
)

// Refusal is an operation stopped before reaching the backend
type Refusal struct {
	Reason  error
	Message string
}

// Error returns the user-facing message
func (r *Refusal) Error() string {
	return r.Message
}

// Unwrap returns the sentinel reason
func (r *Refusal) Unwrap() error {
	return r.Reason
}

// App runs user operations against the backend
type App struct {
	api      *client.Client
	store    *session.Store
	detector *authmode.Detector
	ui       *uistate.Controller
	checker  *permissions.Checker
	refs     *refdata.Cache
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.Mutex
	lastReport *client.Relatorio
}

// New wires an App. The presenter receives renders, toasts, and login prompts.
func New(api *client.Client, store *session.Store, presenter uistate.Presenter, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	ui := uistate.NewController(store, presenter)
	api.SetSessionExpiredHandler(ui)

	return &App{
		api:      api,
		store:    store,
		detector: authmode.New(api, store, logger),
		ui:       ui,
		checker:  permissions.NewChecker(store, ui),
		refs:     refdata.New(api, store),
		logger:   logger,
		now:      time.Now,
	}
}

// UI returns the UI state controller
func (a *App) UI() *uistate.Controller { return a.ui }

// Refs returns the reference data cache
func (a *App) Refs() *refdata.Cache { return a.refs }

// Session returns a snapshot of the current session
func (a *App) Session() session.Session { return a.store.Snapshot() }

// AuthDisabled reports whether the backend runs in test mode
func (a *App) AuthDisabled() bool { return a.store.AuthDisabled() }

// Allowed reports whether the current session may perform act, without side effects
func (a *App) Allowed(act permissions.Action) bool {
	return a.checker.Decide(act).Allowed
}

// Require runs the permission check for act, toasting the denial
func (a *App) Require(act permissions.Action) bool {
	return a.checker.Check(act)
}

// Boot restores the stored session, detects the auth mode, renders, and then
// loads reference data or asks for credentials.
func (a *App) Boot(ctx context.Context) error {
	a.store.Load()
	a.detector.Detect(ctx)
	st := a.ui.Refresh()

	if st.Authenticated {
		if err := a.refs.Load(ctx); err != nil {
			return a.fail(err, MsgBootFailed)
		}
		return nil
	}
	if !a.store.AuthDisabled() {
		a.ui.OpenLogin()
	}
	return nil
}

// Login authenticates and installs the session
func (a *App) Login(ctx context.Context, username, password string) error {
	if a.store.AuthDisabled() {
		a.ui.Toast(permissions.ToastInfo, MsgManualLoginOff)
		return &Refusal{Reason: ErrAuthDisabled, Message: MsgManualLoginOff}
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return a.invalid(MsgCredentials)
	}

	resp, err := a.api.Login(ctx, username, password)
	if err != nil {
		return a.fail(err, MsgLoginFailed)
	}

	a.store.Set(resp.AccessToken, &session.User{
		ID:          resp.User.ID,
		Username:    resp.User.Username,
		DisplayName: resp.User.Nome,
		Role:        permissions.Role(resp.User.Role),
	})
	a.logger.Info("Logged in", "username", resp.User.Username, "role", resp.User.Role)

	if err := a.refs.Load(ctx); err != nil {
		a.ui.Refresh()
		return a.fail(err, MsgLoginFailed)
	}
	a.ui.Refresh()
	a.ui.Toast(permissions.ToastSuccess, "Bem-vindo, "+resp.User.Nome+"!")
	return nil
}

// Logout discards the session and every cached record
func (a *App) Logout() error {
	if a.store.AuthDisabled() {
		a.ui.Toast(permissions.ToastInfo, uistate.MsgLogoutOff)
		return &Refusal{Reason: ErrAuthDisabled, Message: uistate.MsgLogoutOff}
	}

	a.store.Clear()
	a.refs.Clear()
	a.mu.Lock()
	a.lastReport = nil
	a.mu.Unlock()

	a.ui.Refresh()
	a.ui.Toast(permissions.ToastSuccess, MsgLoggedOut)
	return nil
}

// allow runs the pre-flight permission check for act
func (a *App) allow(act permissions.Action) error {
	if a.checker.Check(act) {
		return nil
	}
	return &Refusal{Reason: ErrDenied, Message: a.checker.Decide(act).Message}
}

// invalid reports a validation failure
func (a *App) invalid(message string) error {
	a.ui.Toast(permissions.ToastError, message)
	return &Refusal{Reason: ErrValidation, Message: message}
}

// fail reports a backend failure. De-duplicated 401s are not toasted again.
func (a *App) fail(err error, fallback string) error {
	a.logger.Debug("Operation failed", "error", err)
	if client.IsSilent(err) {
		return err
	}
	message := fallback
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	a.ui.Toast(permissions.ToastError, message)
	return err
}

func (a *App) success(message string) {
	a.ui.Toast(permissions.ToastSuccess, message)
}
