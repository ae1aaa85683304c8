// ABOUTME: Root command for gestao-pecas CLI
// ABOUTME: Handles global flags, configuration, and per-invocation app wiring

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/config"
	"github.com/markalston/gestao-pecas/internal/logger"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/session"
	"github.com/markalston/gestao-pecas/internal/uistate"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
	cfgFile    string

	// stderr receives toasts, prompts, and logs so stdout stays parseable
	stderr io.Writer = os.Stderr
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "gestao-pecas",
	Short: "CLI for Sistema de Gestão de Peças",
	Long: `gestao-pecas is a command-line and terminal client for the Sistema de Gestão de Peças.

It registers advertising pieces, lists and filters them, generates monthly
reports (with PDF export), and administers clients, secretariats, piece types,
and users.

Exit codes:
  0 - Success
  1 - Refused locally (validation, permission, login required)
  2 - Error (connectivity, backend rejection)

Environment Variables:
  GESTAO_PECAS_API_URL     Backend API URL (default: http://localhost:8000)
  GESTAO_PECAS_TIMEOUT     Request timeout, e.g. 30s (0 disables)
  GESTAO_PECAS_LOG_LEVEL   debug, info, warn, error
  GESTAO_PECAS_LOG_FORMAT  text or json`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides GESTAO_PECAS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.config/gestao-pecas/config.yaml)")
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
}

// loadConfig resolves the configuration; the --api-url flag wins over everything else
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env, config file, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/")
	}
	if cfg, err := config.Load(); err == nil {
		return cfg.APIURL
	}
	return config.Default().APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// cliPresenter prints toasts on stderr and turns login prompts into a hint
type cliPresenter struct {
	w io.Writer

	mu         sync.Mutex
	quietLogin bool
	hinted     bool
}

// Toast prints a transient message
func (p *cliPresenter) Toast(level permissions.ToastLevel, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch level {
	case permissions.ToastSuccess:
		fmt.Fprintf(p.w, "✓ %s\n", message)
	case permissions.ToastError:
		fmt.Fprintf(p.w, "✗ %s\n", message)
	default:
		fmt.Fprintf(p.w, "ℹ %s\n", message)
	}
}

// OpenLogin prints the login hint once per invocation
func (p *cliPresenter) OpenLogin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quietLogin || p.hinted {
		return
	}
	p.hinted = true
	fmt.Fprintln(p.w, "Faça login com: gestao-pecas login")
}

// Render is a no-op; the CLI has no persistent screen
func (p *cliPresenter) Render(uistate.State) {}

// newCLIApp wires the app for a single invocation and boots it. quietLogin
// suppresses the login hint for commands that authenticate themselves.
func newCLIApp(ctx context.Context, quietLogin bool) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := buildApp(cfg, &cliPresenter{w: stderr, quietLogin: quietLogin}, logger.Init(stderr, cfg.Log.Level, cfg.Log.Format))
	if err := a.Boot(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// buildApp assembles store, gateway, and flows for cfg
func buildApp(cfg *config.Config, presenter uistate.Presenter, log *slog.Logger) *app.App {
	store := session.NewStore(session.NewFileKV(cfg.ConfigDir), log)
	api := client.New(cfg.APIURL,
		client.WithSession(store),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(log),
	)
	return app.New(api, store, presenter, log)
}

// exitCode maps a flow error to the process exit code
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var refusal *app.Refusal
	if errors.As(err, &refusal) {
		return 1
	}
	return 2
}

// reportSetupError prints errors that happened before any flow could toast them
func reportSetupError(err error) int {
	var refusal *app.Refusal
	var apiErr *client.Error
	if !errors.As(err, &refusal) && !errors.As(err, &apiErr) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode(err)
}
