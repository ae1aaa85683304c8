// ABOUTME: Session commands for gestao-pecas CLI
// ABOUTME: login, logout, and whoami against the persisted session document

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session",
	Long: `Authenticate against the backend and store the issued token in the config directory.

Missing credentials are prompted for interactively. When the backend runs with
authentication disabled, login is refused and a test-mode session is used instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout, loginUsername, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user and permissions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
}

// runLogin authenticates and returns exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	a, err := newCLIApp(ctx, true)
	if err != nil {
		return reportSetupError(err)
	}

	if !a.AuthDisabled() && (username == "" || password == "") {
		if err := promptCredentials(&username, &password); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := a.Login(ctx, username, password); err != nil {
		return exitCode(err)
	}

	fmt.Fprintln(w, formatWhoami(a))
	return 0
}

// runLogout clears the stored session and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	a, err := newCLIApp(ctx, true)
	if err != nil {
		return reportSetupError(err)
	}
	return exitCode(a.Logout())
}

// runWhoami prints the current identity and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(a))
	} else {
		fmt.Fprintln(w, formatWhoami(a))
	}
	if !a.Session().Authenticated() {
		return 1
	}
	return 0
}

// identity summarizes the session for display
type identity struct {
	Authenticated bool     `json:"authenticated"`
	AuthDisabled  bool     `json:"auth_disabled"`
	Username      string   `json:"username,omitempty"`
	Name          string   `json:"name"`
	Role          string   `json:"role,omitempty"`
	RoleLabel     string   `json:"role_label"`
	Tabs          []string `json:"tabs"`
	Admin         bool     `json:"admin"`
}

func describe(a *app.App) identity {
	st := a.UI().State()
	id := identity{
		Authenticated: st.Authenticated,
		AuthDisabled:  st.LoginDisabled,
		Name:          st.UserName,
		RoleLabel:     st.RoleLabel,
		Admin:         st.ShowAdmin,
	}
	if sess := a.Session(); sess.User != nil {
		id.Username = sess.User.Username
		id.Role = string(sess.User.Role)
	}
	for _, tab := range st.Tabs {
		id.Tabs = append(id.Tabs, tab.String())
	}
	return id
}

// formatWhoami formats the identity for human readability
func formatWhoami(a *app.App) string {
	id := describe(a)
	if !id.Authenticated {
		return fmt.Sprintf("Usuário: %s (%s)", id.Name, id.RoleLabel)
	}

	out := fmt.Sprintf("Usuário:   %s (%s)\nPermissão: %s", id.Name, id.Username, id.RoleLabel)
	if id.AuthDisabled {
		out += "\nModo:      teste (autenticação desabilitada)"
	}
	out += "\nPode:     "
	for _, act := range []permissions.Action{
		permissions.ActionInsert,
		permissions.ActionEdit,
		permissions.ActionDelete,
		permissions.ActionReport,
		permissions.ActionConfig,
		permissions.ActionAdmin,
	} {
		if a.Allowed(act) {
			out += " " + act.String()
		}
	}
	return out
}

// formatWhoamiJSON formats the identity as JSON
func formatWhoamiJSON(a *app.App) string {
	data, _ := json.MarshalIndent(describe(a), "", "  ")
	return string(data)
}
