// ABOUTME: User administration commands for gestao-pecas CLI
// ABOUTME: list, add, and delete accounts (master role only)

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/spf13/cobra"
)

var (
	userUsername string
	userPassword string
	userRole     string
	userYes      bool
)

var usuariosCmd = &cobra.Command{
	Use:   "usuarios",
	Short: "Manage user accounts",
}

var usuariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUsuariosList(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var usuariosAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUsuariosAdd(ctx, os.Stdout, userUsername, userPassword, userRole)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var usuariosDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUsuariosDelete(ctx, os.Stdout, args[0], userYes)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(usuariosCmd)
	usuariosCmd.AddCommand(usuariosListCmd, usuariosAddCmd, usuariosDeleteCmd)

	roles := make([]string, 0, len(permissions.Roles()))
	for _, r := range permissions.Roles() {
		roles = append(roles, string(r))
	}
	f := usuariosAddCmd.Flags()
	f.StringVarP(&userUsername, "username", "u", "", "Username")
	f.StringVarP(&userPassword, "password", "p", "", "Password")
	f.StringVarP(&userRole, "role", "r", "", "Role ("+strings.Join(roles, ", ")+")")

	usuariosDeleteCmd.Flags().BoolVarP(&userYes, "yes", "y", false, "Skip the confirmation prompt")
}

// runUsuariosList prints all accounts and returns exit code
func runUsuariosList(ctx context.Context, w io.Writer) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	users, err := a.ListUsuarios(ctx)
	if err != nil {
		return exitCode(err)
	}
	if IsJSONOutput() {
		if users == nil {
			users = []client.Usuario{}
		}
		return writeJSON(w, users)
	}
	fmt.Fprintln(w, formatUsuariosHuman(users))
	return 0
}

// formatUsuariosHuman renders accounts as a table
func formatUsuariosHuman(users []client.Usuario) string {
	if len(users) == 0 {
		return "Nenhum usuário."
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		status := "ativo"
		if !u.IsActive {
			status = "inativo"
		}
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			u.Username,
			orDash(u.Nome),
			permissions.Label(permissions.Role(u.Role)),
			status,
		})
	}
	return renderTable([]string{"ID", "Usuário", "Nome", "Permissão", "Status"}, rows)
}

// runUsuariosAdd creates an account and returns exit code
func runUsuariosAdd(ctx context.Context, w io.Writer, username, password, role string) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	user, err := a.CreateUsuario(ctx, username, password, permissions.Role(role))
	if err != nil {
		return exitCode(err)
	}
	if IsJSONOutput() {
		return writeJSON(w, user)
	}
	fmt.Fprintf(w, "Usuário %s criado (id %d).\n", user.Username, user.ID)
	return 0
}

// runUsuariosDelete removes an account after confirmation and returns exit code
func runUsuariosDelete(ctx context.Context, w io.Writer, arg string, yes bool) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	if !confirmed(yes, "Tem certeza que deseja excluir este usuário?") {
		fmt.Fprintln(w, "Cancelado.")
		return 1
	}
	return exitCode(a.DeleteUsuario(ctx, id))
}
