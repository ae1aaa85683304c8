// ABOUTME: Reference data commands for gestao-pecas CLI
// ABOUTME: list, add, and delete clients, secretariats, and piece types

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/spf13/cobra"
)

// refKind selects which reference list a command works on
type refKind int

const (
	refClientes refKind = iota
	refSecretarias
	refTipos
)

func (k refKind) String() string {
	switch k {
	case refClientes:
		return "clientes"
	case refSecretarias:
		return "secretarias"
	case refTipos:
		return "tipos"
	default:
		return "unknown"
	}
}

var (
	refCliente string
	refYes     bool
)

// refCommand builds the list/add/delete tree for one reference kind
func refCommand(kind refKind, short, nameArgs string, nargs int) *cobra.Command {
	parent := &cobra.Command{
		Use:   kind.String(),
		Short: short,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + kind.String(),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			exitCode := runRefList(ctx, os.Stdout, kind, refCliente)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}

	add := &cobra.Command{
		Use:   "add " + nameArgs,
		Short: "Add to " + kind.String(),
		Args:  cobra.ExactArgs(nargs),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			exitCode := runRefAdd(ctx, os.Stdout, kind, args)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}

	del := &cobra.Command{
		Use:   "delete " + nameArgs,
		Short: "Delete from " + kind.String(),
		Args:  cobra.ExactArgs(nargs),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			exitCode := runRefDelete(ctx, os.Stdout, kind, args, refYes)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}
	del.Flags().BoolVarP(&refYes, "yes", "y", false, "Skip the confirmation prompt")

	parent.AddCommand(list, add, del)
	return parent
}

func init() {
	rootCmd.AddCommand(refCommand(refClientes, "Manage clients", "NOME", 1))
	secretarias := refCommand(refSecretarias, "Manage secretariats of a client", "CLIENTE NOME", 2)
	for _, c := range secretarias.Commands() {
		if c.Name() == "list" {
			c.Flags().StringVar(&refCliente, "cliente", "", "Only secretariats of this client")
		}
	}
	rootCmd.AddCommand(secretarias)
	rootCmd.AddCommand(refCommand(refTipos, "Manage piece types", "NOME", 1))
}

// refRow is one listed reference entry
type refRow struct {
	Cliente string `json:"cliente,omitempty"`
	Nome    string `json:"nome"`
}

// collectRefs reads the requested list from the cache loaded at boot
func collectRefs(a *app.App, kind refKind, cliente string) []refRow {
	rows := []refRow{}
	refs := a.Refs()
	switch kind {
	case refClientes:
		for _, c := range refs.Clientes() {
			rows = append(rows, refRow{Nome: c})
		}
	case refSecretarias:
		clientes := refs.Clientes()
		if cliente != "" {
			clientes = []string{cliente}
		}
		for _, c := range clientes {
			for _, s := range refs.Secretarias(c) {
				rows = append(rows, refRow{Cliente: c, Nome: s})
			}
		}
	case refTipos:
		for _, t := range refs.TiposPeca() {
			rows = append(rows, refRow{Nome: t})
		}
	}
	return rows
}

// runRefList prints a reference list and returns exit code
func runRefList(ctx context.Context, w io.Writer, kind refKind, cliente string) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}
	if !a.Session().Authenticated() {
		return 1
	}

	rows := collectRefs(a, kind, cliente)
	if IsJSONOutput() {
		return writeJSON(w, rows)
	}
	fmt.Fprintln(w, formatRefsHuman(kind, rows))
	return 0
}

// formatRefsHuman renders a reference list as a table
func formatRefsHuman(kind refKind, rows []refRow) string {
	if len(rows) == 0 {
		return "Nenhum registro."
	}
	table := make([][]string, 0, len(rows))
	if kind == refSecretarias {
		for _, r := range rows {
			table = append(table, []string{r.Cliente, r.Nome})
		}
		return renderTable([]string{"Cliente", "Secretaria"}, table)
	}
	for _, r := range rows {
		table = append(table, []string{r.Nome})
	}
	header := "Cliente"
	if kind == refTipos {
		header = "Tipo de peça"
	}
	return renderTable([]string{header}, table)
}

// runRefAdd adds a reference entry and returns exit code
func runRefAdd(ctx context.Context, w io.Writer, kind refKind, args []string) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	switch kind {
	case refClientes:
		err = a.AddCliente(ctx, args[0])
	case refSecretarias:
		err = a.AddSecretaria(ctx, args[0], args[1])
	case refTipos:
		err = a.AddTipoPeca(ctx, args[0])
	}
	return exitCode(err)
}

// runRefDelete removes a reference entry after confirmation and returns exit code
func runRefDelete(ctx context.Context, w io.Writer, kind refKind, args []string, yes bool) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	prompt := fmt.Sprintf("Excluir %q?", args[len(args)-1])
	if kind == refClientes {
		prompt = fmt.Sprintf("Excluir o cliente %q e todas as suas secretarias?", args[0])
	}
	if !confirmed(yes, prompt) {
		fmt.Fprintln(w, "Cancelado.")
		return 1
	}

	switch kind {
	case refClientes:
		err = a.DeleteCliente(ctx, args[0])
	case refSecretarias:
		err = a.DeleteSecretaria(ctx, args[0], args[1])
	case refTipos:
		err = a.DeleteTipoPeca(ctx, args[0])
	}
	return exitCode(err)
}
