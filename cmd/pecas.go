// ABOUTME: Piece commands for gestao-pecas CLI
// ABOUTME: list, show, add, edit, and delete registered pieces

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/spf13/cobra"
)

var (
	pecaFilter   client.PecaFilter
	pecaDraft    app.PecaDraft
	pecaProof    string
	pecaProofOut string
	pecaYes      bool
)

var pecasCmd = &cobra.Command{
	Use:     "pecas",
	Aliases: []string{"peca"},
	Short:   "Manage registered pieces",
}

var pecasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pieces, newest registration first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPecasList(ctx, os.Stdout, pecaFilter)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pecasShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one piece and optionally save its proof image",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPecasShow(ctx, os.Stdout, args[0], pecaProofOut)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pecasAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a piece",
	Long: `Register a piece. Client, secretariat, type, name, creation date, and a
proof image (at most 5MB) are required.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPecasAdd(ctx, os.Stdout, pecaDraft, pecaProof)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pecasEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a piece",
	Long:  `Change fields of a piece. Only the flags given are sent; the rest are left unchanged.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPecasEdit(ctx, os.Stdout, args[0], patchFromFlags(cmd), pecaProof)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var pecasDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a piece",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPecasDelete(ctx, os.Stdout, args[0], pecaYes)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(pecasCmd)
	pecasCmd.AddCommand(pecasListCmd, pecasShowCmd, pecasAddCmd, pecasEditCmd, pecasDeleteCmd)

	lf := pecasListCmd.Flags()
	lf.StringVar(&pecaFilter.Cliente, "cliente", "", "Filter by client")
	lf.StringVar(&pecaFilter.Secretaria, "secretaria", "", "Filter by secretariat")
	lf.StringVar(&pecaFilter.TipoPeca, "tipo", "", "Filter by piece type")
	lf.StringVar(&pecaFilter.DataInicio, "desde", "", "Created on or after (YYYY-MM-DD)")
	lf.StringVar(&pecaFilter.DataFim, "ate", "", "Created on or before (YYYY-MM-DD)")
	lf.IntVar(&pecaFilter.Page, "page", 0, "Page number (backend default when omitted)")
	lf.IntVar(&pecaFilter.PageSize, "page-size", 0, "Page size (backend default when omitted)")

	pecasShowCmd.Flags().StringVar(&pecaProofOut, "proof-out", "", "Write the proof image to this file")

	for _, c := range []*cobra.Command{pecasAddCmd, pecasEditCmd} {
		f := c.Flags()
		f.StringVar(&pecaDraft.Cliente, "cliente", "", "Client")
		f.StringVar(&pecaDraft.Secretaria, "secretaria", "", "Secretariat")
		f.StringVar(&pecaDraft.TipoPeca, "tipo", "", "Piece type")
		f.StringVar(&pecaDraft.NomePeca, "nome", "", "Piece name")
		f.StringVar(&pecaDraft.DataCriacao, "criacao", "", "Creation date (YYYY-MM-DD)")
		f.StringVar(&pecaDraft.DataVeiculacao, "veiculacao", "", "Broadcast date (YYYY-MM-DD)")
		f.StringVar(&pecaDraft.Observacao, "obs", "", "Notes")
		f.StringVar(&pecaProof, "proof", "", "Proof image file (PNG, JPEG, GIF, WebP)")
	}

	pecasDeleteCmd.Flags().BoolVarP(&pecaYes, "yes", "y", false, "Skip the confirmation prompt")
}

// patchFromFlags builds a partial update from the flags actually given
func patchFromFlags(cmd *cobra.Command) client.PecaPatch {
	var patch client.PecaPatch
	set := func(name string, value string, field **string) {
		if cmd.Flags().Changed(name) {
			v := value
			*field = &v
		}
	}
	set("cliente", pecaDraft.Cliente, &patch.Cliente)
	set("secretaria", pecaDraft.Secretaria, &patch.Secretaria)
	set("tipo", pecaDraft.TipoPeca, &patch.TipoPeca)
	set("nome", pecaDraft.NomePeca, &patch.NomePeca)
	set("criacao", pecaDraft.DataCriacao, &patch.DataCriacao)
	set("veiculacao", pecaDraft.DataVeiculacao, &patch.DataVeiculacao)
	set("obs", pecaDraft.Observacao, &patch.Observacao)
	return patch
}

// runPecasList prints the pieces matching filter and returns exit code
func runPecasList(ctx context.Context, w io.Writer, filter client.PecaFilter) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}
	if !a.Session().Authenticated() {
		return 1
	}

	pecas, err := a.ListPecas(ctx, filter)
	if err != nil {
		return exitCode(err)
	}

	if IsJSONOutput() {
		if pecas == nil {
			pecas = []client.Peca{}
		}
		return writeJSON(w, pecas)
	}
	fmt.Fprintln(w, formatPecasHuman(pecas))
	return 0
}

// formatPecasHuman renders pieces as a table
func formatPecasHuman(pecas []client.Peca) string {
	if len(pecas) == 0 {
		return "Nenhuma peça cadastrada."
	}
	rows := make([][]string, 0, len(pecas))
	for _, p := range pecas {
		proof := "não"
		if p.HasComprovacao || p.Comprovacao != "" {
			proof = "sim"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			p.Cliente,
			p.Secretaria,
			p.TipoPeca,
			p.NomePeca,
			p.DataCriacao,
			orDash(p.DataVeiculacao),
			proof,
		})
	}
	return renderTable(
		[]string{"ID", "Cliente", "Secretaria", "Tipo", "Peça", "Criação", "Veiculação", "Print"},
		rows,
	) + fmt.Sprintf("\n%d peça(s)", len(pecas))
}

// runPecasShow prints one piece and returns exit code
func runPecasShow(ctx context.Context, w io.Writer, arg, proofOut string) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	peca, err := a.GetPeca(ctx, id)
	if err != nil {
		return exitCode(err)
	}

	if proofOut != "" {
		_, data, err := app.DecodeProof(peca.Comprovacao)
		if err != nil {
			fmt.Fprintf(stderr, "✗ %v\n", err)
			return 1
		}
		if err := os.WriteFile(proofOut, data, 0600); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	if IsJSONOutput() {
		return writeJSON(w, peca)
	}
	fmt.Fprintln(w, formatPecaHuman(peca))
	return 0
}

// formatPecaHuman renders the details of one piece
func formatPecaHuman(p *client.Peca) string {
	proof := "não"
	if p.Comprovacao != "" || p.HasComprovacao {
		proof = "sim"
	}
	return fmt.Sprintf(`ID:          %d
Cliente:     %s
Secretaria:  %s
Tipo:        %s
Peça:        %s
Criação:     %s
Veiculação:  %s
Observação:  %s
Print:       %s
Cadastro:    %s`,
		p.ID, p.Cliente, p.Secretaria, p.TipoPeca, p.NomePeca,
		p.DataCriacao, orDash(p.DataVeiculacao), orDash(p.Observacao), proof, orDash(p.DataCadastro))
}

// readProof loads a proof image from disk; an empty path yields nil
func readProof(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > app.MaxProofSize {
		return nil, fmt.Errorf("%s", app.MsgProofTooLarge)
	}
	return os.ReadFile(path)
}

// runPecasAdd registers a piece and returns exit code
func runPecasAdd(ctx context.Context, w io.Writer, draft app.PecaDraft, proofPath string) int {
	proof, err := readProof(proofPath)
	if err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}
	draft.Proof = proof

	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	peca, err := a.CreatePeca(ctx, draft)
	if err != nil {
		return exitCode(err)
	}
	if IsJSONOutput() {
		return writeJSON(w, peca)
	}
	fmt.Fprintf(w, "Peça %d cadastrada.\n", peca.ID)
	return 0
}

// runPecasEdit applies a partial update and returns exit code
func runPecasEdit(ctx context.Context, w io.Writer, arg string, patch client.PecaPatch, proofPath string) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	proof, err := readProof(proofPath)
	if err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}

	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	peca, err := a.UpdatePeca(ctx, id, patch, proof)
	if err != nil {
		return exitCode(err)
	}
	if IsJSONOutput() {
		return writeJSON(w, peca)
	}
	fmt.Fprintf(w, "Peça %d atualizada.\n", id)
	return 0
}

// runPecasDelete removes a piece after confirmation and returns exit code
func runPecasDelete(ctx context.Context, w io.Writer, arg string, yes bool) int {
	id, err := parseID(arg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	if !confirmed(yes, "Tem certeza que deseja excluir esta peça?") {
		fmt.Fprintln(w, "Cancelado.")
		return 1
	}
	if err := a.DeletePeca(ctx, id); err != nil {
		return exitCode(err)
	}
	fmt.Fprintf(w, "Peça %d excluída.\n", id)
	return 0
}
