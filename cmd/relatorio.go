// ABOUTME: Report command for gestao-pecas CLI
// ABOUTME: Generates the aggregated piece report and optionally exports it as PDF

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/report"
	"github.com/spf13/cobra"
)

var (
	relatorioFilter client.RelatorioFilter
	relatorioPDF    string
)

var relatorioCmd = &cobra.Command{
	Use:   "relatorio",
	Short: "Generate the piece report",
	Long: `Generate the piece report grouped by secretariat.

With --pdf the report is also exported. A directory argument receives the
default file name (GJ_RELATORIO_<cliente>_<date>.pdf).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRelatorio(ctx, os.Stdout, relatorioFilter, relatorioPDF)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(relatorioCmd)
	f := relatorioCmd.Flags()
	f.StringVar(&relatorioFilter.Cliente, "cliente", "", "Client (all clients when omitted)")
	f.StringVar(&relatorioFilter.Secretaria, "secretaria", "", "Secretariat")
	f.StringVar(&relatorioFilter.DataInicio, "desde", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&relatorioFilter.DataFim, "ate", "", "End date (YYYY-MM-DD)")
	f.StringVar(&relatorioPDF, "pdf", "", "Export the report to this PDF file or directory")
}

// runRelatorio generates the report and returns exit code
func runRelatorio(ctx context.Context, w io.Writer, filter client.RelatorioFilter, pdfPath string) int {
	a, err := newCLIApp(ctx, false)
	if err != nil {
		return reportSetupError(err)
	}

	rel, err := a.GerarRelatorio(ctx, filter)
	if err != nil {
		return exitCode(err)
	}

	if pdfPath != "" {
		if info, err := os.Stat(pdfPath); err == nil && info.IsDir() {
			pdfPath = filepath.Join(pdfPath, a.ExportFileName())
		}
		f, err := os.OpenFile(pdfPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		exportErr := a.ExportarPDF(f)
		if closeErr := f.Close(); exportErr == nil && closeErr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", closeErr)
			return 2
		}
		if exportErr != nil {
			return 2
		}
		fmt.Fprintf(stderr, "PDF: %s\n", pdfPath)
	}

	if IsJSONOutput() {
		return writeJSON(w, rel)
	}
	fmt.Fprintln(w, formatRelatorioHuman(rel))
	return 0
}

// formatRelatorioHuman renders the report grouped by secretariat
func formatRelatorioHuman(rel *client.Relatorio) string {
	var b strings.Builder

	cliente := report.AllClients
	if rel.Info.Cliente != "" {
		cliente = strings.ToUpper(rel.Info.Cliente)
	}
	fmt.Fprintf(&b, "ATIVIDADES DE %s\n", cliente)
	fmt.Fprintf(&b, "NO MÊS DE %s", report.Period(rel.Info))
	if rel.Info.DataInicio != "" || rel.Info.DataFim != "" {
		fmt.Fprintf(&b, " (%s a %s)", orDash(rel.Info.DataInicio), orDash(rel.Info.DataFim))
	}
	b.WriteString("\n")

	for _, g := range report.GroupBySecretaria(rel.Linhas) {
		total := 0
		rows := make([][]string, 0, len(g.Linhas))
		for i, l := range g.Linhas {
			total += l.Quantidade
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				l.TipoPeca,
				orDash(l.NomePeca),
				l.DataCriacao,
				orDash(l.DataVeiculacao),
				strconv.Itoa(l.Quantidade),
			})
		}
		fmt.Fprintf(&b, "\n%s - %d PEÇAS\n", strings.ToUpper(g.Secretaria), total)
		b.WriteString(renderTable([]string{"#", "Tipo", "Peça", "Criação", "Veiculação", "Qtd"}, rows))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nTOTAL: %d peças em %d secretaria(s)", rel.Stats.TotalPecas, rel.Stats.TotalSecretarias)
	return b.String()
}
