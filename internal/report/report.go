// ABOUTME: Renders a generated piece report as a PDF document
// ABOUTME: Groups report lines by secretariat and lays out header, lists, and totals

package report

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/markalston/gestao-pecas/internal/client"
)

// Fallback labels
const (
	NoSecretaria    = "Sem Secretaria"
	NoName          = "Sem nome"
	AllClients      = "TODOS OS CLIENTES"
	MonthUnknown    = "NÃO ESPECIFICADO"
	PeriodUnknown   = "PERÍODO NÃO ESPECIFICADO"
	FooterSignature = "SIGEPRE - Sistema MSL Estratégia"
)

var months = [...]string{
	"JANEIRO", "FEVEREIRO", "MARÇO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

// Group is the list of report lines of one secretariat
type Group struct {
	Secretaria string
	Linhas     []client.RelatorioLinha
}

// GroupBySecretaria groups lines in first-seen order; blank names fall under NoSecretaria
func GroupBySecretaria(linhas []client.RelatorioLinha) []Group {
	var groups []Group
	index := map[string]int{}
	for _, l := range linhas {
		name := strings.TrimSpace(l.Secretaria)
		if name == "" {
			name = NoSecretaria
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Secretaria: name})
		}
		groups[i].Linhas = append(groups[i].Linhas, l)
	}
	return groups
}

// MonthName returns the upper-case Portuguese month of a YYYY-MM-DD date
func MonthName(dataInicio string) string {
	t, err := time.Parse(client.DateLayout, dataInicio)
	if err != nil {
		return MonthUnknown
	}
	return months[t.Month()-1]
}

// Period describes the report period for the header
func Period(info client.RelatorioInfo) string {
	if info.DataInicio == "" || info.DataFim == "" {
		return PeriodUnknown
	}
	return MonthName(info.DataInicio)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the export file name for a report of cliente generated at now
func FileName(cliente string, now time.Time) string {
	name := "Todos"
	if cliente != "" {
		name = whitespace.ReplaceAllString(cliente, "_")
	}
	return fmt.Sprintf("GJ_RELATORIO_%s_%s.pdf", name, now.Format(client.DateLayout))
}

const margin = 20.0

// WritePDF renders rel to w
func WritePDF(w io.Writer, rel *client.Relatorio, now time.Time) error {
	if rel == nil {
		return fmt.Errorf("no report to export")
	}
	pdf := build(rel, now)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func build(rel *client.Relatorio, now time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(now)
	pdf.SetTitle("Relatório de peças", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.AddPage()
	header(pdf, tr, rel.Info, pageWidth)

	y := 60.0
	pdf.SetTextColor(0, 0, 0)
	for _, g := range GroupBySecretaria(rel.Linhas) {
		if y > pageHeight-40 {
			pdf.AddPage()
			y = 20
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Text(margin, y, tr(fmt.Sprintf("%s - %d PEÇAS", strings.ToUpper(g.Secretaria), len(g.Linhas))))
		y += 7

		for i, l := range g.Linhas {
			if y > pageHeight-20 {
				pdf.AddPage()
				y = 20
			}
			pdf.SetFont("Helvetica", "B", 9)
			pdf.Text(margin+2, y, fmt.Sprintf("%d", i+1))

			pdf.SetFont("Helvetica", "", 9)
			nome := l.NomePeca
			if nome == "" {
				nome = NoName
			}
			lines := pdf.SplitText(tr(nome), pageWidth-margin-25)
			for j, text := range lines {
				pdf.Text(margin+8, y+float64(j)*4.5, text)
			}
			y += max(5, float64(len(lines))*4.5)
		}
		y += 5
	}

	if y < pageHeight-30 {
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(margin, y, pageWidth-margin, y)
		y += 8
	} else {
		pdf.AddPage()
		y = 20
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(margin, y, tr(fmt.Sprintf("TOTAL: %d peças cadastradas em %d secretaria(s)",
		rel.Stats.TotalPecas, rel.Stats.TotalSecretarias)))

	footerY := pageHeight - 10
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(margin, footerY, tr("Relatório gerado em "+now.Format("02/01/2006, 15:04")))
	signature := tr(FooterSignature)
	pdf.Text(pageWidth-margin-pdf.GetStringWidth(signature), footerY, signature)

	return pdf
}

func header(pdf *fpdf.Fpdf, tr func(string) string, info client.RelatorioInfo, pageWidth float64) {
	pdf.SetFillColor(0, 0, 0)
	pdf.Polygon([]fpdf.PointType{{X: 0, Y: 0}, {X: 70, Y: 0}, {X: 0, Y: 35}}, "F")

	pdf.SetFillColor(64, 190, 175)
	pdf.Polygon([]fpdf.PointType{{X: 70, Y: 0}, {X: pageWidth, Y: 0}, {X: pageWidth, Y: 50}}, "F")
	pdf.Polygon([]fpdf.PointType{{X: 70, Y: 0}, {X: 0, Y: 35}, {X: pageWidth, Y: 50}}, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	rightText(pdf, tr("MSL ESTRATÉGIA"), pageWidth-15, 10)
	pdf.SetFont("Helvetica", "", 8)
	rightText(pdf, tr("COMUNICAÇÃO & MARKETING"), pageWidth-15, 15)

	cliente := info.Cliente
	if cliente == "" {
		cliente = AllClients
	}
	pdf.SetFont("Helvetica", "B", 13)
	centerText(pdf, "ATIVIDADES DA PREFEITURA", pageWidth, 23)
	centerText(pdf, tr("DE "+strings.ToUpper(cliente)), pageWidth, 30)

	pdf.SetFont("Helvetica", "", 9)
	centerText(pdf, tr("NO MÊS DE "+Period(info)), pageWidth, 37)
}

func rightText(pdf *fpdf.Fpdf, text string, right, y float64) {
	pdf.Text(right-pdf.GetStringWidth(text), y, text)
}

func centerText(pdf *fpdf.Fpdf, text string, pageWidth, y float64) {
	pdf.Text((pageWidth-pdf.GetStringWidth(text))/2, y, text)
}
