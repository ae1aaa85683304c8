// ABOUTME: Report generation and PDF export
// ABOUTME: Remembers the last generated report so it can be exported

package app

import (
	"context"
	"io"
	"time"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/permissions"
	"github.com/markalston/gestao-pecas/internal/report"
)

// GerarRelatorio fetches the aggregated report for filter
func (a *App) GerarRelatorio(ctx context.Context, filter client.RelatorioFilter) (*client.Relatorio, error) {
	if err := a.allow(permissions.ActionReport); err != nil {
		return nil, err
	}
	if startAfterEnd(filter.DataInicio, filter.DataFim) {
		return nil, a.invalid(MsgDateRange)
	}

	rel, err := a.api.RelatorioPecas(ctx, filter)
	if err != nil {
		return nil, a.fail(err, MsgReportFail)
	}
	if rel == nil || len(rel.Linhas) == 0 {
		a.ui.Toast(permissions.ToastError, MsgNoResults)
		return nil, &Refusal{Reason: ErrNoResults, Message: MsgNoResults}
	}

	a.mu.Lock()
	a.lastReport = rel
	a.mu.Unlock()
	return rel, nil
}

// LastReport returns the most recently generated report, or nil
func (a *App) LastReport() *client.Relatorio {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastReport
}

// ExportFileName returns the PDF file name for the last report
func (a *App) ExportFileName() string {
	rel := a.LastReport()
	if rel == nil {
		return report.FileName("", a.now())
	}
	return report.FileName(rel.Info.Cliente, a.now())
}

// ExportarPDF writes the last generated report to w as a PDF
func (a *App) ExportarPDF(w io.Writer) error {
	rel := a.LastReport()
	if rel == nil {
		return a.invalid(MsgReportRequired)
	}
	if err := report.WritePDF(w, rel, a.now()); err != nil {
		a.ui.Toast(permissions.ToastError, err.Error())
		return err
	}
	a.success(MsgPDFExported)
	return nil
}

// startAfterEnd reports whether both dates parse and start is after end
func startAfterEnd(start, end string) bool {
	s, err := time.Parse(client.DateLayout, start)
	if err != nil {
		return false
	}
	e, err := time.Parse(client.DateLayout, end)
	if err != nil {
		return false
	}
	return s.After(e)
}
