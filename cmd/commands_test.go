// ABOUTME: End-to-end tests for the CLI commands against a fake backend
// ABOUTME: Each test gets its own config dir, so the stored session is isolated

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/config"
	"github.com/markalston/gestao-pecas/internal/logger"
	"github.com/markalston/gestao-pecas/internal/testutil/fakeapi"
	"github.com/markalston/gestao-pecas/internal/tui"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type cliEnv struct {
	srv    *fakeapi.Server
	stderr *bytes.Buffer
	dir    string
}

// setupCLI points the commands at a fresh fake backend and config dir
func setupCLI(t *testing.T) *cliEnv {
	t.Helper()
	resetConfig(t)
	config.SetDefaults()

	srv := fakeapi.New(t)
	apiURL = srv.URL

	errBuf := &bytes.Buffer{}
	prevStderr := stderr
	stderr = errBuf
	prevCreds, prevConfirm := promptCredentials, promptConfirm
	prevLog := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prevLog)
		stderr = prevStderr
		jsonOutput = false
		promptCredentials, promptConfirm = prevCreds, prevConfirm
	})

	srv.SeedCliente("Alfa", "Saúde", "Educação")
	srv.SeedTipo("Post")
	return &cliEnv{srv: srv, stderr: errBuf, dir: t.TempDir()}
}

func (e *cliEnv) login(t *testing.T) {
	t.Helper()
	var out bytes.Buffer
	if code := runLogin(context.Background(), &out, "admin", "admin"); code != 0 {
		t.Fatalf("login exit code %d, stderr: %s", code, e.stderr.String())
	}
}

func (e *cliEnv) writeProof(t *testing.T) string {
	t.Helper()
	path := filepath.Join(e.dir, "print.png")
	if err := os.WriteFile(path, pngHeader, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoginWhoamiLogout(t *testing.T) {
	e := setupCLI(t)
	ctx := context.Background()

	var out bytes.Buffer
	if code := runLogin(ctx, &out, "admin", "admin"); code != 0 {
		t.Fatalf("login exit code %d", code)
	}
	if !strings.Contains(out.String(), "Administrador") {
		t.Errorf("login should print the identity, got %q", out.String())
	}

	out.Reset()
	if code := runWhoami(ctx, &out); code != 0 {
		t.Fatalf("whoami after login exit code %d", code)
	}
	if !strings.Contains(out.String(), "Master") {
		t.Errorf("whoami should show the role, got %q", out.String())
	}

	if code := runLogout(ctx, &out); code != 0 {
		t.Fatalf("logout exit code %d", code)
	}
	if !strings.Contains(e.stderr.String(), app.MsgLoggedOut) {
		t.Errorf("logout should toast %q, got %q", app.MsgLoggedOut, e.stderr.String())
	}

	out.Reset()
	if code := runWhoami(ctx, &out); code != 1 {
		t.Errorf("whoami without a session should exit 1, got %d", code)
	}
}

func TestLoginPromptsForMissingPassword(t *testing.T) {
	setupCLI(t)
	promptCredentials = func(username, password *string) error {
		if *username != "admin" {
			t.Errorf("prompt got username %q", *username)
		}
		*password = "admin"
		return nil
	}

	var out bytes.Buffer
	if code := runLogin(context.Background(), &out, "admin", ""); code != 0 {
		t.Errorf("expected exit 0, got %d", code)
	}
}

func TestLoginPromptAborted(t *testing.T) {
	setupCLI(t)
	promptCredentials = func(username, password *string) error {
		return errors.New("user aborted")
	}

	var out bytes.Buffer
	if code := runLogin(context.Background(), &out, "", ""); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	e := setupCLI(t)

	var out bytes.Buffer
	code := runLogin(context.Background(), &out, "admin", "wrong")

	if code != 2 {
		t.Errorf("backend rejection should exit 2, got %d", code)
	}
	if !strings.Contains(e.stderr.String(), "✗") {
		t.Errorf("expected an error toast, got %q", e.stderr.String())
	}
}

func TestPecasRequireSession(t *testing.T) {
	e := setupCLI(t)

	var out bytes.Buffer
	if code := runPecasList(context.Background(), &out, client.PecaFilter{}); code != 1 {
		t.Errorf("expected exit 1 without a session, got %d", code)
	}
	if !strings.Contains(e.stderr.String(), "gestao-pecas login") {
		t.Errorf("expected the login hint, got %q", e.stderr.String())
	}
}

func TestPecasLifecycle(t *testing.T) {
	e := setupCLI(t)
	e.login(t)
	ctx := context.Background()

	draft := app.PecaDraft{
		Cliente:     "Alfa",
		Secretaria:  "Saúde",
		TipoPeca:    "Post",
		NomePeca:    "Banner",
		DataCriacao: "2026-10-01",
	}
	var out bytes.Buffer
	if code := runPecasAdd(ctx, &out, draft, e.writeProof(t)); code != 0 {
		t.Fatalf("add exit code %d, stderr: %s", code, e.stderr.String())
	}
	pecas := e.srv.Pecas()
	if len(pecas) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(pecas))
	}
	id := strconv.Itoa(pecas[0].ID)

	jsonOutput = true
	out.Reset()
	if code := runPecasList(ctx, &out, client.PecaFilter{Cliente: "Alfa"}); code != 0 {
		t.Fatalf("list exit code %d", code)
	}
	var listed []client.Peca
	if err := json.Unmarshal(out.Bytes(), &listed); err != nil {
		t.Fatalf("list output is not JSON: %v", err)
	}
	if len(listed) != 1 || listed[0].NomePeca != "Banner" {
		t.Errorf("unexpected listing %+v", listed)
	}
	jsonOutput = false

	nome := "Banner novo"
	out.Reset()
	if code := runPecasEdit(ctx, &out, id, client.PecaPatch{NomePeca: &nome}, ""); code != 0 {
		t.Fatalf("edit exit code %d", code)
	}
	if got := e.srv.Pecas()[0].NomePeca; got != nome {
		t.Errorf("expected edited name %q, got %q", nome, got)
	}

	proofOut := filepath.Join(e.dir, "saved.png")
	out.Reset()
	if code := runPecasShow(ctx, &out, id, proofOut); code != 0 {
		t.Fatalf("show exit code %d", code)
	}
	saved, err := os.ReadFile(proofOut)
	if err != nil || !bytes.Equal(saved, pngHeader) {
		t.Errorf("saved proof mismatch: %v", err)
	}

	out.Reset()
	if code := runPecasDelete(ctx, &out, id, true); code != 0 {
		t.Fatalf("delete exit code %d", code)
	}
	if len(e.srv.Pecas()) != 0 {
		t.Error("piece should be deleted")
	}
}

func TestPecasAddRejectsNonImage(t *testing.T) {
	e := setupCLI(t)
	e.login(t)

	path := filepath.Join(e.dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 hello"), 0600); err != nil {
		t.Fatal(err)
	}
	draft := app.PecaDraft{Cliente: "Alfa", Secretaria: "Saúde", TipoPeca: "Post", NomePeca: "X", DataCriacao: "2026-10-01"}

	var out bytes.Buffer
	if code := runPecasAdd(context.Background(), &out, draft, path); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if len(e.srv.Pecas()) != 0 {
		t.Error("nothing should reach the backend")
	}
}

func TestPecasDeleteDeclined(t *testing.T) {
	e := setupCLI(t)
	e.login(t)
	id := e.srv.SeedPeca(client.Peca{Cliente: "Alfa", Secretaria: "Saúde", TipoPeca: "Post", NomePeca: "Banner", DataCriacao: "2026-10-01"})
	promptConfirm = func(string) (bool, error) { return false, nil }

	var out bytes.Buffer
	if code := runPecasDelete(context.Background(), &out, strconv.Itoa(id), false); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(out.String(), "Cancelado.") {
		t.Errorf("expected cancellation notice, got %q", out.String())
	}
	if len(e.srv.Pecas()) != 1 {
		t.Error("piece should survive a declined delete")
	}
}

func TestRelatorioExportsPDF(t *testing.T) {
	e := setupCLI(t)
	e.login(t)
	e.srv.SeedPeca(client.Peca{Cliente: "Alfa", Secretaria: "Saúde", TipoPeca: "Post", NomePeca: "Banner", DataCriacao: "2026-10-01"})

	var out bytes.Buffer
	code := runRelatorio(context.Background(), &out, client.RelatorioFilter{Cliente: "Alfa"}, e.dir)
	if code != 0 {
		t.Fatalf("relatorio exit code %d, stderr: %s", code, e.stderr.String())
	}
	if !strings.Contains(out.String(), "Banner") {
		t.Errorf("report should list the piece, got %q", out.String())
	}

	matches, _ := filepath.Glob(filepath.Join(e.dir, "*.pdf"))
	if len(matches) != 1 {
		t.Fatalf("expected one PDF in %s, got %v", e.dir, matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("PDF not written correctly: %v", err)
	}
}

func TestRelatorioNoResults(t *testing.T) {
	e := setupCLI(t)
	e.login(t)

	var out bytes.Buffer
	if code := runRelatorio(context.Background(), &out, client.RelatorioFilter{Cliente: "Alfa"}, ""); code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(e.stderr.String(), app.MsgNoResults) {
		t.Errorf("expected %q, got %q", app.MsgNoResults, e.stderr.String())
	}
}

func TestRefAddAndList(t *testing.T) {
	e := setupCLI(t)
	e.login(t)
	ctx := context.Background()

	var out bytes.Buffer
	if code := runRefAdd(ctx, &out, refSecretarias, []string{"Alfa", "Obras"}); code != 0 {
		t.Fatalf("add exit code %d, stderr: %s", code, e.stderr.String())
	}

	out.Reset()
	if code := runRefList(ctx, &out, refSecretarias, "Alfa"); code != 0 {
		t.Fatalf("list exit code %d", code)
	}
	if !strings.Contains(out.String(), "Obras") {
		t.Errorf("expected the new secretariat, got %q", out.String())
	}

	out.Reset()
	if code := runRefAdd(ctx, &out, refClientes, []string{"Alfa"}); code != 1 {
		t.Errorf("duplicate client should exit 1, got %d", code)
	}
}

func TestUsuariosAddAndList(t *testing.T) {
	e := setupCLI(t)
	e.login(t)
	ctx := context.Background()

	var out bytes.Buffer
	if code := runUsuariosAdd(ctx, &out, "ana", "segredo", "financeiro"); code != 0 {
		t.Fatalf("add exit code %d, stderr: %s", code, e.stderr.String())
	}

	out.Reset()
	if code := runUsuariosList(ctx, &out); code != 0 {
		t.Fatalf("list exit code %d", code)
	}
	if !strings.Contains(out.String(), "ana") {
		t.Errorf("expected the new account, got %q", out.String())
	}
}

func TestRunTUIWiresBridgeAndLogFile(t *testing.T) {
	e := setupCLI(t)

	var got tui.Options
	var gotBridge *tui.Bridge
	stub := func(ctx context.Context, core *app.App, bridge *tui.Bridge, opts tui.Options) error {
		got, gotBridge = opts, bridge
		if core == nil {
			t.Error("core should be built")
		}
		slog.Warn("stray default log line")
		return nil
	}

	if code := runTUI(context.Background(), e.stderr, e.dir, stub); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, e.stderr.String())
	}
	if gotBridge == nil {
		t.Error("bridge should be passed to the runner")
	}
	if got.WorkDir != e.dir {
		t.Errorf("WorkDir = %q, want %q", got.WorkDir, e.dir)
	}
	data, err := os.ReadFile(filepath.Join(got.ConfigDir, logger.FileName))
	if err != nil {
		t.Fatalf("debug log should exist: %v", err)
	}
	if !strings.Contains(string(data), "stray default log line") {
		t.Errorf("default logger should write to the debug log, got %q", data)
	}
	if strings.Contains(e.stderr.String(), "stray default log line") {
		t.Errorf("default logger leaked to the terminal: %q", e.stderr.String())
	}
}

func TestRunTUIErrors(t *testing.T) {
	e := setupCLI(t)
	noop := func(context.Context, *app.App, *tui.Bridge, tui.Options) error { return nil }

	if code := runTUI(context.Background(), e.stderr, filepath.Join(e.dir, "missing"), noop); code != 1 {
		t.Errorf("missing dir should exit 1, got %d", code)
	}

	failing := func(context.Context, *app.App, *tui.Bridge, tui.Options) error { return errors.New("no tty") }
	if code := runTUI(context.Background(), e.stderr, e.dir, failing); code != 2 {
		t.Errorf("runner failure should exit 2, got %d", code)
	}
}
