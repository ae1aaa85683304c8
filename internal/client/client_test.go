// ABOUTME: Tests for the piece-tracking API client
// ABOUTME: Uses httptest to mock backend responses and a fake session

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSession struct {
	mu           sync.Mutex
	token        string
	authDisabled bool
	notified     bool
	expiries     int
}

func (f *fakeSession) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSession) AuthDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authDisabled
}

func (f *fakeSession) ExpireSession() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.expiries++
	if f.notified {
		return false
	}
	f.notified = true
	return true
}

type countingHandler struct{ calls atomic.Int32 }

func (h *countingHandler) SessionExpired() { h.calls.Add(1) }

func TestHealth_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected path /health, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("health must not send a token, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","authDisabled":true}`))
	}))
	defer server.Close()

	c := New(server.URL, WithSession(&fakeSession{token: "tok1"}))
	resp, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if resp.AuthDisabled == nil || !*resp.AuthDisabled {
		t.Errorf("expected authDisabled true, got %v", resp.AuthDisabled)
	}
}

func TestHealth_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if KindOf(err) != KindTransport {
		t.Errorf("expected transport kind, got %s", KindOf(err))
	}
	if err.Error() != MsgCannotConnect {
		t.Errorf("expected %q, got %q", MsgCannotConnect, err.Error())
	}
}

func TestHealth_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Health(ctx)
	if KindOf(err) != KindCanceled {
		t.Errorf("expected canceled kind, got %v", err)
	}
}

func TestHealth_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Health(ctx)
	if KindOf(err) != KindTimeout {
		t.Errorf("expected timeout kind, got %v", err)
	}
}

func TestRequest_QueryDropsEmptyValues(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListPecas(context.Background(), PecaFilter{Cliente: "São Paulo", DataFim: "2024-01-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "cliente=S%C3%A3o+Paulo&dataFim=2024-01-31" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestRequest_PaginationParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	New(server.URL).ListPecas(context.Background(), PecaFilter{Page: 2, PageSize: 50})
	if gotQuery != "page=2&pageSize=50" {
		t.Errorf("unexpected query %q", gotQuery)
	}
}

func TestRequest_ContentTypeRules(t *testing.T) {
	tests := []struct {
		name       string
		opts       RequestOptions
		wantHeader string
	}{
		{"bodiless GET", RequestOptions{}, ""},
		{"POST with body", RequestOptions{Method: http.MethodPost, Body: map[string]string{"nome": "x"}}, "application/json"},
		{"bodiless DELETE", RequestOptions{Method: http.MethodDelete}, "application/json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Content-Type")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			if _, err := New(server.URL).Request(context.Background(), "/api/x", tc.opts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wantHeader {
				t.Errorf("expected Content-Type %q, got %q", tc.wantHeader, got)
			}
		})
	}
}

func TestRequest_BearerTokenAndRequestID(t *testing.T) {
	var auth, requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := New(server.URL, WithSession(&fakeSession{token: "tok1"}))
	if _, err := c.ListClientes(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer tok1" {
		t.Errorf("expected bearer token, got %q", auth)
	}
	if requestID == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRequest_NoTokenWhenLoggedOut(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	New(server.URL, WithSession(&fakeSession{})).ListClientes(context.Background())
	if auth != "" {
		t.Errorf("expected no Authorization header, got %q", auth)
	}
}

func TestRequest_ResponseBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"no content", http.StatusNoContent, "", ""},
		{"json", http.StatusOK, ` {"id":1} `, `{"id":1}`},
		{"empty 200", http.StatusOK, "", ""},
		{"unparsable 200", http.StatusOK, "<html>ok</html>", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			raw, err := New(server.URL).Request(context.Background(), "/api/x", RequestOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(raw) != tc.want {
				t.Errorf("expected %q, got %q", tc.want, string(raw))
			}
		})
	}
}

func TestRequest_ErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantKind Kind
	}{
		{"detail", http.StatusBadRequest, `{"detail":"Cliente já existe."}`, "Cliente já existe.", KindValidation},
		{"message", http.StatusConflict, `{"message":"duplicado"}`, "duplicado", KindConflict},
		{"raw json", http.StatusUnprocessableEntity, `{"errors": [1, 2]}`, `{"errors":[1,2]}`, KindValidation},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body"]}]}`, `[{"loc":["body"]}]`, KindValidation},
		{"status text", http.StatusNotFound, "", "Not Found", KindNotFound},
		{"non json body", http.StatusInternalServerError, "boom", "Internal Server Error", KindServerError},
		{"forbidden", http.StatusForbidden, `{"detail":"Permissão negada."}`, "Permissão negada.", KindForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			_, err := New(server.URL).Request(context.Background(), "/api/x", RequestOptions{})
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if apiErr.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, apiErr.Message)
			}
			if apiErr.Kind != tc.wantKind {
				t.Errorf("expected kind %s, got %s", tc.wantKind, apiErr.Kind)
			}
			if apiErr.Status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, apiErr.Status)
			}
		})
	}
}

func TestRequest_UnauthorizedExpiresSessionOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token inválido"}`))
	}))
	defer server.Close()

	sess := &fakeSession{token: "tok1"}
	handler := &countingHandler{}
	c := New(server.URL, WithSession(sess))
	c.SetSessionExpiredHandler(handler)

	const burst = 3
	errs := make([]error, burst)
	var wg sync.WaitGroup
	for i := range burst {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.ListPecas(context.Background(), PecaFilter{})
		}(i)
	}
	wg.Wait()

	if got := handler.calls.Load(); got != 1 {
		t.Errorf("expected exactly one expiry notification, got %d", got)
	}
	if sess.Token() != "" {
		t.Error("expected session to be cleared")
	}

	loud, silent := 0, 0
	for _, err := range errs {
		if KindOf(err) != KindUnauthorized {
			t.Errorf("expected unauthorized kind, got %v", err)
		}
		if IsSilent(err) {
			silent++
			continue
		}
		loud++
		if err.Error() != MsgSessionExpired {
			t.Errorf("expected %q, got %q", MsgSessionExpired, err.Error())
		}
	}
	if loud != 1 || silent != burst-1 {
		t.Errorf("expected 1 loud and %d silent errors, got %d and %d", burst-1, loud, silent)
	}
}

func TestRequest_UnauthorizedWithAuthDisabled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"nope"}`))
	}))
	defer server.Close()

	sess := &fakeSession{token: "dev-mode-token", authDisabled: true}
	handler := &countingHandler{}
	c := New(server.URL, WithSession(sess))
	c.SetSessionExpiredHandler(handler)

	_, err := c.ListClientes(context.Background())
	if err == nil || err.Error() != "nope" {
		t.Errorf("expected backend message, got %v", err)
	}
	if sess.Token() != "dev-mode-token" {
		t.Error("expected session to be kept in auth-disabled mode")
	}
	if handler.calls.Load() != 0 {
		t.Error("expected no expiry notification")
	}
}

func TestLogin_BadCredentialsDoNotExpireSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Usuário ou senha inválidos."}`))
	}))
	defer server.Close()

	sess := &fakeSession{}
	c := New(server.URL, WithSession(sess))

	_, err := c.Login(context.Background(), "ana", "wrong")
	if err == nil || err.Error() != "Usuário ou senha inválidos." {
		t.Errorf("expected backend message, got %v", err)
	}
	if sess.expiries != 0 {
		t.Errorf("expected no expiry, got %d", sess.expiries)
	}
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body LoginRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "ana" || body.Password != "secret" {
			t.Errorf("unexpected credentials %+v", body)
		}
		w.Write([]byte(`{"access_token":"tok1","token_type":"bearer","user":{"id":5,"username":"ana","nome":"Ana","role":"master"}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken != "tok1" || resp.User.Nome != "Ana" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestUpdatePeca_SendsOnlySetFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/pecas/7" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id":7,"nomePeca":"Novo"}`))
	}))
	defer server.Close()

	nome := "Novo"
	peca, err := New(server.URL).UpdatePeca(context.Background(), 7, PecaPatch{NomePeca: &nome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 1 || body["nomePeca"] != "Novo" {
		t.Errorf("expected only nomePeca in body, got %v", body)
	}
	if peca.ID != 7 {
		t.Errorf("expected id 7, got %d", peca.ID)
	}
}

func TestDeletePeca_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/pecas/3" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL).DeletePeca(context.Background(), 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRelatorioPecas_Decodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataInicio") != "2024-01-01" {
			t.Errorf("expected dataInicio filter, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"info":{"cliente":"Alfa","secretaria":null,"dataInicio":"2024-01-01","dataFim":"2024-01-31"},
			"stats":{"totalPecas":3,"totalSecretarias":1},
			"linhas":[{"secretaria":"Saúde","tipoPeca":"Post","nomePeca":"Vacina","dataCriacao":"2024-01-05","quantidade":3}]
		}`))
	}))
	defer server.Close()

	rel, err := New(server.URL).RelatorioPecas(context.Background(), RelatorioFilter{DataInicio: "2024-01-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel.Stats.TotalPecas != 3 || len(rel.Linhas) != 1 || rel.Linhas[0].Quantidade != 3 {
		t.Errorf("unexpected report %+v", rel)
	}
	if rel.Info.Cliente != "Alfa" {
		t.Errorf("expected cliente Alfa, got %q", rel.Info.Cliente)
	}
}

func TestPecaRegisteredAt(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{"2024-03-01T10:20:30", false},
		{"2024-03-01T10:20:30.123456", false},
		{"2024-03-01T10:20:30Z", false},
		{"", true},
		{"ontem", true},
	}
	for _, tc := range tests {
		got := Peca{DataCadastro: tc.in}.RegisteredAt()
		if got.IsZero() != tc.zero {
			t.Errorf("RegisteredAt(%q) zero = %v, want %v", tc.in, got.IsZero(), tc.zero)
		}
	}
}
