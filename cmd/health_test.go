// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/gestao-pecas/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &client.HealthResponse{Status: "ok"}

	output := formatHealthHuman("http://localhost:8000", resp)

	if !bytes.Contains([]byte(output), []byte("http://localhost:8000")) {
		t.Error("expected output to contain backend URL")
	}
	if !bytes.Contains([]byte(output), []byte("Authentication: enabled")) {
		t.Errorf("expected auth enabled when flag is absent, got %q", output)
	}
}

func TestFormatHealthHuman_AuthDisabled(t *testing.T) {
	disabled := true
	resp := &client.HealthResponse{Status: "ok", AuthDisabled: &disabled}

	output := formatHealthHuman("http://localhost:8000", resp)

	if !bytes.Contains([]byte(output), []byte("disabled (test mode)")) {
		t.Errorf("expected test mode label, got %q", output)
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &client.HealthResponse{Status: "ok"}

	output := formatHealthJSON("http://localhost:8000", resp)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["backend"] != "http://localhost:8000" {
		t.Errorf("expected backend URL in JSON, got %v", parsed["backend"])
	}
	if parsed["auth_disabled"] != false {
		t.Errorf("expected auth_disabled false, got %v", parsed["auth_disabled"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("health must not send a token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","authDisabled":true}`))
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("test mode")) {
		t.Errorf("expected test mode in output, got %q", buf.String())
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Não foi possível conectar ao servidor.")) {
		t.Errorf("expected connection message, got %q", buf.String())
	}
}
