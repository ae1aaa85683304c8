// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies API URL precedence across flag, environment, and defaults, and exit codes

package cmd

import (
	"errors"
	"testing"

	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/markalston/gestao-pecas/internal/config"
	"github.com/spf13/viper"
)

// resetConfig points viper at an empty config dir with no overrides
func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	apiURL = ""
	t.Cleanup(func() {
		viper.Reset()
		apiURL = ""
	})
}

func TestGetAPIURL_Default(t *testing.T) {
	resetConfig(t)
	config.SetDefaults()

	url := GetAPIURL()
	if url != "http://localhost:8000" {
		t.Errorf("expected default URL http://localhost:8000, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	resetConfig(t)
	t.Setenv("GESTAO_PECAS_API_URL", "http://backend.example.com/")
	if err := config.Init(""); err != nil {
		t.Fatalf("config.Init: %v", err)
	}

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	resetConfig(t)
	t.Setenv("GESTAO_PECAS_API_URL", "http://backend.example.com")
	if err := config.Init(""); err != nil {
		t.Fatalf("config.Init: %v", err)
	}
	apiURL = "http://flag-override.example.com/"

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestLoadConfig_InvalidURL(t *testing.T) {
	resetConfig(t)
	config.SetDefaults()
	apiURL = "ftp://example.com"

	if _, err := loadConfig(); err == nil {
		t.Error("expected an error for a non-http API URL")
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"refusal", &app.Refusal{Reason: app.ErrValidation, Message: "x"}, 1},
		{"backend", &client.Error{Kind: client.KindServerError, Message: "boom"}, 2},
		{"transport", errors.New("connection refused"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
