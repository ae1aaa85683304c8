// ABOUTME: Health command for gestao-pecas CLI
// ABOUTME: Checks backend connectivity and reports whether authentication is enabled

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/markalston/gestao-pecas/internal/client"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the Sistema de Gestão de Peças backend and report its authentication mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	return 0
}

// authLabel describes the authentication mode reported by the backend
func authLabel(resp *client.HealthResponse) string {
	if resp.AuthDisabled != nil && *resp.AuthDisabled {
		return "disabled (test mode)"
	}
	return "enabled"
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *client.HealthResponse) string {
	status := resp.Status
	if status == "" {
		status = "unknown"
	}
	return fmt.Sprintf(`Backend:        %s
Status:         %s
Authentication: %s`, url, status, authLabel(resp))
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *client.HealthResponse) string {
	output := map[string]interface{}{
		"backend":       url,
		"status":        resp.Status,
		"auth_disabled": resp.AuthDisabled != nil && *resp.AuthDisabled,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
