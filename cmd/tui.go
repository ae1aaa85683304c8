// ABOUTME: TUI command for gestao-pecas
// ABOUTME: Opens the interactive terminal interface, logging to a file under the config dir

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/gestao-pecas/internal/app"
	"github.com/markalston/gestao-pecas/internal/logger"
	"github.com/markalston/gestao-pecas/internal/tui"
	"github.com/spf13/cobra"
)

var tuiDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal interface",
	Long: `Open the interactive terminal interface.

Proof images are picked starting from --dir, and saved proofs and exported
PDFs are written there. Logs go to debug.log in the config directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runTUI(ctx, stderr, tuiDir, tui.Run)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiDir, "dir", "", "Working directory for proofs and PDFs (default: current directory)")
	rootCmd.AddCommand(tuiCmd)
}

// runner starts the interface; tests replace it
type runner func(ctx context.Context, core *app.App, bridge *tui.Bridge, opts tui.Options) error

// runTUI wires the app to a bridge presenter and runs the interface
func runTUI(ctx context.Context, w io.Writer, dir string, run runner) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}
	dir, err = filepath.Abs(dir)
	if err == nil {
		var info os.FileInfo
		if info, err = os.Stat(dir); err == nil && !info.IsDir() {
			err = fmt.Errorf("%s is not a directory", dir)
		}
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	logFile, err := logger.OpenFile(cfg.ConfigDir)
	if err != nil {
		fmt.Fprintf(w, "Warning: %v\n", err)
	}
	log := logger.Discard()
	if logFile != nil {
		defer logFile.Close()
		log = logger.Init(logFile, cfg.Log.Level, cfg.Log.Format)
	}

	bridge := tui.NewBridge()
	core := buildApp(cfg, bridge, log)
	log.Info("Starting TUI", "api_url", cfg.APIURL, "dir", dir)

	err = run(ctx, core, bridge, tui.Options{
		WorkDir:   dir,
		ConfigDir: cfg.ConfigDir,
		Logger:    log,
	})
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}
