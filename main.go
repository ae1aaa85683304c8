// ABOUTME: Entry point for the gestao-pecas client
// ABOUTME: Runs the command tree; the bare command opens the terminal UI

package main

import (
	"fmt"
	"os"

	"github.com/markalston/gestao-pecas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
