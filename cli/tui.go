// ABOUTME: TUI subcommand
// ABOUTME: Launches the interactive contacts browser when attached to a terminal
package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/harperreed/gcontacts/tui"
)

// TUICommand runs the full-screen contacts browser.
func TUICommand(app *App) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}
	return tui.Run(context.Background(), app.Client())
}
