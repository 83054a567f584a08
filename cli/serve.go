// ABOUTME: Web server subcommand
// ABOUTME: Opens the session store and serves the contacts web front-end
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/contacts"
	"github.com/harperreed/gcontacts/logger"
	"github.com/harperreed/gcontacts/session"
	"github.com/harperreed/gcontacts/web"
)

// ServeCommand starts the web server and blocks until SIGINT/SIGTERM.
func ServeCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", app.Config.Addr, "Listen address")
	backend := fs.String("session-backend", app.Config.SessionBackend, "Session store (sqlite, badger, memory)")
	_ = fs.Parse(args)

	app.Config.Addr = *addr
	app.Config.SessionBackend = *backend

	if err := app.Config.RequireOAuth(); err != nil {
		return err
	}

	sessions, err := session.Open(app.Config)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() { _ = sessions.Close() }()

	client := contacts.NewClient(auth.ContextTokenProvider{}, app.peopleOptions()...)

	srv, err := web.NewServer(app.Config, app.OAuth, sessions, client)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("session store ready", "backend", app.Config.SessionBackend, "data_dir", app.Config.DataDir)
	return srv.Start(ctx)
}
