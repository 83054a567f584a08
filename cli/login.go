// ABOUTME: Google OAuth CLI commands
// ABOUTME: Runs a local callback server to obtain and save a token, or removes it
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"time"

	"golang.org/x/oauth2"

	"github.com/harperreed/gcontacts/auth"
)

// LoginCommand handles OAuth setup for the CLI, MCP, and TUI surfaces.
func LoginCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	noBrowser := fs.Bool("no-browser", false, "Print the authorization URL without opening a browser")
	_ = fs.Parse(args)

	if err := app.Config.RequireOAuth(); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", app.Config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", app.Config.Addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	token, err := runLoginFlow(ctx, app.OAuth, ln, func(authURL string) {
		_, _ = fmt.Fprintln(app.Out, "Opening browser for Google OAuth...")
		_, _ = fmt.Fprintf(app.Out, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
		if !*noBrowser {
			_ = openBrowser(authURL)
		}
	})
	if err != nil {
		return err
	}

	if err := auth.SaveToken(app.Config.TokenPath(), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	_, _ = fmt.Fprintf(app.Out, "\n✓ Authenticated successfully\n")
	_, _ = fmt.Fprintf(app.Out, "✓ Token saved to %s\n\n", app.Config.TokenPath())
	_, _ = fmt.Fprintln(app.Out, "Run 'gcontacts contacts list' to see your contacts.")
	return nil
}

// runLoginFlow serves /oauth/callback on ln until a code arrives, then exchanges it.
func runLoginFlow(ctx context.Context, oauthCfg *oauth2.Config, ln net.Listener, open func(authURL string)) (*oauth2.Token, error) {
	state := auth.NewNonce()
	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "Invalid state", http.StatusBadRequest)
			return
		}
		if e := query.Get("error"); e != "" {
			http.Error(w, "Authorization denied", http.StatusBadRequest)
			sendErr(errChan, fmt.Errorf("authorization denied: %s", e))
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "Missing code", http.StatusBadRequest)
			sendErr(errChan, fmt.Errorf("no authorization code received"))
			return
		}

		token, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			http.Error(w, "Token exchange failed", http.StatusBadGateway)
			sendErr(errChan, fmt.Errorf("failed to exchange code: %w", err))
			return
		}

		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
		// Only the first result is consumed
		select {
		case callbackChan <- token:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errChan, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	open(oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")))

	select {
	case token := <-callbackChan:
		return token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("OAuth flow cancelled: %w", ctx.Err())
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// LogoutCommand removes the saved token.
func LogoutCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	_ = fs.Parse(args)

	if err := auth.DeleteToken(app.Config.TokenPath()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(app.Out, "✓ Logged out")
	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
