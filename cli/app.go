// ABOUTME: Shared command dependencies
// ABOUTME: Builds OAuth config and People API clients from application config
package cli

import (
	"io"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/harperreed/gcontacts/auth"
	"github.com/harperreed/gcontacts/config"
	"github.com/harperreed/gcontacts/contacts"
)

// App carries what every command needs.
type App struct {
	Config  *config.Config
	OAuth   *oauth2.Config
	Out     io.Writer
	Version string
}

func NewApp(cfg *config.Config, version string) *App {
	return &App{
		Config:  cfg,
		OAuth:   auth.NewOAuthConfig(cfg),
		Out:     os.Stdout,
		Version: version,
	}
}

// peopleOptions returns client options derived from config.
func (a *App) peopleOptions() []option.ClientOption {
	if a.Config.PeopleEndpoint == "" {
		return nil
	}
	return []option.ClientOption{option.WithEndpoint(a.Config.PeopleEndpoint)}
}

// Client returns a contacts client authenticated by the saved CLI token.
func (a *App) Client() *contacts.Client {
	tokens := auth.FileTokenProvider{OAuth: a.OAuth, Path: a.Config.TokenPath()}
	return contacts.NewClient(tokens, a.peopleOptions()...)
}
