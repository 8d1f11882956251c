// Package cli wires the jotfox command tree: the API and UI servers and a
// terminal client for the note store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jotfox-notes/jotfox/config"
	"jotfox-notes/jotfox/gateway"
	"jotfox-notes/jotfox/store"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	JSON       bool

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "jotfox",
		Short:        "JotFox notes: API server, UI bridge and terminal client",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Run the API and the UI bridge
  jotfox api
  jotfox ui

  # Use the terminal client
  jotfox login --email ada@example.com --password hunter22
  jotfox notes add --title "Buy milk" --category Errands
  jotfox notes list --search milk
  jotfox notes move 2 0
`),
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "YAML config file (env vars still win)")
	cmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "print results as JSON")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if app.ConfigPath == "" {
			app.cfg = config.Load()
		} else {
			cfg, err := config.LoadFile(app.ConfigPath)
			if err != nil {
				return err
			}
			app.cfg = cfg
		}
		config.SetupLogging(app.cfg)
		return nil
	}

	cmd.AddCommand(
		newAPICmd(app),
		newUICmd(app),
		newEventsCmd(app),
		newLoginCmd(app),
		newRegisterCmd(app),
		newLogoutCmd(app),
		newNotesCmd(app),
		newCategoriesCmd(app),
	)
	return cmd
}

// client builds a gateway client whose session lives in the token file.
func (a *App) client() (*gateway.Client, error) {
	appCtx := gateway.NewAppContext(gateway.FileTokenStore{Path: a.cfg.TokenFile})
	if err := appCtx.Init(); err != nil {
		return nil, err
	}
	return gateway.NewClient(a.cfg.APIURL, appCtx), nil
}

// loadStore returns a note store already holding the server's notes.
func (a *App) loadStore(ctx context.Context) (*store.NoteStore, error) {
	client, err := a.client()
	if err != nil {
		return nil, err
	}
	s := store.New(client)
	if _, err := s.Load(ctx); err != nil {
		return nil, friendly(err)
	}
	return s, nil
}

func friendly(err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return fmt.Errorf("%w (run `jotfox login`)", err)
	}
	return err
}
