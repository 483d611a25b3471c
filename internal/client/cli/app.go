package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/folio/internal/client/client"
	"github.com/dmitrijs2005/folio/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewFolioClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) status() string {
	if a.email == "" {
		return "(not logged in)"
	}
	return "(" + a.email + ")"
}

// Run pings the server, starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	printlnFn("folioctl (type 'help' for commands)")
	pctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	if err := a.api.Ping(pctx); err != nil {
		printlnFn("Server not reachable:", err)
	}
	cancel()

	runREPL(ctx, a, a.status, a.reader)
}
