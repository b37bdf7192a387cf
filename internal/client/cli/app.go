package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/payrun/internal/client/client"
	"github.com/dmitrijs2005/payrun/internal/client/config"
)

type App struct {
	config  *config.Config
	client  client.Client
	out     io.Writer
	scanner *bufio.Scanner
}

func NewApp(c *config.Config) (*App, error) {

	apiClient, err := client.NewPayrunClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, out: os.Stdout, scanner: bufio.NewScanner(os.Stdin)}, nil
}

// Run starts the REPL and blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	printlnFn("payrun CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.scanner)
}

func (a *App) status() string {
	return a.config.ServerEndpointAddr
}
