package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/triptales/internal/client/client"
	"github.com/dmitrijs2005/triptales/internal/client/config"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pingTimeout bounds a single connectivity probe of the watcher.
const pingTimeout = 3 * time.Second

// api is the part of client.Client the CLI uses.
type api interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*client.Session, error)
	ListItineraries(ctx context.Context, status string, limit int) (*client.ItineraryPage, error)
	GetItinerary(ctx context.Context, id string) (*client.Itinerary, error)
	SetStatus(ctx context.Context, token, id, status, note string) (*client.Itinerary, error)
}

type App struct {
	config *config.Config
	api    api
	reader *bufio.Reader
	out    io.Writer

	token string
	user  *client.User

	mu   sync.Mutex
	mode Mode
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := client.New(c.ServerURL, c.RequestTimeout)
	return newApp(c, apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, a api, in io.Reader, out io.Writer) *App {
	return &App{config: c, api: a, reader: bufio.NewReader(in), out: out}
}

// Mode reports the connectivity state last seen by the watcher.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

// checkOnline probes the server once and updates the mode.
func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the server every interval until ctx is done.
// A non-positive interval disables the watcher.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
