package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/config"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/notify"
	"github.com/dmitrijs2005/ministrysync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/ministrysync/internal/client/services"
	"github.com/dmitrijs2005/ministrysync/internal/client/session"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
	"github.com/dmitrijs2005/ministrysync/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	onlineCheckInterval = 30 * time.Second
	retryDelay          = 500 * time.Millisecond
)

type App struct {
	config   *config.Config
	log      logging.Logger
	api      client.Client
	svc      *services.Services
	cache    *cache.QueryClient
	session  session.Store
	banner   *session.Banner
	notifier notify.Notifier
	db       *sql.DB
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time
	routes   []route
	// metrics defaults to the process-wide registry when nil.
	metrics prometheus.Gatherer

	// last is the most recent page load, repeated by retry.
	last   func(ctx context.Context) error
	online atomic.Bool
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(c.LogLevel, c.LogFormat, os.Stderr)

	db, err := session.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	repo := metadata.NewSQLiteRepository(db)

	api, err := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, client.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	media, err := newMediaStore(ctx, c, api)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	qc := cache.NewQueryClient(
		cache.NewLRUStore(c.CacheSize, c.CacheTTL),
		cache.WithStaleTime(c.StaleTime),
		cache.WithRetries(c.QueryRetries, retryDelay),
		cache.WithLogger(log),
	)
	n := notify.NewWriterNotifier(os.Stdout)
	runner := mutation.NewRunner(qc, n, log)

	a := &App{
		config:   c,
		log:      log,
		api:      api,
		svc:      services.New(api, media, runner),
		cache:    qc,
		session:  session.NewMetadataStore(repo),
		banner:   session.NewBanner(repo),
		notifier: n,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}
	a.online.Store(true)
	return a, nil
}

// newMediaStore sends uploads straight to the bucket when S3 is configured
// and through the backend upload endpoints otherwise.
func newMediaStore(ctx context.Context, c *config.Config, api client.Client) (upload.MediaStore, error) {
	if !c.UseS3() {
		return upload.NewHTTPStore(api.Uploads()), nil
	}
	s, err := upload.NewS3Store(ctx, upload.S3Settings{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		PublicURL:    c.S3PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init media store: %w", err)
	}
	return s, nil
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	if a.online.Swap(mode == ModeOnline) != (mode == ModeOnline) {
		a.log.Info(ctx, "switched mode", "mode", mode)
	}
}

func (a *App) mode() Mode {
	if a.online.Load() {
		return ModeOnline
	}
	return ModeOffline
}

// Run shows the announcement banner and blocks in the REPL until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)
	if a.config.MetricsAddr != "" {
		go a.serveMetrics(ctx, a.config.MetricsAddr)
	}

	printlnFn("Ministry admin CLI (type 'help' for commands)")
	a.showBanner(ctx)
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

// Close drains background refetches and releases the database.
func (a *App) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) getStatus() string {
	s := string(a.mode())
	if a.isAdmin(context.Background()) {
		s = "admin " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) isAdmin(ctx context.Context) bool {
	ok, err := a.session.IsAdmin(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read admin flag", "error", err)
		return false
	}
	return ok
}

func (a *App) requireAdmin(ctx context.Context) error {
	if err := session.RequireAdmin(ctx, a.session); err != nil {
		a.notifier.Error("Admin access required. Use 'login' first.")
		return err
	}
	return nil
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
