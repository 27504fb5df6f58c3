// Package bootstrap wires configuration, logging, the API client, the
// fetch pipeline, the cache and the thumbnail loader into a runnable
// front-end.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/userfetcher/internal/client/cli"
	"github.com/dmitrijs2005/userfetcher/internal/client/client"
	"github.com/dmitrijs2005/userfetcher/internal/client/config"
	"github.com/dmitrijs2005/userfetcher/internal/client/repositories/cache"
	"github.com/dmitrijs2005/userfetcher/internal/client/services"
	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/thumbnail"
	"github.com/dmitrijs2005/userfetcher/internal/client/view"
	"github.com/dmitrijs2005/userfetcher/internal/filex"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	layout  table.Layout
	cache   cache.Repository
	fetcher *services.FetchService
	thumbs  *thumbnail.Dispatcher
	closers []io.Closer
}

// NewApp validates c and builds every dependency. console receives a copy
// of the log lines, nil keeps them in the log file only.
func NewApp(ctx context.Context, c *config.Config, console io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for _, p := range []string{c.LogFile, c.CachePath} {
		if _, err := filex.EnsureParentDir(p); err != nil {
			return nil, err
		}
	}

	logger, logCloser, err := logging.NewFileLogger(c.LogFile, logging.ParseLevel(c.LogLevel), console)
	if err != nil {
		return nil, err
	}
	app := &App{config: c, logger: logger, closers: []io.Closer{logCloser}}

	layout, err := table.NewLayout(c.Layout, c.CursusID)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.layout = layout

	repo, err := cache.Open(ctx, c.CacheBackend, c.CachePath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("cache init error: %w", err)
	}
	app.cache = repo
	app.closers = append([]io.Closer{repo}, app.closers...)

	api := client.NewHTTPClient(c.APIBaseURL, c.TokenURL, client.WithLogger(logger))
	app.fetcher = services.NewFetchService(
		api,
		services.NewCampusResolver(c.CampusName, c.FallbackCampusID, logger),
		services.NewUserPager(services.PagerConfig{
			PageSize:  c.PageSize,
			Attempts:  c.PageAttempts,
			RetryBase: c.PageRetryBase,
			PageDelay: c.PageDelay,
		}, logger),
		services.NewCoalitionEnricher(services.EnricherConfig{
			BatchSize: c.EnrichBatchSize,
			Delay:     c.EnrichDelay,
		}, logger),
		repo,
		logger,
	)

	loader := thumbnail.NewLoader(c.ThumbnailTimeout, c.ThumbnailSize, thumbnail.WithLogger(logger))
	app.thumbs = thumbnail.NewDispatcher(loader, c.ThumbnailWorkers, logger)

	return app, nil
}

// Close releases the cache and the log file.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) Layout() table.Layout { return a.layout }

func (a *App) Logger() logging.Logger { return a.logger }

// InitSignalHandler calls onSignal once on SIGINT, SIGTERM or SIGQUIT.
func (a *App) InitSignalHandler(onSignal func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		onSignal()
	}()
}

// NewPresenter builds the presenter for v. Thumbnails are only downloaded
// when withThumbnails is set.
func (a *App) NewPresenter(v view.View, withThumbnails bool) *view.Presenter {
	var thumbs view.ThumbnailStarter
	if withThumbnails {
		thumbs = a.thumbs
	}
	return view.NewPresenter(v, a.fetcher, a.config.Credentials, a.cache, thumbs, a.layout, a.logger)
}

// Serve runs p until ctx is done. The returned wait blocks until the
// presenter and every thumbnail download have stopped.
func (a *App) Serve(ctx context.Context, p *view.Presenter) (wait func()) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error(ctx, "presenter stopped", "error", err)
		}
	}()
	return func() {
		wg.Wait()
		a.thumbs.Wait()
	}
}

// RunCLI serves the terminal REPL on in and out. Thumbnails are not
// downloaded in this mode and signals keep their default behaviour, since
// the REPL blocks on reading in.
func (a *App) RunCLI(ctx context.Context, in io.Reader, out io.Writer) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	term := cli.NewTerminal(out)
	p := a.NewPresenter(term, false)

	a.logger.Info(ctx, "Starting app...", "layout", a.layout.Name, "cache", a.config.CacheBackend)
	wait := a.Serve(ctx, p)
	cli.NewApp(p, term).Run(ctx, in)

	cancelFunc()
	wait()
}
