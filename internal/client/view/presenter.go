package view

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/client/repositories/cache"
	"github.com/dmitrijs2005/userfetcher/internal/client/services"
	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/thumbnail"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"github.com/google/uuid"
)

type Fetcher interface {
	Fetch(ctx context.Context, creds models.Credentials, progress chan<- services.Progress) (*models.Snapshot, error)
}

type SnapshotLoader interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

type ThumbnailStarter interface {
	Start(ctx context.Context, generation string, reqs []thumbnail.Request, out chan<- thumbnail.Result)
}

// CredentialsFunc returns the API credentials or an error wrapping
// models.ErrMissingCredentials.
type CredentialsFunc func() (models.Credentials, error)

// State is what commands run through Do may read. It must not be retained
// after the callback returns.
type State struct {
	Table       *table.Table
	Snapshot    *models.Snapshot
	Fetching    bool
	Status      string
	LastUpdated string
	Progress    int
}

type fetchResult struct {
	snap *models.Snapshot
	err  error
}

type Presenter struct {
	view     View
	fetcher  Fetcher
	creds    CredentialsFunc
	cache    SnapshotLoader
	thumbs   ThumbnailStarter
	table    *table.Table
	logger   logging.Logger
	newGenID func() string

	cmds      chan func(ctx context.Context)
	progress  chan services.Progress
	fetchDone chan fetchResult
	results   chan thumbnail.Result
	stopped   chan struct{}

	// owned by Run
	fetching    bool
	snapshot    *models.Snapshot
	generation  string
	delivered   map[string]struct{}
	status      string
	lastUpdated string
	percent     int
}

func NewPresenter(v View, f Fetcher, creds CredentialsFunc, c SnapshotLoader, thumbs ThumbnailStarter, layout table.Layout, logger logging.Logger) *Presenter {
	return &Presenter{
		view:      v,
		fetcher:   f,
		creds:     creds,
		cache:     c,
		thumbs:    thumbs,
		table:     table.New(layout),
		logger:    logger,
		newGenID:  uuid.NewString,
		cmds:      make(chan func(ctx context.Context)),
		progress:  make(chan services.Progress),
		fetchDone: make(chan fetchResult),
		results:   make(chan thumbnail.Result, 64),
		stopped:   make(chan struct{}),
		delivered: map[string]struct{}{},
	}
}

// Run initializes the view, loads the cache and serves commands until ctx
// is done.
func (p *Presenter) Run(ctx context.Context) error {
	defer close(p.stopped)

	p.setStatus(StatusReady)
	p.setLastUpdated(NoCachedData)
	p.view.SetProgress(0, false)
	p.view.SetFetchEnabled(true)
	p.loadCache(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-p.cmds:
			cmd(ctx)
		case pr := <-p.progress:
			p.onProgress(pr)
		case res := <-p.fetchDone:
			p.onFetchDone(ctx, res)
		case r := <-p.results:
			p.onThumbnail(r)
		}
	}
}

func (p *Presenter) send(cmd func(ctx context.Context)) {
	select {
	case p.cmds <- cmd:
	case <-p.stopped:
	}
}

// Do runs fn on the presenter goroutine and waits for it.
func (p *Presenter) Do(ctx context.Context, fn func(State)) error {
	done := make(chan struct{})
	cmd := func(context.Context) {
		defer close(done)
		fn(p.state())
	}
	select {
	case p.cmds <- cmd:
	case <-p.stopped:
		return errors.New("presenter stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Presenter) state() State {
	return State{
		Table:       p.table,
		Snapshot:    p.snapshot,
		Fetching:    p.fetching,
		Status:      p.status,
		LastUpdated: p.lastUpdated,
		Progress:    p.percent,
	}
}

// RequestFetch starts a fetch cycle unless one is running.
func (p *Presenter) RequestFetch() { p.send(p.startFetch) }

// SetFilter applies text as the row filter.
func (p *Presenter) SetFilter(text string) {
	p.send(func(context.Context) {
		p.table.Filter(text)
		p.render()
	})
}

// SortBy sorts on column col.
func (p *Presenter) SortBy(col int, desc bool) {
	p.send(func(ctx context.Context) {
		if err := p.table.Sort(col, desc); err != nil {
			p.logger.Warn(ctx, "sort rejected", "column", col, "error", err)
			return
		}
		p.render()
	})
}

// ToggleSort sorts ascending on a new column and flips the direction on
// the active one.
func (p *Presenter) ToggleSort(col int) {
	p.send(func(ctx context.Context) {
		desc := false
		if cur, d, ok := p.table.SortState(); ok && cur == col {
			desc = !d
		}
		if err := p.table.Sort(col, desc); err != nil {
			p.logger.Warn(ctx, "sort rejected", "column", col, "error", err)
			return
		}
		p.render()
	})
}

// Reload re-reads the cache into the table.
func (p *Presenter) Reload() { p.send(p.loadCache) }

func (p *Presenter) setStatus(s string) {
	p.status = s
	p.view.SetStatus(s)
}

func (p *Presenter) setLastUpdated(s string) {
	p.lastUpdated = s
	p.view.SetLastUpdated(s)
}

func (p *Presenter) loadCache(ctx context.Context) {
	if p.cache == nil {
		return
	}
	snap, err := p.cache.Load(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			p.logger.Info(ctx, "no cached data")
		} else {
			p.logger.Error(ctx, "error loading cached data", "error", err)
		}
		return
	}
	p.logger.Info(ctx, "loaded users from cache", "count", len(snap.Users))
	p.show(ctx, snap)
	p.setStatus(fmt.Sprintf("Loaded %d users from cache", len(snap.Users)))
}

func (p *Presenter) startFetch(ctx context.Context) {
	if p.fetching {
		p.logger.Debug(ctx, "fetch already running, request ignored")
		return
	}
	creds, err := p.creds()
	if err != nil {
		p.logger.Error(ctx, "credentials not configured", "error", err)
		p.view.ShowError(ErrorTitle, MissingCredsMsg)
		return
	}

	p.fetching = true
	p.snapshot = nil
	p.table.Clear()
	p.newGeneration()
	p.render()
	p.percent = 0
	p.view.SetProgress(0, true)
	p.view.SetFetchEnabled(false)

	go func() {
		snap, err := p.fetcher.Fetch(ctx, creds, p.progress)
		select {
		case p.fetchDone <- fetchResult{snap: snap, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (p *Presenter) onProgress(pr services.Progress) {
	p.percent = pr.Percent
	p.setStatus(pr.Message)
	p.view.SetProgress(pr.Percent, true)
}

func (p *Presenter) onFetchDone(ctx context.Context, res fetchResult) {
	p.fetching = false
	p.view.SetProgress(0, false)
	p.view.SetFetchEnabled(true)

	if res.err != nil {
		p.setStatus(StatusError)
		p.view.ShowError(ErrorTitle, "Failed to fetch users: "+res.err.Error())
		return
	}
	p.show(ctx, res.snap)
	p.setStatus(fmt.Sprintf("Fetched %d users", len(res.snap.Users)))
}

// show loads snap into the table under a new generation and starts its
// thumbnail downloads.
func (p *Presenter) show(ctx context.Context, snap *models.Snapshot) {
	p.snapshot = snap
	p.setLastUpdated("Last updated: " + snap.Timestamp.Format(lastUpdatedLayout))

	p.table.Replace(table.Build(snap.Users, p.table.Layout()))
	gen := p.newGeneration()
	p.render()

	if p.thumbs == nil {
		return
	}
	var reqs []thumbnail.Request
	for _, r := range p.table.Rows() {
		if r.ImageURL != "" {
			reqs = append(reqs, thumbnail.Request{Key: r.Key, URL: r.ImageURL})
		}
	}
	p.thumbs.Start(ctx, gen, reqs, p.results)
}

func (p *Presenter) newGeneration() string {
	p.generation = p.newGenID()
	p.delivered = map[string]struct{}{}
	p.view.ClearThumbnails()
	return p.generation
}

func (p *Presenter) render() {
	p.view.Render(p.table.Layout(), p.table.Visible())
}

// onThumbnail applies at most one result per row of the current generation.
func (p *Presenter) onThumbnail(r thumbnail.Result) {
	if r.Generation != p.generation {
		return
	}
	if _, done := p.delivered[r.Key]; done {
		return
	}
	if _, ok := p.table.Find(r.Key); !ok {
		return
	}
	p.delivered[r.Key] = struct{}{}

	var img image.Image
	if r.Err == nil {
		img = r.Image
	}
	p.view.SetThumbnail(r.Key, img, r.Err)
}
