package view

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/client/repositories/cache"
	"github.com/dmitrijs2005/userfetcher/internal/client/services"
	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/thumbnail"
	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type thumbCall struct {
	key string
	img image.Image
	err error
}

type fakeView struct {
	mu           sync.Mutex
	statuses     []string
	lastUpdated  string
	progress     []int
	progressOn   bool
	fetchEnabled []bool
	renders      [][]table.Row
	clears       int
	thumbs       []thumbCall
	errors       []string
}

func (v *fakeView) SetStatus(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, s)
}

func (v *fakeView) SetLastUpdated(s string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastUpdated = s
}

func (v *fakeView) SetProgress(p int, visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.progressOn = visible
	if visible {
		v.progress = append(v.progress, p)
	}
}

func (v *fakeView) SetFetchEnabled(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fetchEnabled = append(v.fetchEnabled, on)
}

func (v *fakeView) Render(_ table.Layout, rows []table.Row) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders = append(v.renders, rows)
}

func (v *fakeView) ClearThumbnails() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clears++
}

func (v *fakeView) SetThumbnail(key string, img image.Image, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.thumbs = append(v.thumbs, thumbCall{key: key, img: img, err: err})
}

func (v *fakeView) ShowError(title, msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, title+": "+msg)
}

func (v *fakeView) snapshot() fakeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fakeView{
		statuses:     append([]string(nil), v.statuses...),
		lastUpdated:  v.lastUpdated,
		progress:     append([]int(nil), v.progress...),
		progressOn:   v.progressOn,
		fetchEnabled: append([]bool(nil), v.fetchEnabled...),
		renders:      append([][]table.Row(nil), v.renders...),
		clears:       v.clears,
		thumbs:       append([]thumbCall(nil), v.thumbs...),
		errors:       append([]string(nil), v.errors...),
	}
}

func (v *fakeView) lastRender() []table.Row {
	s := v.snapshot()
	if len(s.renders) == 0 {
		return nil
	}
	return s.renders[len(s.renders)-1]
}

type fakeFetcher struct {
	calls    atomic.Int32
	progress []services.Progress
	release  chan struct{}
	snap     *models.Snapshot
	err      error
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ models.Credentials, progress chan<- services.Progress) (*models.Snapshot, error) {
	f.calls.Add(1)
	for _, p := range f.progress {
		progress <- p
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.snap, f.err
}

type fakeCache struct {
	snap *models.Snapshot
	err  error
}

func (c *fakeCache) Load(context.Context) (*models.Snapshot, error) { return c.snap, c.err }

type startCall struct {
	gen  string
	reqs []thumbnail.Request
}

type fakeThumbs struct {
	mu    sync.Mutex
	calls []startCall
}

func (f *fakeThumbs) Start(_ context.Context, gen string, reqs []thumbnail.Request, _ chan<- thumbnail.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, startCall{gen: gen, reqs: reqs})
}

func (f *fakeThumbs) last() startCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// ---- helpers ----

func goodCreds() (models.Credentials, error) {
	return models.Credentials{ClientID: "id", ClientSecret: "secret"}, nil
}

func noCreds() (models.Credentials, error) {
	return models.Credentials{}, models.ErrMissingCredentials
}

func users(logins ...string) []models.User {
	out := make([]models.User, len(logins))
	for i, l := range logins {
		out[i] = models.User{"login": l, "image_url": fmt.Sprintf("http://img/%s.jpg", l)}
	}
	return out
}

type fixture struct {
	p      *Presenter
	view   *fakeView
	thumbs *fakeThumbs
	ctx    context.Context
}

func start(t *testing.T, f Fetcher, creds CredentialsFunc, c SnapshotLoader) *fixture {
	t.Helper()
	layout, err := table.NewLayout(table.LayoutFull, 0)
	require.NoError(t, err)

	v := &fakeView{}
	th := &fakeThumbs{}
	p := NewPresenter(v, f, creds, c, th, layout, logging.Nop())
	n := 0
	p.newGenID = func() string { n++; return fmt.Sprintf("gen-%d", n) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &fixture{p: p, view: v, thumbs: th, ctx: ctx}
}

func (fx *fixture) state(t *testing.T) State {
	t.Helper()
	var st State
	require.NoError(t, fx.p.Do(fx.ctx, func(s State) {
		st = s
		st.Table = nil
	}))
	return st
}

func (fx *fixture) waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return !fx.state(t).Fetching }, 2*time.Second, 5*time.Millisecond)
}

func rowLogins(rows []table.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.User.Login()
	}
	return out
}

// ---- tests ----

func TestPresenter_StartupWithoutCache(t *testing.T) {
	fx := start(t, &fakeFetcher{}, goodCreds, &fakeCache{err: cache.ErrCacheNotFound})

	st := fx.state(t)
	assert.Equal(t, StatusReady, st.Status)
	assert.Equal(t, NoCachedData, st.LastUpdated)
	assert.False(t, st.Fetching)
	assert.Empty(t, fx.view.snapshot().renders)
}

func TestPresenter_StartupCorruptCacheLeavesViewEmpty(t *testing.T) {
	fetcher := &fakeFetcher{}
	fx := start(t, fetcher, goodCreds, &fakeCache{err: errors.New("bad json")})

	st := fx.state(t)
	assert.Equal(t, StatusReady, st.Status)
	assert.Nil(t, st.Snapshot)
	assert.Zero(t, fetcher.calls.Load(), "no fetch on cache failure")
}

func TestPresenter_StartupLoadsCache(t *testing.T) {
	snap := &models.Snapshot{
		Timestamp: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Users:     append(users("alice", "bob"), models.User{"login": "noimg"}),
	}
	fx := start(t, &fakeFetcher{}, goodCreds, &fakeCache{snap: snap})

	st := fx.state(t)
	assert.Equal(t, "Loaded 3 users from cache", st.Status)
	assert.Equal(t, "Last updated: 2024-05-06 07:08:09", st.LastUpdated)
	assert.Equal(t, []string{"alice", "bob", "noimg"}, rowLogins(fx.view.lastRender()))

	call := fx.thumbs.last()
	assert.Equal(t, "gen-1", call.gen)
	assert.Equal(t, []thumbnail.Request{
		{Key: "alice", URL: "http://img/alice.jpg"},
		{Key: "bob", URL: "http://img/bob.jpg"},
	}, call.reqs)
}

func TestPresenter_MissingCredentialsBlocksFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	fx := start(t, fetcher, noCreds, nil)

	fx.p.RequestFetch()
	st := fx.state(t)

	assert.False(t, st.Fetching)
	assert.Zero(t, fetcher.calls.Load())
	assert.Equal(t, []string{ErrorTitle + ": " + MissingCredsMsg}, fx.view.snapshot().errors)
}

func TestPresenter_FetchSuccess(t *testing.T) {
	fetcher := &fakeFetcher{
		progress: []services.Progress{
			{Message: "Authenticating with 42 API...", Percent: 0},
			{Message: "Fetching users page 1/1...", Percent: 20},
		},
		snap: &models.Snapshot{Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), Users: users("carol")},
	}
	fx := start(t, fetcher, goodCreds, nil)

	fx.p.RequestFetch()
	fx.waitIdle(t)

	st := fx.state(t)
	assert.Equal(t, "Fetched 1 users", st.Status)
	assert.Equal(t, "Last updated: 2024-01-02 03:04:05", st.LastUpdated)

	v := fx.view.snapshot()
	assert.Equal(t, []int{0, 0, 20}, v.progress)
	assert.False(t, v.progressOn)
	assert.Equal(t, []bool{true, false, true}, v.fetchEnabled)
	assert.Contains(t, v.statuses, "Fetching users page 1/1...")
	assert.Empty(t, v.errors)
	assert.Equal(t, []string{"carol"}, rowLogins(fx.view.lastRender()))
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestPresenter_SecondFetchIgnoredWhileRunning(t *testing.T) {
	fetcher := &fakeFetcher{
		release: make(chan struct{}),
		snap:    &models.Snapshot{Users: users("a")},
	}
	fx := start(t, fetcher, goodCreds, nil)

	fx.p.RequestFetch()
	fx.p.RequestFetch()
	assert.True(t, fx.state(t).Fetching)

	close(fetcher.release)
	fx.waitIdle(t)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestPresenter_FetchError(t *testing.T) {
	fx := start(t, &fakeFetcher{err: errors.New("boom")}, goodCreds, nil)

	fx.p.RequestFetch()
	fx.waitIdle(t)

	st := fx.state(t)
	assert.Equal(t, StatusError, st.Status)
	v := fx.view.snapshot()
	assert.Equal(t, []string{"Error: Failed to fetch users: boom"}, v.errors)
	assert.False(t, v.progressOn)
	assert.Equal(t, true, v.fetchEnabled[len(v.fetchEnabled)-1])
}

func TestPresenter_ThumbnailResults(t *testing.T) {
	snap := &models.Snapshot{Users: users("alice", "bob")}
	fx := start(t, &fakeFetcher{}, goodCreds, &fakeCache{snap: snap})
	fx.state(t)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	fx.p.results <- thumbnail.Result{Generation: "stale", Key: "alice", Image: img}
	fx.p.results <- thumbnail.Result{Generation: "gen-1", Key: "ghost", Image: img}
	fx.p.results <- thumbnail.Result{Generation: "gen-1", Key: "alice", Image: img}
	fx.p.results <- thumbnail.Result{Generation: "gen-1", Key: "alice", Err: errors.New("late")}
	fx.p.results <- thumbnail.Result{Generation: "gen-1", Key: "bob", Err: errors.New("404")}

	require.Eventually(t, func() bool { return len(fx.view.snapshot().thumbs) == 2 }, time.Second, 5*time.Millisecond)

	th := fx.view.snapshot().thumbs
	assert.Equal(t, "alice", th[0].key)
	assert.NotNil(t, th[0].img)
	assert.NoError(t, th[0].err)
	assert.Equal(t, "bob", th[1].key)
	assert.Nil(t, th[1].img)
	assert.Error(t, th[1].err)
}

func TestPresenter_FilterAndSort(t *testing.T) {
	snap := &models.Snapshot{Users: []models.User{
		{"login": "carol", "wallet": 5},
		{"login": "alice", "wallet": 50},
		{"login": "bob", "wallet": 7},
	}}
	fx := start(t, &fakeFetcher{}, goodCreds, &fakeCache{snap: snap})
	fx.state(t)

	fx.p.SortBy(8, true)
	fx.state(t)
	assert.Equal(t, []string{"alice", "bob", "carol"}, rowLogins(fx.view.lastRender()))

	fx.p.ToggleSort(8)
	fx.state(t)
	assert.Equal(t, []string{"carol", "bob", "alice"}, rowLogins(fx.view.lastRender()))

	fx.p.ToggleSort(1)
	fx.state(t)
	assert.Equal(t, []string{"alice", "bob", "carol"}, rowLogins(fx.view.lastRender()))

	fx.p.SetFilter("CAR")
	fx.state(t)
	assert.Equal(t, []string{"carol"}, rowLogins(fx.view.lastRender()))

	fx.p.SetFilter("")
	fx.state(t)
	assert.Len(t, fx.view.lastRender(), 3)
}

func TestPresenter_Reload(t *testing.T) {
	c := &fakeCache{err: cache.ErrCacheNotFound}
	fx := start(t, &fakeFetcher{}, goodCreds, c)
	fx.state(t)

	c.snap, c.err = &models.Snapshot{Users: users("x", "y")}, nil
	fx.p.Reload()

	var total int
	require.NoError(t, fx.p.Do(fx.ctx, func(s State) { total = s.Table.Total() }))
	assert.Equal(t, 2, total)
	assert.Equal(t, "Loaded 2 users from cache", fx.state(t).Status)
}

func TestPresenter_DoAfterStop(t *testing.T) {
	layout, err := table.NewLayout(table.LayoutCompact, 0)
	require.NoError(t, err)
	p := NewPresenter(&fakeView{}, &fakeFetcher{}, goodCreds, nil, nil, layout, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Error(t, p.Do(context.Background(), func(State) {}))
}
