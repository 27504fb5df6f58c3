package thumbnail

import (
	"context"
	"image"
	"sync"

	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"golang.org/x/sync/semaphore"
)

const DefaultWorkers = 8

// Fetcher loads one image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// Request asks for the thumbnail of the row identified by Key.
type Request struct {
	Key string
	URL string
}

// Result carries exactly one of Image or Err for a row. Generation is the
// table generation the request was issued for.
type Result struct {
	Generation string
	Key        string
	Image      image.Image
	Err        error
}

// Dispatcher runs one goroutine per request with at most workers fetches
// in flight.
type Dispatcher struct {
	fetcher Fetcher
	sem     *semaphore.Weighted
	logger  logging.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(f Fetcher, workers int, logger logging.Logger) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{fetcher: f, sem: semaphore.NewWeighted(int64(workers)), logger: logger}
}

// Start launches the downloads for reqs and returns immediately. Each
// completion is sent on out unless ctx ends first. Requests without a URL
// are skipped.
func (d *Dispatcher) Start(ctx context.Context, generation string, reqs []Request, out chan<- Result) {
	for _, r := range reqs {
		if r.URL == "" {
			continue
		}
		d.wg.Add(1)
		go func(r Request) {
			defer d.wg.Done()

			if err := d.sem.Acquire(ctx, 1); err != nil {
				return
			}
			img, err := d.fetcher.Fetch(ctx, r.URL)
			d.sem.Release(1)

			res := Result{Generation: generation, Key: r.Key, Image: img, Err: err}
			select {
			case out <- res:
			case <-ctx.Done():
			}
		}(r)
	}
}

// Wait blocks until every goroutine started so far has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }
