// Package thumbnail downloads profile pictures and scales them for the
// user table. Downloads are independent and never retried.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/userfetcher/internal/logging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrBadStatus  = errors.New("unexpected image response status")
	ErrEmptyImage = errors.New("empty image")
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultSize    = 40
)

// Loader fetches one image per call.
type Loader struct {
	client *http.Client
	size   int
	logger logging.Logger
}

type LoaderOption func(*Loader)

// WithClient replaces the HTTP client. Its Timeout is overwritten by the
// loader's timeout.
func WithClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

func WithLogger(lg logging.Logger) LoaderOption {
	return func(l *Loader) { l.logger = lg }
}

func NewLoader(timeout time.Duration, size int, opts ...LoaderOption) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if size <= 0 {
		size = DefaultSize
	}
	l := &Loader{client: &http.Client{}, size: size, logger: logging.Nop()}
	for _, o := range opts {
		o(l)
	}
	c := *l.client
	c.Timeout = timeout
	l.client = &c
	return l
}

// SecureURL rewrites a leading "http:" to "https:".
func SecureURL(u string) string {
	if strings.HasPrefix(u, "http:") {
		return "https:" + strings.TrimPrefix(u, "http:")
	}
	return u
}

// Fetch downloads url (upgraded to https), decodes it and scales it to fit
// a size×size box keeping the aspect ratio.
func (l *Loader) Fetch(ctx context.Context, url string) (image.Image, error) {
	url = SecureURL(url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Error(ctx, "error downloading image", "url", url, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		l.logger.Warn(ctx, "failed to download image", "url", url, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	src, _, err := image.Decode(resp.Body)
	if err != nil {
		l.logger.Warn(ctx, "failed to decode image", "url", url, "error", err)
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if src.Bounds().Empty() {
		l.logger.Warn(ctx, "empty image", "url", url)
		return nil, ErrEmptyImage
	}

	return Scale(src, l.size), nil
}

// Scale returns src resized to fit within size×size, aspect preserved.
func Scale(src image.Image, size int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := size, size
	if w >= h {
		dh = max(1, h*size/w)
	} else {
		dw = max(1, w*size/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
