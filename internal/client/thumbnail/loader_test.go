package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// newImageServer serves TLS only; tests pass plain http URLs to check the
// upgrade.
func newImageServer(t *testing.T) (*httptest.Server, *Loader) {
	t.Helper()
	wide := pngBytes(t, 80, 40)
	tall := pngBytes(t, 10, 20)

	mux := http.NewServeMux()
	mux.HandleFunc("/wide.png", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write(wide) })
	mux.HandleFunc("/tall.png", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write(tall) })
	mux.HandleFunc("/junk", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("not an image")) })
	mux.HandleFunc("/empty", func(w http.ResponseWriter, _ *http.Request) {})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewLoader(DefaultTimeout, DefaultSize, WithClient(srv.Client()))
}

func plainURL(srv *httptest.Server, path string) string {
	return "http" + strings.TrimPrefix(srv.URL, "https") + path
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://cdn.intra.42.fr/a.jpg", SecureURL("http://cdn.intra.42.fr/a.jpg"))
	assert.Equal(t, "https://cdn.intra.42.fr/a.jpg", SecureURL("https://cdn.intra.42.fr/a.jpg"))
	assert.Equal(t, "ftp://x", SecureURL("ftp://x"))
}

func TestLoader_FetchScalesToFit(t *testing.T) {
	srv, l := newImageServer(t)

	img, err := l.Fetch(context.Background(), plainURL(srv, "/wide.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), img.Bounds())

	img, err = l.Fetch(context.Background(), plainURL(srv, "/tall.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 40), img.Bounds())
}

func TestLoader_Failures(t *testing.T) {
	srv, l := newImageServer(t)
	ctx := context.Background()

	_, err := l.Fetch(ctx, plainURL(srv, "/missing"))
	assert.ErrorIs(t, err, ErrBadStatus)

	_, err = l.Fetch(ctx, plainURL(srv, "/junk"))
	assert.Error(t, err)

	_, err = l.Fetch(ctx, plainURL(srv, "/empty"))
	assert.Error(t, err)
}

func TestLoader_Timeout(t *testing.T) {
	srv, _ := newImageServer(t)
	l := NewLoader(50*time.Millisecond, DefaultSize, WithClient(srv.Client()))

	_, err := l.Fetch(context.Background(), plainURL(srv, "/slow"))
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 1))
	assert.Equal(t, image.Rect(0, 0, 40, 1), Scale(src, 40).Bounds())

	sq := image.NewRGBA(image.Rect(5, 5, 25, 25))
	assert.Equal(t, image.Rect(0, 0, 40, 40), Scale(sq, 40).Bounds())
}
