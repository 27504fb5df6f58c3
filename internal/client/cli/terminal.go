package cli

import (
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/view"
)

const progressWidth = 30

// Terminal prints presenter updates to out. It is safe for concurrent use
// by the presenter and the REPL.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	percent int
	rows    int
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, percent: -1}
}

func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) Println(args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, args...)
}

func (t *Terminal) SetStatus(text string) { t.Println(text) }

func (t *Terminal) SetLastUpdated(text string) { t.Println(text) }

// SetProgress draws a bar whenever the percentage changes.
func (t *Terminal) SetProgress(percent int, visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !visible {
		t.percent = -1
		return
	}
	if percent == t.percent {
		return
	}
	t.percent = percent
	fmt.Fprintln(t.out, progressBar(percent))
}

func progressBar(percent int) string {
	percent = max(0, min(100, percent))
	done := percent * progressWidth / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", done), strings.Repeat(".", progressWidth-done), percent)
}

func (t *Terminal) SetFetchEnabled(bool) {}

func (t *Terminal) Render(_ table.Layout, rows []table.Row) {
	t.mu.Lock()
	t.rows = len(rows)
	t.mu.Unlock()
}

// Shown is the number of rows in the last render.
func (t *Terminal) Shown() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

func (t *Terminal) ClearThumbnails() {}

func (t *Terminal) SetThumbnail(string, image.Image, error) {}

func (t *Terminal) ShowError(title, message string) {
	t.Printf("%s: %s\n", title, message)
}

var _ view.View = (*Terminal)(nil)
