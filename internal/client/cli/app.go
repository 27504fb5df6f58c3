package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/view"
)

var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrUserNotFound  = errors.New("user not found")
)

// Controller is the part of view.Presenter the REPL drives.
type Controller interface {
	RequestFetch()
	SetFilter(text string)
	SortBy(col int, desc bool)
	Reload()
	Do(ctx context.Context, fn func(view.State)) error
}

type App struct {
	ctrl Controller
	out  *Terminal
}

func NewApp(c Controller, out *Terminal) *App {
	return &App{ctrl: c, out: out}
}

// Run blocks in the REPL until in is exhausted or the user exits.
func (a *App) Run(ctx context.Context, in io.Reader) {
	a.out.Println("42 User Fetcher (type 'help' for commands)")
	runREPL(ctx, a, a.out, bufio.NewScanner(in))
}

func (a *App) Fetch(ctx context.Context) error {
	a.ctrl.RequestFetch()
	return nil
}

func (a *App) List(ctx context.Context, limit int) error {
	var (
		layout table.Layout
		rows   []table.Row
		total  int
	)
	err := a.ctrl.Do(ctx, func(s view.State) {
		layout = s.Table.Layout()
		rows = s.Table.Visible()
		total = s.Table.Total()
	})
	if err != nil {
		return err
	}
	shown := rows
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}
	a.out.Printf("%s", renderRows(layout, shown, widthFn()))
	a.out.Printf("%d of %d users shown\n", len(shown), total)
	return nil
}

func (a *App) Filter(ctx context.Context, text string) error {
	a.ctrl.SetFilter(text)
	return a.ctrl.Do(ctx, func(s view.State) {
		if text == "" {
			a.out.Printf("Filter cleared, %d users\n", s.Table.Len())
			return
		}
		a.out.Printf("%d of %d users match %q\n", s.Table.Len(), s.Table.Total(), text)
	})
}

func (a *App) Sort(ctx context.Context, column string, desc bool) error {
	var col int
	var err error
	if doErr := a.ctrl.Do(ctx, func(s view.State) {
		col, err = columnIndex(s.Table.Layout(), column)
	}); doErr != nil {
		return doErr
	}
	if err != nil {
		return err
	}
	a.ctrl.SortBy(col, desc)
	return nil
}

// columnIndex resolves a case-insensitive column title or a 1-based index.
// The thumbnail column cannot be sorted on.
func columnIndex(layout table.Layout, column string) (int, error) {
	idx := -1
	if n, err := strconv.Atoi(column); err == nil {
		idx = n - 1
	} else {
		for i, c := range layout.Columns {
			if strings.EqualFold(c.Title, column) {
				idx = i
				break
			}
		}
	}
	if idx < 0 || idx >= len(layout.Columns) || layout.Columns[idx].Thumbnail {
		return 0, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return idx, nil
}

func (a *App) Show(ctx context.Context, login string) error {
	var (
		layout table.Layout
		row    table.Row
		found  bool
	)
	err := a.ctrl.Do(ctx, func(s view.State) {
		layout = s.Table.Layout()
		row, found = s.Table.FindLogin(login)
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUserNotFound, login)
	}
	a.out.Printf("%s", renderRecord(layout, row))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	return a.ctrl.Do(ctx, func(s view.State) {
		a.out.Println(s.Status)
		a.out.Println(s.LastUpdated)
		if s.Fetching {
			a.out.Println(progressBar(s.Progress))
		}
		a.out.Printf("%d of %d users shown\n", s.Table.Len(), s.Table.Total())
	})
}

func (a *App) Reload(ctx context.Context) error {
	a.ctrl.Reload()
	return nil
}
