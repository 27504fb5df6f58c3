// Package view holds the presenter that owns all user-facing state.
//
// Presenter.Run is the only goroutine that mutates the table and calls the
// View. Front-ends (the fyne window, the terminal REPL) send it commands
// and implement View; the fetch pipeline and thumbnail downloads report
// back to it over channels.
package view

import (
	"image"

	"github.com/dmitrijs2005/userfetcher/internal/client/table"
)

const (
	StatusReady     = "Ready to fetch users"
	StatusError     = "Error occurred"
	NoCachedData    = "No cached data"
	ErrorTitle      = "Error"
	MissingCredsMsg = "Client ID or Client Secret not configured in .env"

	lastUpdatedLayout = "2006-01-02 15:04:05"
)

// View is implemented by front-ends. Calls always come from the presenter
// goroutine; implementations marshal them onto their UI thread if needed.
type View interface {
	SetStatus(text string)
	SetLastUpdated(text string)
	// SetProgress shows or hides the progress indicator.
	SetProgress(percent int, visible bool)
	SetFetchEnabled(enabled bool)
	// Render replaces the displayed rows. Thumbnails already delivered for
	// the current data stay attached to their row keys.
	Render(layout table.Layout, rows []table.Row)
	// ClearThumbnails forgets every delivered thumbnail; new data follows.
	ClearThumbnails()
	// SetThumbnail attaches img, or the error placeholder when err is set,
	// to the row with key.
	SetThumbnail(key string, img image.Image, err error)
	ShowError(title, message string)
}
