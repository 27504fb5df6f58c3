// Package gui is the desktop front-end built with fyne.
//
// Window implements view.View. Every View call is handed to the fyne
// event loop with fyne.Do, so widget state is only touched there.
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/view"
)

const (
	windowTitle   = "42 User Fetcher"
	thumbnailSide = 40
)

// newErrorDialog builds the dialog ShowError displays. Tests replace it.
var newErrorDialog = dialog.NewInformation

// Controller receives user actions.
type Controller interface {
	RequestFetch()
	SetFilter(text string)
	ToggleSort(col int)
}

type thumb struct {
	img image.Image
	err error
}

type Window struct {
	win fyne.Window

	status   *widget.Label
	updated  *widget.Label
	fetch    *widget.Button
	progress *widget.ProgressBar
	filter   *widget.Entry
	table    *widget.Table

	ctrl Controller

	// owned by the fyne event loop
	layout table.Layout
	rows   []table.Row
	thumbs map[string]thumb
	// heights[i] is the height last set for row i.
	heights   []float32
	rowHeight float32
}

// New builds the window for layout. Bind must be called before Show.
func New(a fyne.App, layout table.Layout) *Window {
	w := &Window{
		win:    a.NewWindow(windowTitle),
		layout: layout,
		thumbs: map[string]thumb{},
	}

	w.status = widget.NewLabel(view.StatusReady)
	w.updated = widget.NewLabel(view.NoCachedData)
	w.fetch = widget.NewButton("Fetch Users", func() {
		if w.ctrl != nil {
			w.ctrl.RequestFetch()
		}
	})

	w.progress = widget.NewProgressBar()
	w.progress.Max = 100
	w.progress.Hide()

	w.filter = widget.NewEntry()
	w.filter.SetPlaceHolder("Enter filter text...")
	w.filter.OnChanged = func(text string) {
		if w.ctrl != nil {
			w.ctrl.SetFilter(text)
		}
	}

	w.table = widget.NewTableWithHeaders(w.size, newCell, w.updateCell)
	w.table.ShowHeaderColumn = false
	w.table.CreateHeader = func() fyne.CanvasObject { return widget.NewButton("", nil) }
	w.table.UpdateHeader = w.updateHeader
	w.rowHeight = newCell().MinSize().Height
	w.applyColumnWidths()

	top := container.NewBorder(nil, nil, nil, w.fetch,
		container.NewGridWithColumns(2, w.status, w.updated))
	filterBar := container.NewBorder(nil, nil, widget.NewLabel("Filter:"), nil, w.filter)

	w.win.SetContent(container.NewBorder(
		container.NewVBox(top, w.progress, filterBar),
		nil, nil, nil,
		w.table,
	))
	w.win.Resize(fyne.NewSize(1200, 800))
	return w
}

func (w *Window) Bind(c Controller) { w.ctrl = c }

// ShowAndRun blocks in the fyne event loop until the window closes.
func (w *Window) ShowAndRun() { w.win.ShowAndRun() }

func (w *Window) applyColumnWidths() {
	for i, c := range w.layout.Columns {
		width := float32(140)
		switch {
		case c.Thumbnail:
			width = thumbnailSide + 16
		case c.Title == "Email":
			width = 240
		case c.Numeric:
			width = 110
		}
		w.table.SetColumnWidth(i, width)
	}
}

func (w *Window) size() (int, int) {
	return len(w.rows), len(w.layout.Columns)
}

// newCell is a colored background with an image and a label on top.
func newCell() fyne.CanvasObject {
	bg := canvas.NewRectangle(color.Transparent)
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(thumbnailSide, thumbnailSide))
	img.Hide()
	return container.NewStack(bg, img, widget.NewLabel(""))
}

func (w *Window) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	stack := o.(*fyne.Container)
	bg := stack.Objects[0].(*canvas.Rectangle)
	img := stack.Objects[1].(*canvas.Image)
	label := stack.Objects[2].(*widget.Label)

	if id.Row < 0 || id.Row >= len(w.rows) || id.Col < 0 || id.Col >= len(w.layout.Columns) {
		label.SetText("")
		img.Hide()
		return
	}
	row := w.rows[id.Row]
	cell := row.Cells[id.Col]

	bg.FillColor = color.Transparent
	if c, ok := parseHexColor(cell.Color); ok {
		bg.FillColor = c
	}
	bg.Refresh()

	if !w.layout.Columns[id.Col].Thumbnail {
		img.Hide()
		label.SetText(cell.Text)
		return
	}

	text, pic := w.thumbnailFor(row)
	label.SetText(text)
	if pic != nil {
		img.Image = pic
		img.Show()
		img.Refresh()
	} else {
		img.Hide()
	}
}

// thumbnailFor returns the placeholder text or the image of row's
// profile cell.
func (w *Window) thumbnailFor(row table.Row) (string, image.Image) {
	if row.ImageURL == "" {
		return table.NoImage, nil
	}
	th, ok := w.thumbs[row.Key]
	switch {
	case !ok:
		return "", nil
	case th.err != nil || th.img == nil:
		return table.ImageError, nil
	default:
		return "", th.img
	}
}

func (w *Window) updateHeader(id widget.TableCellID, o fyne.CanvasObject) {
	btn := o.(*widget.Button)
	if id.Col < 0 || id.Col >= len(w.layout.Columns) {
		btn.SetText("")
		btn.OnTapped = nil
		return
	}
	col := id.Col
	btn.SetText(w.layout.Columns[col].Title)
	btn.OnTapped = func() {
		if w.ctrl != nil {
			w.ctrl.ToggleSort(col)
		}
	}
}

// view.View

func (w *Window) SetStatus(text string) {
	fyne.Do(func() { w.status.SetText(text) })
}

func (w *Window) SetLastUpdated(text string) {
	fyne.Do(func() { w.updated.SetText(text) })
}

func (w *Window) SetProgress(percent int, visible bool) {
	fyne.Do(func() { w.setProgress(percent, visible) })
}

func (w *Window) setProgress(percent int, visible bool) {
	w.progress.SetValue(float64(percent))
	if visible {
		w.progress.Show()
	} else {
		w.progress.Hide()
	}
}

func (w *Window) SetFetchEnabled(enabled bool) {
	fyne.Do(func() {
		if enabled {
			w.fetch.Enable()
		} else {
			w.fetch.Disable()
		}
	})
}

func (w *Window) Render(layout table.Layout, rows []table.Row) {
	fyne.Do(func() { w.render(layout, rows) })
}

func (w *Window) render(layout table.Layout, rows []table.Row) {
	if layout.Name != w.layout.Name {
		w.layout = layout
		w.applyColumnWidths()
	}
	w.rows = rows
	w.heights = make([]float32, len(rows))
	for i, r := range rows {
		w.heights[i] = w.heightFor(r)
		w.table.SetRowHeight(i, w.heights[i])
	}
	w.table.Refresh()
}

// heightFor leaves room for a thumbnail only when the row has an image.
func (w *Window) heightFor(r table.Row) float32 {
	if r.ImageURL != "" {
		return max(w.rowHeight, thumbnailSide+8)
	}
	return w.rowHeight
}

func (w *Window) ClearThumbnails() {
	fyne.Do(func() { w.thumbs = map[string]thumb{} })
}

func (w *Window) SetThumbnail(key string, img image.Image, err error) {
	fyne.Do(func() { w.setThumbnail(key, img, err) })
}

func (w *Window) setThumbnail(key string, img image.Image, err error) {
	w.thumbs[key] = thumb{img: img, err: err}
	for i, r := range w.rows {
		if r.Key == key {
			w.table.RefreshItem(widget.TableCellID{Row: i, Col: 0})
			return
		}
	}
}

func (w *Window) ShowError(heading, message string) {
	fyne.Do(func() { w.showError(heading, message) })
}

func (w *Window) showError(heading, message string) {
	newErrorDialog(heading, message, w.win).Show()
}

var _ view.View = (*Window)(nil)
