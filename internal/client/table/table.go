package table

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

// Cell is one rendered value. SortKey is only meaningful for numeric
// columns. Color, when set, is a "#RRGGBB" background.
type Cell struct {
	Text    string
	SortKey float64
	Numeric bool
	Color   string
}

// Row is one user as displayed. Key identifies the row for thumbnail
// delivery; it is the login when present and unique.
type Row struct {
	Key      string
	ImageURL string
	Cells    []Cell
	User     models.User
}

// Build renders users through layout, keeping their order.
func Build(users []models.User, layout Layout) []Row {
	rows := make([]Row, 0, len(users))
	seen := make(map[string]struct{}, len(users))

	for i, u := range users {
		key := u.Login()
		if _, dup := seen[key]; key == "" || dup {
			key = fmt.Sprintf("row-%d", i)
		}
		seen[key] = struct{}{}

		cells := make([]Cell, len(layout.Columns))
		for c, col := range layout.Columns {
			cells[c] = col.extract(u, layout)
		}
		rows = append(rows, Row{Key: key, ImageURL: imageURL(u), Cells: cells, User: u})
	}
	return rows
}

// Matches reports whether row is visible under filter text. An empty
// filter matches everything; otherwise the lowercased text must occur in
// at least one lowercased non-thumbnail cell.
func Matches(row Row, layout Layout, filter string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for i, c := range row.Cells {
		if i < len(layout.Columns) && layout.Columns[i].Thumbnail {
			continue
		}
		if strings.Contains(strings.ToLower(c.Text), needle) {
			return true
		}
	}
	return false
}

// Table holds the rows currently shown together with the active sort and
// filter.
type Table struct {
	layout Layout
	rows   []Row

	order   []int // indices into rows, sorted
	visible []int // subset of order passing the filter

	sortingEnabled bool
	sortCol        int
	sortDesc       bool
	filter         string
}

func New(layout Layout) *Table {
	return &Table{layout: layout, sortingEnabled: true, sortCol: -1}
}

func (t *Table) Layout() Layout { return t.layout }

// Replace swaps in a new result set. Sorting is suspended for the bulk
// load and the active sort and filter are applied once at the end.
func (t *Table) Replace(rows []Row) {
	t.setSortingEnabled(false)
	t.rows = rows
	t.order = make([]int, len(rows))
	for i := range rows {
		t.order[i] = i
	}
	t.setSortingEnabled(true)
}

// Clear removes every row. Sort and filter settings are kept.
func (t *Table) Clear() { t.Replace(nil) }

func (t *Table) setSortingEnabled(on bool) {
	t.sortingEnabled = on
	if on {
		t.applySort()
		t.applyFilter()
	}
}

// Sort orders rows by column col. Numeric columns compare SortKey, other
// columns compare Text. Equal rows keep their load order.
func (t *Table) Sort(col int, desc bool) error {
	if col < 0 || col >= len(t.layout.Columns) {
		return fmt.Errorf("column %d out of range", col)
	}
	t.sortCol, t.sortDesc = col, desc
	if t.sortingEnabled {
		t.applySort()
		t.applyFilter()
	}
	return nil
}

// SortState returns the active sort column and direction; ok is false
// until Sort is first called.
func (t *Table) SortState() (col int, desc bool, ok bool) {
	return t.sortCol, t.sortDesc, t.sortCol >= 0
}

func (t *Table) applySort() {
	if t.sortCol < 0 {
		return
	}
	col := t.sortCol
	numeric := t.layout.Columns[col].Numeric

	for i := range t.order {
		t.order[i] = i
	}
	less := func(a, b int) bool {
		ca, cb := t.rows[a].Cells[col], t.rows[b].Cells[col]
		if numeric {
			return ca.SortKey < cb.SortKey
		}
		return ca.Text < cb.Text
	}
	sort.SliceStable(t.order, func(i, j int) bool {
		if t.sortDesc {
			return less(t.order[j], t.order[i])
		}
		return less(t.order[i], t.order[j])
	})
}

// Filter shows only rows matching text. See Matches.
func (t *Table) Filter(text string) {
	t.filter = text
	t.applyFilter()
}

func (t *Table) FilterText() string { return t.filter }

func (t *Table) applyFilter() {
	t.visible = t.visible[:0]
	for _, i := range t.order {
		if Matches(t.rows[i], t.layout, t.filter) {
			t.visible = append(t.visible, i)
		}
	}
}

// Len is the number of visible rows.
func (t *Table) Len() int { return len(t.visible) }

// Total is the number of loaded rows, visible or not.
func (t *Table) Total() int { return len(t.rows) }

// Row returns the i-th visible row.
func (t *Table) Row(i int) Row { return t.rows[t.visible[i]] }

// Visible returns the visible rows in display order.
func (t *Table) Visible() []Row {
	out := make([]Row, len(t.visible))
	for i, idx := range t.visible {
		out[i] = t.rows[idx]
	}
	return out
}

// Rows returns every loaded row in load order.
func (t *Table) Rows() []Row { return t.rows }

// Find looks a row up by key, visible or not.
func (t *Table) Find(key string) (Row, bool) {
	for _, r := range t.rows {
		if r.Key == key {
			return r, true
		}
	}
	return Row{}, false
}

// FindLogin looks a row up by user login.
func (t *Table) FindLogin(login string) (Row, bool) {
	for _, r := range t.rows {
		if r.User.Login() == login {
			return r, true
		}
	}
	return Row{}, false
}
