package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/client/table"
)

const (
	defaultWidth = 120
	minCellWidth = 6
)

// widthFn reports the terminal width. Tests replace it.
var widthFn = func() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// renderRows lays out rows as aligned columns, truncating cells so a line
// fits in width. The thumbnail column is left out.
func renderRows(layout table.Layout, rows []table.Row, width int) string {
	cols := textColumns(layout)
	if len(cols) == 0 {
		return ""
	}
	cell := max(minCellWidth, width/len(cols)-2)

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, truncate(layout.Columns[c].Title, cell))
	}
	fmt.Fprintln(tw)
	for _, r := range rows {
		for i, c := range cols {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, truncate(r.Cells[c].Text, cell))
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
	return buf.String()
}

// renderRecord prints every column of one row on its own line.
func renderRecord(layout table.Layout, row table.Row) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for i, c := range layout.Columns {
		text := row.Cells[i].Text
		if c.Thumbnail {
			text = row.ImageURL
			if text == "" {
				text = table.NoImage
			}
		}
		fmt.Fprintf(tw, "%s:\t%s\n", c.Title, text)
	}
	if name, ok := row.User[models.FieldCoalitionName].(string); ok && name != "" {
		fmt.Fprintf(tw, "Coalition:\t%s\n", name)
	}
	tw.Flush()
	return buf.String()
}

func textColumns(layout table.Layout) []int {
	var out []int
	for i, c := range layout.Columns {
		if !c.Thumbnail {
			out = append(out, i)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "~"
}
