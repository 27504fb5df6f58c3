package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
	"github.com/dmitrijs2005/userfetcher/internal/client/table"
	"github.com/dmitrijs2005/userfetcher/internal/client/view"
)

type sortCall struct {
	col  int
	desc bool
}

type fakeController struct {
	tbl      *table.Table
	state    view.State
	fetches  int
	reloads  int
	sorts    []sortCall
	doCalled int
}

func (c *fakeController) RequestFetch()         { c.fetches++ }
func (c *fakeController) SetFilter(text string) { c.tbl.Filter(text) }
func (c *fakeController) SortBy(col int, desc bool) {
	c.sorts = append(c.sorts, sortCall{col, desc})
}
func (c *fakeController) Reload() { c.reloads++ }
func (c *fakeController) Do(_ context.Context, fn func(view.State)) error {
	c.doCalled++
	s := c.state
	s.Table = c.tbl
	fn(s)
	return nil
}

func newTestApp(t *testing.T) (*App, *fakeController, *bytes.Buffer) {
	t.Helper()
	layout, err := table.NewLayout(table.LayoutFull, table.DefaultCursusID)
	require.NoError(t, err)

	users := []models.User{
		{"login": "anna", "displayname": "Anna Lee", "email": "anna@example.com", "coalition_name": "The Hive"},
		{"login": "kim", "displayname": "Kim Park"},
		{"login": "zack", "displayname": "Zack Ong", "image_url": "https://cdn/zack.jpg"},
	}
	tbl := table.New(layout)
	tbl.Replace(table.Build(users, layout))

	var out bytes.Buffer
	c := &fakeController{tbl: tbl}
	return NewApp(c, NewTerminal(&out)), c, &out
}

func TestApp_FetchAndReload(t *testing.T) {
	a, c, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Fetch(ctx))
	require.NoError(t, a.Reload(ctx))

	assert.Equal(t, 1, c.fetches)
	assert.Equal(t, 1, c.reloads)
}

func TestApp_ListRespectsLimit(t *testing.T) {
	old := widthFn
	widthFn = func() int { return 200 }
	t.Cleanup(func() { widthFn = old })

	a, _, out := newTestApp(t)
	require.NoError(t, a.List(context.Background(), 2))

	s := out.String()
	assert.Contains(t, s, "Login")
	assert.NotContains(t, s, "Profile")
	assert.Contains(t, s, "anna")
	assert.Contains(t, s, "kim")
	assert.NotContains(t, s, "zack")
	assert.Contains(t, s, "2 of 3 users shown")
}

func TestApp_Filter(t *testing.T) {
	a, _, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Filter(ctx, "KIM"))
	assert.Contains(t, out.String(), `1 of 3 users match "KIM"`)

	out.Reset()
	require.NoError(t, a.Filter(ctx, ""))
	assert.Contains(t, out.String(), "Filter cleared, 3 users")
}

func TestApp_Sort(t *testing.T) {
	a, c, _ := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Sort(ctx, "login", true))
	require.NoError(t, a.Sort(ctx, "8", false))
	assert.Equal(t, []sortCall{{1, true}, {7, false}}, c.sorts)

	for _, col := range []string{"profile", "1", "0", "11", "nope"} {
		err := a.Sort(ctx, col, false)
		assert.ErrorIs(t, err, ErrUnknownColumn, col)
	}
	assert.Len(t, c.sorts, 2)
}

func TestApp_Show(t *testing.T) {
	a, _, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, a.Show(ctx, "anna"))
	s := out.String()
	assert.Contains(t, s, "Email:")
	assert.Contains(t, s, "anna@example.com")
	assert.Contains(t, s, table.NoImage)
	assert.Contains(t, s, "The Hive")

	out.Reset()
	require.NoError(t, a.Show(ctx, "zack"))
	assert.Contains(t, out.String(), "https://cdn/zack.jpg")

	assert.ErrorIs(t, a.Show(ctx, "ghost"), ErrUserNotFound)
}

func TestApp_Status(t *testing.T) {
	a, c, out := newTestApp(t)
	c.state = view.State{Status: "Fetching users page 1/2...", LastUpdated: view.NoCachedData, Fetching: true, Progress: 30}

	require.NoError(t, a.Status(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Fetching users page 1/2...", lines[0])
	assert.Equal(t, view.NoCachedData, lines[1])
	assert.Equal(t, progressBar(30), lines[2])
	assert.Equal(t, "3 of 3 users shown", lines[3])
}

func TestApp_RunPrintsBanner(t *testing.T) {
	a, c, out := newTestApp(t)
	a.Run(context.Background(), strings.NewReader("fetch\nexit\n"))

	assert.Equal(t, 1, c.fetches)
	assert.True(t, strings.HasPrefix(out.String(), "42 User Fetcher"))
}
