package table

import (
	"fmt"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

const (
	LayoutFull    = "full"
	LayoutCompact = "compact"

	NoImage    = "No Image"
	ImageError = "Error"

	DefaultCursusID = 21
)

// Column describes one table column.
type Column struct {
	Title string
	// Numeric columns sort on Cell.SortKey.
	Numeric bool
	// Thumbnail marks the profile picture column. It is never filtered on.
	Thumbnail bool

	extract func(u models.User, l Layout) Cell
}

// Layout is an ordered set of columns.
type Layout struct {
	Name     string
	Columns  []Column
	CursusID int
}

func (l Layout) Titles() []string {
	out := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		out[i] = c.Title
	}
	return out
}

var (
	colProfile   = Column{Title: "Profile", Thumbnail: true, extract: profileCell}
	colLogin     = Column{Title: "Login", extract: field("login")}
	colName      = Column{Title: "Name", extract: nameCell}
	colEmail     = Column{Title: "Email", extract: field("email")}
	colCampus    = Column{Title: "Campus", extract: campusCell}
	colPoolYear  = Column{Title: "Pool Year", extract: field("pool_year")}
	colPoolMonth = Column{Title: "Pool Month", extract: field("pool_month")}
	colLevel     = Column{Title: "Level", Numeric: true, extract: levelCell}
	colWallet    = Column{Title: "Wallet", Numeric: true, extract: walletCell}
	colPoints    = Column{Title: "Coalition Points", Numeric: true, extract: pointsCell}
)

// NewLayout returns the named layout. Level is read from the cursus with
// cursusID, DefaultCursusID when zero.
func NewLayout(name string, cursusID int) (Layout, error) {
	if cursusID == 0 {
		cursusID = DefaultCursusID
	}
	switch name {
	case LayoutFull, "":
		return Layout{Name: LayoutFull, CursusID: cursusID, Columns: []Column{
			colProfile, colLogin, colName, colEmail, colCampus,
			colPoolYear, colPoolMonth, colLevel, colWallet, colPoints,
		}}, nil
	case LayoutCompact:
		return Layout{Name: LayoutCompact, CursusID: cursusID, Columns: []Column{
			colProfile, colLogin, colName, colLevel,
		}}, nil
	default:
		return Layout{}, fmt.Errorf("unknown table layout %q", name)
	}
}
