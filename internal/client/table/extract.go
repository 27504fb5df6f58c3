package table

import (
	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

func field(key string) func(models.User, Layout) Cell {
	return func(u models.User, _ Layout) Cell {
		return Cell{Text: text(u[key])}
	}
}

// imageURL prefers image_url and falls back to image.link.
func imageURL(u models.User) string {
	if s, ok := nonEmptyString(u["image_url"]); ok {
		return s
	}
	if img, ok := object(u["image"]); ok {
		if s, ok := nonEmptyString(img["link"]); ok {
			return s
		}
	}
	return ""
}

func profileCell(u models.User, _ Layout) Cell {
	if imageURL(u) == "" {
		return Cell{Text: NoImage}
	}
	return Cell{}
}

// extractor tries one source for a column. ok means the source decided
// the cell, even when the decision is N/A.
type extractor func(u models.User, l Layout) (Cell, bool)

// firstOf runs chain in order and returns the first decided cell, or
// fallback when no source applies.
func firstOf(chain []extractor, fallback Cell) func(models.User, Layout) Cell {
	return func(u models.User, l Layout) Cell {
		for _, ex := range chain {
			if c, ok := ex(u, l); ok {
				return c
			}
		}
		return fallback
	}
}

var (
	nameChain   = []extractor{nameFromUsualFullName, nameFromDisplayName}
	campusChain = []extractor{campusFromList, campusFromObject, campusFromCampusUsers}
	levelChain  = []extractor{levelFromCursus, levelFromFirstEntry}

	nameCell   = firstOf(nameChain, Cell{Text: models.NotAvailable})
	campusCell = firstOf(campusChain, Cell{Text: models.NotAvailable})
	levelCell  = firstOf(levelChain, Cell{Text: models.NotAvailable, Numeric: true})
)

func nameFromUsualFullName(u models.User, _ Layout) (Cell, bool) {
	s, ok := nonEmptyString(u["usual_full_name"])
	return Cell{Text: s}, ok
}

func nameFromDisplayName(u models.User, _ Layout) (Cell, bool) {
	v, ok := u["displayname"]
	if !ok || v == nil {
		return Cell{}, false
	}
	return Cell{Text: text(v)}, true
}

// campusFromList decides for any non-empty campus list: the first named
// entry, else N/A.
func campusFromList(u models.User, _ Layout) (Cell, bool) {
	l := list(u["campus"])
	if len(l) == 0 {
		return Cell{}, false
	}
	for _, c := range l {
		if m, ok := object(c); ok {
			if name, ok := m["name"]; ok {
				return Cell{Text: text(name)}, true
			}
		}
	}
	return Cell{Text: models.NotAvailable}, true
}

func campusFromObject(u models.User, _ Layout) (Cell, bool) {
	m, ok := object(u["campus"])
	if !ok || len(m) == 0 {
		return Cell{}, false
	}
	name, ok := m["name"]
	if !ok {
		return Cell{}, false
	}
	return Cell{Text: text(name)}, true
}

func campusFromCampusUsers(u models.User, _ Layout) (Cell, bool) {
	for _, cu := range list(u["campus_users"]) {
		m, ok := object(cu)
		if !ok {
			continue
		}
		if primary, _ := m["is_primary"].(bool); !primary {
			continue
		}
		campus, ok := object(m["campus"])
		if !ok {
			continue
		}
		if name, ok := campus["name"]; ok {
			return Cell{Text: text(name)}, true
		}
	}
	return Cell{}, false
}

// levelFromCursus uses the cursus_users entry for the layout's cursus.
func levelFromCursus(u models.User, l Layout) (Cell, bool) {
	for _, e := range list(u["cursus_users"]) {
		if m, ok := object(e); ok && matchesCursus(m, l.CursusID) {
			return levelOf(m), true
		}
	}
	return Cell{}, false
}

func levelFromFirstEntry(u models.User, _ Layout) (Cell, bool) {
	entries := list(u["cursus_users"])
	if len(entries) == 0 {
		return Cell{}, false
	}
	m, _ := object(entries[0])
	return levelOf(m), true
}

// levelOf reads level from a cursus_users entry. Missing level counts as 0.
func levelOf(m map[string]any) Cell {
	v, _ := number(m["level"])
	s, key := formatLevel(v)
	return Cell{Text: s, SortKey: key, Numeric: true}
}

func matchesCursus(m map[string]any, id int) bool {
	if v, ok := number(m["cursus_id"]); ok && v == float64(id) {
		return true
	}
	if c, ok := object(m["cursus"]); ok {
		if v, ok := number(c["id"]); ok && v == float64(id) {
			return true
		}
	}
	return false
}

func walletCell(u models.User, _ Layout) Cell {
	v, ok := u["wallet"]
	if !ok || v == nil {
		return Cell{Text: models.NotAvailable, Numeric: true}
	}
	key, _ := number(v)
	return Cell{Text: text(v), SortKey: key, Numeric: true}
}

func pointsCell(u models.User, _ Layout) Cell {
	c := Cell{Text: "0", Numeric: true}
	if v, ok := u[models.FieldCoalitionPoints]; ok && v != nil {
		c.Text = text(v)
		c.SortKey, _ = number(v)
	}
	if color, ok := nonEmptyString(u[models.FieldCoalitionColor]); ok {
		c.Color = color
	}
	return c
}
