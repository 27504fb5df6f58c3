package models

import (
	"encoding/json"
	"strconv"
)

const (
	NotAvailable          = "N/A"
	DefaultCoalitionColor = "#CCCCCC"
)

// Coalition is one entry of the /v2/coalitions catalog.
type Coalition struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// CoalitionUser is a user's membership row from /v2/users/:login/coalitions_users.
type CoalitionUser struct {
	ID          int `json:"id"`
	CoalitionID int `json:"coalition_id"`
	UserID      int `json:"user_id"`
	Score       int `json:"score"`
}

// Enrichment is the coalition data attached to a user record.
type Enrichment struct {
	CoalitionID *int
	Points      int
	Name        string
	Color       string
}

// DefaultEnrichment is used for users without a usable coalition membership.
func DefaultEnrichment() Enrichment {
	return Enrichment{Name: NotAvailable, Color: DefaultCoalitionColor}
}

// NewEnrichment builds the enrichment for membership m, looking the coalition
// up in catalog. Catalog misses keep the default name and color.
func NewEnrichment(m CoalitionUser, catalog map[int]Coalition) Enrichment {
	id := m.CoalitionID
	e := Enrichment{CoalitionID: &id, Points: m.Score, Name: NotAvailable, Color: DefaultCoalitionColor}
	if c, ok := catalog[m.CoalitionID]; ok {
		if c.Name != "" {
			e.Name = c.Name
		}
		if c.Color != "" {
			e.Color = c.Color
		}
	}
	return e
}

// fields renders e as the four JSON values stored on a user record. Numbers
// are json.Number so they compare equal after a cache round trip.
func (e Enrichment) fields() map[string]any {
	var id any
	if e.CoalitionID != nil {
		id = json.Number(strconv.Itoa(*e.CoalitionID))
	}
	return map[string]any{
		FieldCoalitionID:     id,
		FieldCoalitionPoints: json.Number(strconv.Itoa(e.Points)),
		FieldCoalitionName:   e.Name,
		FieldCoalitionColor:  e.Color,
	}
}
