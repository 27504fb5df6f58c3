package models

import (
	"bytes"
	"encoding/json"
)

const (
	FieldLogin           = "login"
	FieldCoalitionID     = "coalition_id"
	FieldCoalitionPoints = "coalition_points"
	FieldCoalitionName   = "coalition_name"
	FieldCoalitionColor  = "coalition_color"
)

// User is a raw user object as returned by the API.
type User map[string]any

// Login returns the user's login or "" when absent.
func (u User) Login() string {
	s, _ := u[FieldLogin].(string)
	return s
}

// Enrich stores e on the record under the four coalition keys.
func (u User) Enrich(e Enrichment) {
	for k, v := range e.fields() {
		u[k] = v
	}
}

// DecodeUsers decodes a JSON array of user objects, keeping numbers as
// json.Number.
func DecodeUsers(b []byte) ([]User, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var users []User
	if err := dec.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// DecodeUser decodes a single user object, keeping numbers as json.Number.
func DecodeUser(b []byte) (User, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var u User
	if err := dec.Decode(&u); err != nil {
		return nil, err
	}
	return u, nil
}
