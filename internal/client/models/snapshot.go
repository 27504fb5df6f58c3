package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the cached result of one successful fetch.
type Snapshot struct {
	Timestamp time.Time
	Users     []User
}

type snapshotJSON struct {
	Timestamp string `json:"timestamp"`
	Users     []User `json:"users"`
}

// timestampLayouts are tried in order when reading a cache file. The second
// one matches caches written without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// ParseTimestamp parses a cache timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimestamp renders t the way it is stored in a cache document.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	users := s.Users
	if users == nil {
		users = []User{}
	}
	return json.Marshal(snapshotJSON{Timestamp: FormatTimestamp(s.Timestamp), Users: users})
}

func (s *Snapshot) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw snapshotJSON
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	ts, err := ParseTimestamp(raw.Timestamp)
	if err != nil {
		return err
	}
	s.Timestamp = ts
	s.Users = raw.Users
	return nil
}
