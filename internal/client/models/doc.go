// Package models defines the records exchanged with the 42 intra API and the
// cached snapshot written to disk.
//
// User records are kept as generic JSON objects: the fetcher only reads a
// handful of keys for display and injects four coalition keys during
// enrichment, everything else is passed through to the cache untouched.
package models
