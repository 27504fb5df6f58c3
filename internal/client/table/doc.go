// Package table turns user records into display rows and keeps the
// sort and filter state of the user table independent of any toolkit.
//
// Build maps each user through the columns of a Layout. Every column owns
// an ordered chain of extractors; the first one that finds a value wins and
// the chain ends in "N/A". Numeric columns carry the parsed value in
// Cell.SortKey so sorting them is numeric.
//
// Table is not safe for concurrent use. It is owned by the presenter
// goroutine.
package table
