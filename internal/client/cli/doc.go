// Package cli is the terminal front-end of the user fetcher.
//
// Terminal implements view.View by printing status lines. App runs a
// read-eval-print loop over stdin whose commands go to the presenter:
//
//	fetch              start a fetch cycle
//	list [n]           print the visible rows, at most n
//	filter [text]      set the row filter, empty clears it
//	sort <col> [desc]  sort by column title or 1-based index
//	show <login>       print one user
//	status             print status and last update
//	reload             re-read the cache
//	help, exit, quit
package cli
