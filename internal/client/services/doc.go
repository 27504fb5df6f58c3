// Package services holds the user fetch pipeline: campus resolution, paged
// user download with retry, coalition enrichment and the FetchService that
// runs them in order for one fetch cycle.
//
// Every step runs on the caller's goroutine. Nothing here touches the UI;
// progress leaves the pipeline as Progress values.
package services
