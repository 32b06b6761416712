// Package ingest runs one police log invocation end to end: fetch the
// dispatch summary, parse it into incident rows, render the CSV, and write it
// to blob storage under a key stamped with the invocation date. Optional
// collaborators archive the rows and publish a completion notice.
//
// A run either completes fully or returns the first collaborator error; there
// is no retry and no partial-success state.
package ingest
