// Package integrity checks that grouped uploads are stored as complete page sequences.
//
// A grouped upload writes pages {session}/{file}/1.jpeg .. n.jpeg. A failed batch
// leaves the pages that were written before the failure, so a document can end up
// with gaps. CheckDocument lists the document prefix and reports:
//
//   - Pages: stored page numbers, ascending
//   - Highest: the largest stored page number
//   - Missing: numbers between 1 and Highest with no page
//   - Foreign: keys under the prefix that do not parse as pages of this document
//
// # HTTP Endpoints
//
//   - GET /integrity/:session/:file : Runs the document check.
package integrity
