// Package model defines the records shared by every stage of screenwitness.
//
// This package contains the following main types:
//   - CapturedPage: One target as produced by the capture layer
//   - Category: The closed vocabulary of report sections
//   - ErrorState: Capture failures that route a page to the Errors section
//
// CapturedPage is serialised to JSON both for the result store and for the
// JSON-lines files the import command reads.
package model
