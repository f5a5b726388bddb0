// Package signature loads the two line-oriented signature databases used to
// fingerprint captured pages: default credentials and content categories.
//
// Each non-blank line that does not start with '#' holds one rule:
//
//	criterion1;criterion2;...|payload
//
// The line is split on the first '|'. Every criterion must appear in the
// page source (case-insensitive) for the rule to match. For credential
// rules the payload is the note shown in the report; for category rules it
// is a category tag.
//
// Parsing is tolerant: a bad line is reported as a LineError and skipped so
// one typo cannot stop a run. Validate is the strict counterpart used by
// the validate command.
package signature
