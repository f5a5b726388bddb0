// Package pipeline turns stored captures into the screenwitness report.
//
// Two entry points exist:
//   - Importer reads capture files (JSON lines), prepares and classifies
//     each record and writes it to the result store.
//   - Pipeline runs ordered steps over a Run: optional recategorization
//     and persistence, then the HTML report, the summary files and the
//     request log.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls so that commands can assemble only the steps they need (search
// skips the summary files, recategorize adds two steps in front) while
// logging and error handling stay in one place.
package pipeline
