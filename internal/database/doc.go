// Package database provides SQLite-based storage for captured pages.
//
// The capture layer and the import command write rows into the pages
// table. A row starts incomplete and becomes complete once the page has
// been fully recorded; report generation only reads complete rows. A
// small options table keeps run settings such as the last report
// directory.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// result store must be a single portable file that can be copied along
// with the report, and the CGO-free driver keeps cross-compilation easy.
package database
