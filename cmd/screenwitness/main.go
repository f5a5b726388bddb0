// Package main provides the entry point for the screenwitness CLI.
//
// screenwitness turns captured web pages into a categorized, paginated
// HTML report. Capture files are imported into a local result store,
// classified against the signature files and rendered into report.html.
//
// Usage:
//
//	screenwitness import captures.jsonl
//	screenwitness report -d ./out
//
// See --help for all available options.
package main

func main() {
	Execute()
}
