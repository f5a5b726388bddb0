// Package config provides configuration structures and utilities for
// screenwitness: report page size, similarity threshold, definition file
// locations and the result store directory.
package config
