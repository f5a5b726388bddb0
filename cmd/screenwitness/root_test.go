package main

import (
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "screenwitness" {
			t.Errorf("expected use 'screenwitness', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()

		got := make(map[string]bool)
		for _, sub := range cmd.Commands() {
			got[sub.Name()] = true
		}
		for _, name := range []string{"import", "report", "recategorize", "search", "splash", "validate", "init", "version"} {
			if !got[name] {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestStoreFlags tests that every store command shares the same flags.
func TestStoreFlags(t *testing.T) {
	t.Parallel()

	for _, cmd := range NewRootCmd().Commands() {
		switch cmd.Name() {
		case "import", "report", "recategorize", "search", "splash":
		default:
			continue
		}
		t.Run(cmd.Name(), func(t *testing.T) {
			t.Parallel()
			for _, name := range []string{"config", "output-dir", "db"} {
				if cmd.Flags().Lookup(name) == nil {
					t.Errorf("expected %s flag", name)
				}
			}
		})
	}
}
