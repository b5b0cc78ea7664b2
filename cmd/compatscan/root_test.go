package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests command wiring.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	t.Run("subcommands are registered", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()

		for _, want := range []string{"scan", "history", "version"} {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Name() == want {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("subcommand %q not registered", want)
			}
		}
	})

	t.Run("verbose flag is persistent", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if cmd.PersistentFlags().Lookup("verbose") == nil {
			t.Error("expected persistent --verbose flag")
		}
	})

	t.Run("help output names the tool", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--help"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("Execute returned error: %v", err)
		}
		if !strings.Contains(buf.String(), "compatscan") {
			t.Errorf("help output missing tool name:\n%s", buf.String())
		}
	})

	t.Run("scan requires a url argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"scan"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error when url argument missing")
		}
	})
}
