// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cmdDeck = `*NODE
1, 0.0, 0.0, 0.0
2, 1.0, 0.0, 0.0
*Element, Type=S4, Elset=CABIN
10, 1, 2
`

func writeCmdDeck(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.inp")
	if err := os.WriteFile(path, []byte(cmdDeck), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractCommandOutputFlagForms(t *testing.T) {
	tests := []struct {
		name string
		flag string
	}{
		{"long form", "--output"},
		{"shorthand", "-o"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := writeCmdDeck(t)
			out := filepath.Join(filepath.Dir(source), "cabin.inp")

			rootCmd.SetArgs([]string{"extract", source, "--elsets", "CABIN", tt.flag, out, "--no-cache"})
			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("Execute: %v", err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if !strings.Contains(string(data), "*Element, Type=S4, Elset=cabin") {
				t.Errorf("output missing element block:\n%s", data)
			}
		})
	}
}

func TestExtractCommandRequiresElsets(t *testing.T) {
	source := writeCmdDeck(t)

	// Flags are shared command state; clear any value left by other runs.
	if err := extractCmd.Flags().Set("elsets", ""); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"extract", source, "-o", filepath.Join(filepath.Dir(source), "out.inp"), "--no-cache"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error without --elsets")
	}
	if !strings.Contains(err.Error(), "--elsets") {
		t.Errorf("err = %v, want a message naming --elsets", err)
	}
}

func TestExtractCommandRequiresSourceArg(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"extract", "--elsets", "CABIN", "-o", "out.inp", "--no-cache"})

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error without a source argument")
	}
}
