// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mesh-extract/internal/extract"
	"github.com/pdiddy/mesh-extract/internal/snapshot"
)

var extractCmd = &cobra.Command{
	Use:   "extract [source.inp]",
	Short: "Extract element groups and their dependencies into one deck",
	Long: `Extract parses an INP deck (or loads its snapshot), resolves the named
element groups together with the nodes, sets, constraints, sections,
materials, and connector behaviors they reference, and writes the result
as a standalone deck.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("elsets", "", "comma-separated element group names (required)")
	extractCmd.Flags().StringP("output", "o", "", "output deck path (required)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one source deck path")
	}
	source := args[0]

	elsetsFlag, _ := cmd.Flags().GetString("elsets")
	groups := splitGroups(elsetsFlag)
	if len(groups) == 0 {
		return fmt.Errorf("provide element group names with --elsets")
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return fmt.Errorf("provide an output path with --output")
	}

	doc, err := snapshot.LoadOrParse(source, newCache(cacheConfig(cmd)))
	if err != nil {
		return err
	}

	fmt.Printf("extracting %s from %s\n", strings.Join(groups, ", "), source)
	if _, err := extract.Extract(doc, groups, output, source, os.Stdout); err != nil {
		return err
	}
	fmt.Printf("extracted %s\n", output)
	return nil
}

// splitGroups splits a comma-separated flag value, dropping empty entries.
func splitGroups(s string) []string {
	var groups []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}
