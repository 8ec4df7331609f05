// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mesh-extract/internal/batch"
	"github.com/pdiddy/mesh-extract/internal/snapshot"
	"github.com/pdiddy/mesh-extract/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [source.inp]",
	Short: "Extract every system listed in a YAML configuration",
	Long: `Batch parses the source deck once (or loads its snapshot) and extracts
every system from the systems file, writing <source>_<system>.inp per
entry. A failing system does not stop the run; the command exits
non-zero if any system failed.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().String("systems", "", "systems file (default: systems.yaml next to the source deck)")
	batchCmd.Flags().String("output-dir", "", "directory for output decks (default: the source deck's directory)")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one source deck path")
	}
	source := args[0]

	cfg := batchConfig(cmd, source)
	systems, err := batch.LoadSystems(cfg.SystemsFile)
	if err != nil {
		return err
	}

	doc, err := snapshot.LoadOrParse(source, newCache(cacheConfig(cmd)))
	if err != nil {
		return err
	}

	summary, err := batch.Run(doc, systems, source, cfg.OutputDir, os.Stdout)
	if summary.HasFailures() {
		return fmt.Errorf("%d system(s) failed extraction: %w", summary.Failed, err)
	}
	return err
}

// batchConfig resolves the systems file and output directory from flags,
// configuration, and the source location, in that order.
func batchConfig(cmd *cobra.Command, source string) types.BatchConfig {
	systemsFile, _ := cmd.Flags().GetString("systems")
	if systemsFile == "" {
		systemsFile = viper.GetString("batch.systems_file")
	}
	if systemsFile == "" {
		systemsFile = batch.DefaultSystemsPath(source)
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("batch.output_dir")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}

	return types.BatchConfig{SystemsFile: systemsFile, OutputDir: outputDir}
}
