// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the mesh-extract CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mesh-extract/internal/snapshot"
	"github.com/pdiddy/mesh-extract/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the mesh-extract CLI.
var rootCmd = &cobra.Command{
	Use:   "mesh-extract",
	Short: "Extract element group subsets from Abaqus INP decks",
	Long: `mesh-extract reads an Abaqus INP mesh deck and writes standalone decks
containing named element groups together with everything they depend on:
nodes, node and element sets, constraints, sections, materials, and
connector behaviors.

Use extract for a single output, or batch to produce one output per
system listed in a YAML configuration. Parsed decks are snapshotted to a
SQLite cache beside the source so repeat runs skip the parse.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./mesh-extract.yaml or ~/.config/mesh-extract/config.yaml)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the parse snapshot cache")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("mesh-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "mesh-extract"))
		}
	}

	viper.SetDefault("cache.disabled", false)
	viper.SetDefault("cache.suffix", snapshot.DefaultSuffix)

	viper.SetEnvPrefix("MESH_EXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// cacheConfig merges the no-cache flag with the cache configuration section.
func cacheConfig(cmd *cobra.Command) types.CacheConfig {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	return types.CacheConfig{
		Disabled: noCache || viper.GetBool("cache.disabled"),
		Suffix:   viper.GetString("cache.suffix"),
	}
}

// newCache builds the snapshot cache; nil disables caching.
func newCache(cfg types.CacheConfig) snapshot.Cache {
	if cfg.Disabled {
		return nil
	}
	return snapshot.NewSQLiteCache(cfg.Suffix)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
