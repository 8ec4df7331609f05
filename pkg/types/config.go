package types

// CacheConfig holds settings for the parse snapshot cache.
type CacheConfig struct {
	// Disabled turns snapshot reuse off; every run re-parses the source.
	Disabled bool `json:"disabled" yaml:"disabled"`

	// Suffix is appended to the source path to name the snapshot
	// artifact (default ".cache.db").
	Suffix string `json:"suffix" yaml:"suffix"`
}

// BatchConfig holds settings for batch extraction.
type BatchConfig struct {
	// SystemsFile is the YAML file listing the systems to extract.
	// Empty selects systems.yaml next to the source deck.
	SystemsFile string `json:"systems_file" yaml:"systems_file"`

	// OutputDir is the directory batch outputs are written to. Empty
	// selects the source deck's directory.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ToolConfig groups all configuration sections.
type ToolConfig struct {
	Cache CacheConfig `json:"cache" yaml:"cache"`
	Batch BatchConfig `json:"batch" yaml:"batch"`
}
