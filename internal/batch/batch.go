// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/pdiddy/mesh-extract/internal/extract"
	"github.com/pdiddy/mesh-extract/internal/inp"
)

// Summary counts the outcomes of one batch run.
type Summary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the number of systems processed.
func (s Summary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any system failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Run extracts every configured system from doc into outDir. Output files
// are named <source base>_<system>.inp. A failing system does not stop
// the run; its error joins the returned aggregate.
func Run(doc *inp.Document, cfg *Config, source, outDir string, w io.Writer) (Summary, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	var summary Summary
	var errs error
	for _, sys := range cfg.Systems {
		if len(sys.Elsets) == 0 {
			fmt.Fprintf(w, "skipped %s: no element groups\n", sys.Name)
			summary.Skipped++
			continue
		}

		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.inp", base, sys.Name))
		fmt.Fprintf(w, "extracting %s\n", sys.Name)

		if _, err := extract.Extract(doc, sys.Elsets, outPath, source, w); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", sys.Name, err)
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sys.Name, err))
			continue
		}

		fmt.Fprintf(w, "extracted %s (%s)\n", sys.Name, outPath)
		summary.Extracted++
	}

	fmt.Fprintf(w, "\nextracted: %d, skipped: %d, failed: %d\n",
		summary.Extracted, summary.Skipped, summary.Failed)
	return summary, errs
}
