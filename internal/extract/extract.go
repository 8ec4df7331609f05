// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract computes the dependency closure of named element groups
// over a classified mesh document and serializes it as a standalone deck.
package extract

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/mesh-extract/internal/inp"
)

// Stats holds the counts from one extraction for reporting and assertions.
type Stats struct {
	ElementBlocks int
	Elements      int
	Nodes         int
	Constraints   int
	Nsets         int
	Elsets        int
	Sections      int
	Materials     int
	Behaviors     int
}

// Extract resolves the closure of groups over doc and writes a standalone
// deck to outputPath. source, when non-empty, is recorded in the output
// heading. Progress counts go to w.
//
// Requested names are trimmed and empties dropped; at least one name must
// remain. A name matching no element group is not an error: the output is
// still produced, just without elements for that name.
func Extract(doc *inp.Document, groups []string, outputPath, source string, w io.Writer) (Stats, error) {
	cleaned := make([]string, 0, len(groups))
	for _, g := range groups {
		if g = strings.TrimSpace(g); g != "" {
			cleaned = append(cleaned, g)
		}
	}
	if len(cleaned) == 0 {
		return Stats{}, fmt.Errorf("no element groups requested")
	}

	cl := Resolve(doc, cleaned)
	stats := closureStats(cl)
	report(w, stats)

	f, err := os.Create(outputPath)
	if err != nil {
		return stats, fmt.Errorf("creating %s: %w", outputPath, err)
	}
	bw := bufio.NewWriter(f)
	WriteModel(bw, doc, cl, source)
	if err := bw.Flush(); err != nil {
		f.Close()
		return stats, fmt.Errorf("writing %s: %w", outputPath, err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("closing %s: %w", outputPath, err)
	}
	return stats, nil
}

func closureStats(cl *Closure) Stats {
	s := Stats{
		ElementBlocks: cl.Elements.Len(),
		Nodes:         len(cl.Nodes),
		Constraints:   len(cl.Constraints),
		Nsets:         len(cl.NsetNames),
		Elsets:        len(cl.ElsetNames),
		Sections:      cl.Sections.Len(),
		Materials:     cl.Materials.Len(),
		Behaviors:     cl.Behaviors.Len(),
	}
	for _, key := range cl.Elements.Keys() {
		b, _ := cl.Elements.Get(key)
		s.Elements += countElementRows(b)
	}
	return s
}

// countElementRows counts a block's element rows: non-blank data lines
// that are not star-prefixed.
func countElementRows(b *inp.Block) int {
	n := 0
	for _, line := range b.Lines[1:] {
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "*") {
			n++
		}
	}
	return n
}

func report(w io.Writer, s Stats) {
	fmt.Fprintf(w, "elements: %d in %d block(s), nodes: %d\n", s.Elements, s.ElementBlocks, s.Nodes)
	if s.Constraints > 0 || s.Nsets > 0 || s.Elsets > 0 {
		fmt.Fprintf(w, "constraints: %d, nsets: %d, elsets: %d\n", s.Constraints, s.Nsets, s.Elsets)
	}
	if s.Sections > 0 || s.Materials > 0 || s.Behaviors > 0 {
		fmt.Fprintf(w, "sections: %d, materials: %d, behaviors: %d\n", s.Sections, s.Materials, s.Behaviors)
	}
}
