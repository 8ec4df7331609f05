// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/mesh-extract/internal/inp"
)

// WriteModel re-emits the closure as a standalone deck in a fixed section
// order: heading, nodes, elements, nsets, elsets, sections, materials,
// behaviors, constraints. The order respects the format's rule that
// definitions precede their uses. Set and property blocks are written
// with comment lines stripped; constraint blocks keep every raw line
// because their comments carry the constraint names.
//
// Write errors are left to the destination writer. Extract wraps the
// destination in a buffered writer and surfaces the first failure on
// flush.
func WriteModel(w io.Writer, doc *inp.Document, cl *Closure, source string) {
	writeHeading(w, cl.Groups, source)
	writeNodes(w, doc.Nodes, cl.Nodes)
	writeElements(w, cl.Elements)
	writeNamed(w, doc.Nsets, cl.NsetNames)
	writeNamed(w, doc.Elsets, cl.ElsetNames)
	writeAll(w, cl.Sections)
	writeAll(w, cl.Materials)
	writeAll(w, cl.Behaviors)

	for _, b := range cl.Constraints {
		for _, line := range b.Lines {
			fmt.Fprintln(w, line)
		}
	}
}

func writeHeading(w io.Writer, groups []string, source string) {
	fmt.Fprintln(w, "*HEADING")

	shown := groups
	if len(shown) > 3 {
		shown = shown[:3]
	}
	fmt.Fprintf(w, "Extracted model - ELSETs: %s", strings.Join(shown, ", "))
	if len(groups) > 3 {
		fmt.Fprintf(w, " and %d more", len(groups)-3)
	}
	fmt.Fprintln(w)

	if source != "" {
		fmt.Fprintf(w, "** Source: %s\n", source)
	}
	fmt.Fprintln(w, "**")
}

// writeNodes emits the needed node lines in strictly ascending id order.
// Ids with no definition in the source are skipped.
func writeNodes(w io.Writer, table map[int]string, needed map[int]struct{}) {
	fmt.Fprintln(w, "*NODE")
	ids := make([]int, 0, len(needed))
	for id := range needed {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if line, ok := table[id]; ok {
			fmt.Fprintln(w, line)
		}
	}
}

// writeElements rebuilds each group's keyword line so the output carries
// a canonical Type/Elset header, then emits the data lines with blanks,
// comments, and stray star lines dropped.
func writeElements(w io.Writer, elements *inp.BlockIndex) {
	for _, key := range elements.Keys() {
		b, _ := elements.Get(key)

		typ, ok := b.Options["type"]
		if !ok {
			typ = "UNKNOWN"
		}
		fmt.Fprintf(w, "*Element, Type=%s, Elset=%s\n", typ, key)

		for _, line := range b.Lines[1:] {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "**") || strings.HasPrefix(line, "*") {
				continue
			}
			fmt.Fprintln(w, line)
		}
	}
}

// writeNamed emits the blocks whose keys appear in names, in document order.
func writeNamed(w io.Writer, ix *inp.BlockIndex, names map[string]struct{}) {
	for _, name := range ix.Keys() {
		if _, ok := names[name]; !ok {
			continue
		}
		b, _ := ix.Get(name)
		writeStripped(w, b)
	}
}

// writeAll emits every block of the index in document order.
func writeAll(w io.Writer, ix *inp.BlockIndex) {
	for _, key := range ix.Keys() {
		b, _ := ix.Get(key)
		writeStripped(w, b)
	}
}

// writeStripped emits a block's raw lines minus comment lines. Blank
// interior lines survive, matching the source layout.
func writeStripped(w io.Writer, b *inp.Block) {
	for _, line := range b.Lines {
		if strings.HasPrefix(strings.TrimSpace(line), "**") {
			continue
		}
		fmt.Fprintln(w, line)
	}
}
