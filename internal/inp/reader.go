// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse tokenizes a mesh deck into a classified Document in one forward
// pass. Lines are right-trimmed. A keyword line starts a block and closes
// the previous one; blank and comment lines inside an open block are kept
// so the block can be re-emitted verbatim, while the same lines before
// the first block are discarded. An indented star line is data, never a
// keyword.
func Parse(r io.Reader) (*Document, error) {
	doc := NewDocument()

	var (
		keyword string
		options map[string]string
		lines   []string
		open    bool
	)

	flush := func() {
		if !open {
			return
		}
		if keyword == nodeKeyword {
			doc.AddNodeLines(lines)
		} else {
			doc.AddBlock(NewBlock(keyword, options, lines))
		}
		open = false
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)

		// Blank and comment lines belong to the open block, if any.
		if trimmed == "" || strings.HasPrefix(trimmed, "**") {
			if open {
				lines = append(lines, line)
			}
			continue
		}

		if kw, opts, ok := parseKeywordLine(line); ok {
			flush()
			keyword, options, lines, open = kw, opts, []string{line}, true
			continue
		}

		// Data line. A bare * with no tokens lands here too.
		if open {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	flush()

	return doc, nil
}

// ParseFile opens and tokenizes the deck at path. The file is closed on
// every return path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
