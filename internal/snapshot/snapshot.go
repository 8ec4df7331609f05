// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists tokenized mesh documents between runs so a
// large source deck is parsed once, not once per extraction. The snapshot
// is a pure memoization: every failure is a cache miss that falls back to
// re-parsing, never an error the caller must handle.
package snapshot

import (
	"github.com/pdiddy/mesh-extract/internal/inp"
)

// Cache persists a tokenized document between runs. Implementations treat
// stale, corrupt, or unreadable snapshots as misses.
type Cache interface {
	// TryLoad returns the snapshot for source when one exists and is
	// strictly newer than the source document.
	TryLoad(source string) (*inp.Document, bool)
	// Store persists the parsed document for source, replacing any
	// earlier snapshot.
	Store(source string, doc *inp.Document) error
}

// LoadOrParse returns the cached document for source when the cache holds
// a fresh snapshot, and otherwise parses the source and refreshes the
// snapshot best-effort. A nil cache disables caching entirely.
func LoadOrParse(source string, cache Cache) (*inp.Document, error) {
	if cache != nil {
		if doc, ok := cache.TryLoad(source); ok {
			return doc, nil
		}
	}

	doc, err := inp.ParseFile(source)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		// A snapshot that cannot be written only costs the next run a
		// re-parse.
		cache.Store(source, doc)
	}
	return doc, nil
}
