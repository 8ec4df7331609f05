// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inp

import (
	"strconv"
	"strings"
)

// BlockIndex is an insertion-ordered block map. A later Put under an
// existing key replaces the block but keeps the key's original position,
// so iteration follows document order.
type BlockIndex struct {
	byKey map[string]*Block
	order []string
}

// NewBlockIndex returns an empty index.
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{byKey: make(map[string]*Block)}
}

// Put stores b under key, replacing any earlier block with the same key.
func (ix *BlockIndex) Put(key string, b *Block) {
	if _, exists := ix.byKey[key]; !exists {
		ix.order = append(ix.order, key)
	}
	ix.byKey[key] = b
}

// Get returns the block stored under key.
func (ix *BlockIndex) Get(key string) (*Block, bool) {
	b, ok := ix.byKey[key]
	return b, ok
}

// Len returns the number of stored blocks.
func (ix *BlockIndex) Len() int {
	return len(ix.byKey)
}

// Keys returns the index keys in document order. The slice is shared;
// callers must not modify it.
func (ix *BlockIndex) Keys() []string {
	return ix.order
}

// Document is a classified mesh deck. Indexed collections keep document
// order; keys are lowercased set or material names.
type Document struct {
	// Nodes maps a node id to its raw definition line.
	Nodes map[int]string
	// Elements holds element blocks keyed by elset name.
	Elements *BlockIndex
	// Nsets holds node set blocks keyed by nset name.
	Nsets *BlockIndex
	// Elsets holds element set blocks keyed by elset name.
	Elsets *BlockIndex
	// Materials holds material blocks keyed by material name.
	Materials *BlockIndex
	// Sections holds section blocks of every variant keyed by elset name.
	Sections *BlockIndex
	// Behaviors holds connector behavior blocks keyed by behavior name.
	Behaviors *BlockIndex
	// Constraints holds constraint blocks in source order.
	Constraints []*Block
	// Others holds blocks with unrecognized keywords in source order.
	Others []*Block
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Nodes:     make(map[int]string),
		Elements:  NewBlockIndex(),
		Nsets:     NewBlockIndex(),
		Elsets:    NewBlockIndex(),
		Materials: NewBlockIndex(),
		Sections:  NewBlockIndex(),
		Behaviors: NewBlockIndex(),
	}
}

// AddBlock routes a classified block into its collection. Indexed blocks
// whose index option is missing or empty are dropped; unknown keywords
// land in Others.
func (d *Document) AddBlock(b *Block) {
	r, ok := blockRoutes[b.Keyword]
	if !ok {
		d.Others = append(d.Others, b)
		return
	}
	if r.policy == mergeAppend {
		d.Constraints = append(d.Constraints, b)
		return
	}
	key := strings.ToLower(b.Option(r.indexKey))
	if key == "" {
		return
	}
	d.index(r.collection).Put(key, b)
}

// AddNodeLines feeds node definition lines into the node table. Each data
// line's leading comma field is the node id; the full raw line is kept
// for re-emission. A later definition of an id replaces the earlier one;
// lines whose leading field is not an integer are skipped.
func (d *Document) AddNodeLines(lines []string) {
	for _, line := range dataLines(lines) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "**") || strings.HasPrefix(line, "*") {
			continue
		}
		first, _, _ := strings.Cut(line, ",")
		id, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			continue
		}
		d.Nodes[id] = line
	}
}

func (d *Document) index(c collection) *BlockIndex {
	switch c {
	case collElements:
		return d.Elements
	case collNsets:
		return d.Nsets
	case collElsets:
		return d.Elsets
	case collMaterials:
		return d.Materials
	case collSections:
		return d.Sections
	case collBehaviors:
		return d.Behaviors
	}
	return nil
}
