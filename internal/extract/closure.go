// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strconv"
	"strings"

	"github.com/pdiddy/mesh-extract/internal/inp"
)

// Closure is the dependency closure of a set of requested element groups:
// every block and node id a standalone submodel needs. It is a read-only
// projection over the source document, built once per extraction.
type Closure struct {
	// Groups holds the requested names as given, in request order.
	Groups []string
	// Elements holds the selected element blocks keyed by lowercased
	// group name, in document order.
	Elements *inp.BlockIndex
	// Nodes is the set of node ids the submodel needs.
	Nodes map[int]struct{}
	// Constraints holds the relevant constraint blocks in source order.
	Constraints []*inp.Block
	// NsetNames and ElsetNames hold the lowercased names of the set
	// definitions the relevant constraints reference.
	NsetNames  map[string]struct{}
	ElsetNames map[string]struct{}
	// Sections, Materials, and Behaviors hold the property blocks the
	// selection needs, each in document order.
	Sections  *inp.BlockIndex
	Materials *inp.BlockIndex
	Behaviors *inp.BlockIndex
}

// nsetOptionKeys are the constraint options that may name an nset.
var nsetOptionKeys = []string{"ref node", "tie nset", "nset"}

// Resolve computes the dependency closure of groups over doc in a single
// pass: the requested element blocks and their nodes first, then every
// constraint judged for relevance against those element nodes alone, then
// one hop of dependencies from each relevant constraint, then the
// requested groups' sections and the materials and behaviors they name.
//
// The hop is deliberately not a fixed point. Nodes and sets discovered
// while gathering constraint dependencies do not make further constraints
// relevant, and a referenced elset's members are recorded by name only.
func Resolve(doc *inp.Document, groups []string) *Closure {
	cl := &Closure{
		Groups:     groups,
		Elements:   inp.NewBlockIndex(),
		Nodes:      make(map[int]struct{}),
		NsetNames:  make(map[string]struct{}),
		ElsetNames: make(map[string]struct{}),
		Sections:   inp.NewBlockIndex(),
		Materials:  inp.NewBlockIndex(),
		Behaviors:  inp.NewBlockIndex(),
	}

	requested := make(map[string]struct{}, len(groups))
	for _, name := range groups {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			requested[name] = struct{}{}
		}
	}

	// Requested element blocks and the nodes they reference.
	for _, key := range doc.Elements.Keys() {
		if _, ok := requested[key]; !ok {
			continue
		}
		b, _ := doc.Elements.Get(key)
		cl.Elements.Put(key, b)
		for id := range b.NodeIDs {
			cl.Nodes[id] = struct{}{}
		}
	}

	// Relevance is judged for every constraint against the element nodes
	// alone, before any constraint's own dependencies are gathered.
	for _, c := range doc.Constraints {
		if constraintRelevant(c, cl.Nodes, requested) {
			cl.Constraints = append(cl.Constraints, c)
		}
	}
	for _, c := range cl.Constraints {
		cl.gatherConstraintDeps(c, doc)
	}

	// Sections for the requested groups only. A set pulled in through a
	// constraint does not bring its section along.
	for _, key := range doc.Sections.Keys() {
		if _, ok := requested[key]; ok {
			b, _ := doc.Sections.Get(key)
			cl.Sections.Put(key, b)
		}
	}

	// One hop from the selected sections to the materials and behaviors
	// they name, emitted in document order.
	matNames := make(map[string]struct{})
	behaviorNames := make(map[string]struct{})
	for _, key := range cl.Sections.Keys() {
		b, _ := cl.Sections.Get(key)
		if name := strings.ToLower(b.Option("material")); name != "" {
			matNames[name] = struct{}{}
		}
		if name := strings.ToLower(b.Option("behavior")); name != "" {
			behaviorNames[name] = struct{}{}
		}
	}
	for _, name := range doc.Materials.Keys() {
		if _, ok := matNames[name]; ok {
			b, _ := doc.Materials.Get(name)
			cl.Materials.Put(name, b)
		}
	}
	for _, name := range doc.Behaviors.Keys() {
		if _, ok := behaviorNames[name]; ok {
			b, _ := doc.Behaviors.Get(name)
			cl.Behaviors.Put(name, b)
		}
	}

	return cl
}

// constraintRelevant reports whether a constraint belongs to the submodel:
// its ref node is one of the needed nodes, or its elset option names a
// requested group, or any integer in its data lines is a needed node.
func constraintRelevant(c *inp.Block, nodes map[int]struct{}, requested map[string]struct{}) bool {
	if id, ok := numericOption(c, "ref node"); ok {
		if _, needed := nodes[id]; needed {
			return true
		}
	}

	if elset := strings.ToLower(c.Option("elset")); elset != "" {
		if _, ok := requested[elset]; ok {
			return true
		}
	}

	for id := range c.DataNodeIDs() {
		if _, needed := nodes[id]; needed {
			return true
		}
	}
	return false
}

// gatherConstraintDeps pulls in everything one relevant constraint needs:
// its numeric ref node, every integer in its data lines, the members of
// any nset its options name, and the names of nsets and elsets whose
// definitions must ride along.
func (cl *Closure) gatherConstraintDeps(c *inp.Block, doc *inp.Document) {
	if id, ok := numericOption(c, "ref node"); ok {
		cl.Nodes[id] = struct{}{}
	}

	for id := range c.DataNodeIDs() {
		cl.Nodes[id] = struct{}{}
	}

	for _, key := range nsetOptionKeys {
		name := strings.ToLower(c.Option(key))
		if name == "" {
			continue
		}
		nset, ok := doc.Nsets.Get(name)
		if !ok {
			continue
		}
		cl.NsetNames[name] = struct{}{}
		for id := range nset.DataNodeIDs() {
			cl.Nodes[id] = struct{}{}
		}
	}

	if name := strings.ToLower(c.Option("elset")); name != "" {
		if _, ok := doc.Elsets.Get(name); ok {
			cl.ElsetNames[name] = struct{}{}
		}
	}
}

// numericOption returns the option's value as an int when it is all
// digits. Signed or fractional values do not count.
func numericOption(b *inp.Block, key string) (int, bool) {
	v := b.Option(key)
	if !isDigits(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
