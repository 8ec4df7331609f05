// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inp

// collection identifies the Document collection a classified block lands in.
type collection int

const (
	collElements collection = iota
	collNsets
	collElsets
	collMaterials
	collSections
	collBehaviors
	collConstraints
)

// mergePolicy says how blocks combine within a collection.
type mergePolicy int

const (
	// mergeIndexed stores blocks under a lowercased index key; a later
	// block with the same key replaces the earlier one.
	mergeIndexed mergePolicy = iota
	// mergeAppend keeps every block in source order.
	mergeAppend
)

// route describes where blocks of one keyword are stored.
type route struct {
	collection collection
	// indexKey names the option whose lowercased value indexes the
	// block. Blocks missing it are dropped. Empty for mergeAppend.
	indexKey string
	policy   mergePolicy
}

// nodeKeyword is handled by the reader itself: node blocks feed the node
// table instead of a block collection.
const nodeKeyword = "node"

// blockRoutes is the static routing table from keyword to destination.
// It is never modified after package initialization.
//
// Every section variant shares the sections collection and the elset key,
// so a later section of any kind for the same elset replaces the earlier
// one. Source decks define one section per elset, which keeps this safe.
var blockRoutes = map[string]route{
	"element":  {collElements, "elset", mergeIndexed},
	"nset":     {collNsets, "nset", mergeIndexed},
	"elset":    {collElsets, "elset", mergeIndexed},
	"material": {collMaterials, "name", mergeIndexed},

	"solid section":     {collSections, "elset", mergeIndexed},
	"shell section":     {collSections, "elset", mergeIndexed},
	"beam section":      {collSections, "elset", mergeIndexed},
	"connector section": {collSections, "elset", mergeIndexed},
	"membrane section":  {collSections, "elset", mergeIndexed},
	"surface section":   {collSections, "elset", mergeIndexed},
	"cohesive section":  {collSections, "elset", mergeIndexed},
	"gasket section":    {collSections, "elset", mergeIndexed},
	"truss section":     {collSections, "elset", mergeIndexed},
	"frame section":     {collSections, "elset", mergeIndexed},

	"connector behavior": {collBehaviors, "name", mergeIndexed},

	"coupling":                {collConstraints, "", mergeAppend},
	"kinematic":               {collConstraints, "", mergeAppend},
	"distributing":            {collConstraints, "", mergeAppend},
	"rigid body":              {collConstraints, "", mergeAppend},
	"mpc":                     {collConstraints, "", mergeAppend},
	"tie":                     {collConstraints, "", mergeAppend},
	"equation":                {collConstraints, "", mergeAppend},
	"embedded region":         {collConstraints, "", mergeAppend},
	"shell to solid coupling": {collConstraints, "", mergeAppend},
	"cyclic symmetry model":   {collConstraints, "", mergeAppend},
}
