// Package practice models Continuous Delivery practices and the dependency
// relationships between them.
//
// The external data layer delivers a nested tree: each [Node] carries its
// dependencies as full child nodes. Because a practice can be required by
// several others, the same id may occur in multiple subtrees — the tree is
// really a DAG with duplicated occurrences. This package turns that shape
// into structures the rest of the system can process safely:
//
//   - [BuildIndex] builds the id→node arena used for O(1) lookups
//   - [Flatten] produces the level-annotated node list for layered rendering
//   - [EnrichCounts] computes direct and unique-transitive dependency counts
//   - [FilterBySelection] narrows a flat tree to a selection's ancestors
//     and descendants
//
// All traversals use explicit visited sets keyed by id, so shared subtrees
// are processed once and an accidental upstream cycle degrades to a partial
// result instead of nontermination.
//
// # Input contract
//
// The data-fetch boundary is responsible for delivering well-formed trees.
// [Validate] fails fast on nil nodes and empty ids; nothing in this package
// silently coerces malformed input. Re-occurrences of an id are assumed to
// be structurally identical copies.
package practice
