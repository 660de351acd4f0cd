// Package tree implements the append-only capture-tree arena a Vm match
// writes into: String, Sequence, Node, and Error nodes, indexed by a
// stable NodeID for the lifetime of a single match.
//
// The arena never shrinks mid-match. Backtracking discards accumulated
// child-id lists (a VM-internal bookkeeping concern, not this package's),
// not tree nodes themselves — nodes that become unreachable because their
// parent capture frame was abandoned are simply garbage, accepted as the
// cost of giving every emitted node a stable id for the whole match. Reset
// clears the arena between independent matches.
package tree
