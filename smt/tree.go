package smt

import (
	"github.com/holiman/uint256"
)

// EmptyLeaf is the value of every unset leaf.
var EmptyLeaf Hash

var defaults = func() [Depth + 1]Hash {
	var d [Depth + 1]Hash
	d[0] = EmptyLeaf
	for h := 1; h <= Depth; h++ {
		d[h] = HashPair(d[h-1], d[h-1])
	}
	return d
}()

// EmptyRoot is the root of a tree with no leaves set.
func EmptyRoot() Hash { return defaults[Depth] }

// indexMask keeps the Depth low bits of an index; higher bits never reach
// a branch decision.
var indexMask = func() *uint256.Int {
	one := uint256.NewInt(1)
	m := new(uint256.Int).Lsh(one, Depth)
	return m.Sub(m, one)
}()

// Tree is an in-memory sparse Merkle tree used to build honest proofs.
// Only non-empty nodes are stored; empty subtrees hash to precomputed
// defaults.
type Tree struct {
	leaves map[uint256.Int]Hash
	// levels[h] maps index>>h to the node hash at height h. It is rebuilt
	// lazily after Set.
	levels []map[uint256.Int]Hash
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{leaves: make(map[uint256.Int]Hash)}
}

func canonicalIndex(index Hash) uint256.Int {
	var v uint256.Int
	v.SetBytes32(index[:])
	v.And(&v, indexMask)
	return v
}

// Set stores leaf at index. Setting EmptyLeaf removes the entry.
func (t *Tree) Set(index, leaf Hash) {
	key := canonicalIndex(index)
	if leaf == EmptyLeaf {
		delete(t.leaves, key)
	} else {
		t.leaves[key] = leaf
	}
	t.levels = nil
}

// Get returns the leaf stored at index, or EmptyLeaf.
func (t *Tree) Get(index Hash) Hash {
	return t.leaves[canonicalIndex(index)]
}

// Len returns the number of non-empty leaves.
func (t *Tree) Len() int { return len(t.leaves) }

func (t *Tree) build() {
	if t.levels != nil {
		return
	}
	levels := make([]map[uint256.Int]Hash, Depth+1)
	levels[0] = t.leaves
	one := uint256.NewInt(1)
	for h := 0; h < Depth; h++ {
		next := make(map[uint256.Int]Hash, len(levels[h]))
		for prefix := range levels[h] {
			var parent uint256.Int
			parent.Rsh(&prefix, 1)
			if _, done := next[parent]; done {
				continue
			}
			var left, right uint256.Int
			left.Lsh(&parent, 1)
			right.Or(&left, one)
			next[parent] = HashPair(node(levels[h], h, left), node(levels[h], h, right))
		}
		levels[h+1] = next
	}
	t.levels = levels
}

func node(level map[uint256.Int]Hash, height int, prefix uint256.Int) Hash {
	if h, ok := level[prefix]; ok {
		return h
	}
	return defaults[height]
}

// Root returns the current tree root.
func (t *Tree) Root() Hash {
	t.build()
	return node(t.levels[Depth], Depth, uint256.Int{})
}

// Prove returns the leaf stored at index and its sibling path.
func (t *Tree) Prove(index Hash) (Hash, *Path) {
	t.build()
	idx := canonicalIndex(index)
	one := uint256.NewInt(1)
	path := new(Path)
	for level := 0; level < Depth; level++ {
		var sib uint256.Int
		sib.Rsh(&idx, uint(level))
		sib.Xor(&sib, one)
		path[level] = node(t.levels[level], level, sib)
	}
	return t.leaves[idx], path
}

// SelfHashedPath builds the balanced reference path used by the benchmark
// driver: node[0] = leaf, node[i+1] = HashPair(node[i], node[i]). The path
// holds node[0..Depth-1] and the returned root is node[Depth].
//
// Because both children are equal at every level, the root is the same for
// every index.
func SelfHashedPath(leaf Hash) (*Path, Hash) {
	path := new(Path)
	node := leaf
	for level := 0; level < Depth; level++ {
		path[level] = node
		node = HashPair(node, node)
	}
	return path, node
}
