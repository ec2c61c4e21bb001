// Package smt verifies sparse Merkle tree inclusion proofs.
//
// The tree has a fixed depth of 255 levels. A proof is a leaf, a 256-bit
// big-endian index and one sibling hash per level, ordered from the leaf
// upwards. At each level the low bit of the (shifted) index says whether the
// running node is the right child (1) or the left child (0).
//
// Depth is a protocol constant: the guest wire format stores exactly Depth
// siblings per proof and never encodes the depth itself.
package smt

import (
	"github.com/holiman/uint256"
	"github.com/minio/sha256-simd"
)

// Depth is the number of levels between a leaf and the root.
const Depth = 255

// HashSize is the width of every node in the tree.
const HashSize = 32

// Hash is a tree node.
type Hash = [HashSize]byte

// Path is the sibling path of a proof, leaf level first.
type Path [Depth]Hash

// HashPair returns SHA256(left || right).
func HashPair(left, right Hash) Hash {
	var buf [2 * HashSize]byte
	copy(buf[:HashSize], left[:])
	copy(buf[HashSize:], right[:])
	return sha256.Sum256(buf[:])
}

// ComputeRoot walks the path from leaf to root and returns the candidate
// root for index.
func ComputeRoot(leaf Hash, index Hash, path *Path) Hash {
	idx := new(uint256.Int).SetBytes32(index[:])
	current := leaf
	for level := 0; level < Depth; level++ {
		if idx.Uint64()&1 == 0 {
			current = HashPair(current, path[level])
		} else {
			current = HashPair(path[level], current)
		}
		idx.Rsh(idx, 1)
	}
	return current
}

// Verify reports whether the proof recomputes root.
func Verify(root, leaf, index Hash, path *Path) bool {
	return ComputeRoot(leaf, index, path) == root
}

// IndexFromUint64 encodes v as a 32-byte big-endian index.
func IndexFromUint64(v uint64) Hash {
	return uint256.NewInt(v).Bytes32()
}
