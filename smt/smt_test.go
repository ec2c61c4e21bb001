package smt

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"
)

func mustHash(t *testing.T, s string) (h Hash) {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	copy(h[:], b)
	return h
}

func TestHashPair(t *testing.T) {
	var l, r Hash
	l[0], r[0] = 1, 2
	want := sha256.Sum256(append(l[:], r[:]...))
	require.Equal(t, Hash(want), HashPair(l, r))
	require.NotEqual(t, HashPair(l, r), HashPair(r, l))
}

func TestIndexFromUint64_BigEndian(t *testing.T) {
	idx := IndexFromUint64(1000)
	require.Equal(t, byte(0x03), idx[30])
	require.Equal(t, byte(0xe8), idx[31])
	require.Equal(t, make([]byte, 30), idx[:30])
}

func TestComputeRoot_BitOrder(t *testing.T) {
	var leaf Hash
	leaf[0] = 0xaa
	path := new(Path)
	for i := range path {
		path[i][0] = byte(i)
		path[i][1] = 0x55
	}

	// Walk by hand: bit i of the index picks the side at level i.
	index := IndexFromUint64(0b101)
	want := leaf
	for level := 0; level < Depth; level++ {
		if level == 0 || level == 2 {
			want = HashPair(path[level], want)
		} else {
			want = HashPair(want, path[level])
		}
	}
	require.Equal(t, want, ComputeRoot(leaf, index, path))
	require.True(t, Verify(want, leaf, index, path))
	require.False(t, Verify(want, leaf, IndexFromUint64(0b100), path))
}

func TestComputeRoot_HighBitsShiftAcrossBytes(t *testing.T) {
	tree := NewTree()
	var idx Hash
	idx[0] = 0x40 // bit 254, the last level
	idx[15] = 0x01
	idx[31] = 0x80
	tree.Set(idx, sha256.Sum256([]byte("deep")))

	leaf, path := tree.Prove(idx)
	require.True(t, Verify(tree.Root(), leaf, idx, path))

	// Bit 255 never reaches a branch decision.
	alias := idx
	alias[0] |= 0x80
	require.True(t, Verify(tree.Root(), leaf, alias, path))
	require.Equal(t, leaf, tree.Get(alias))
}

func TestSelfHashedPath(t *testing.T) {
	leaf := sha256.Sum256(bytes.Repeat([]byte{12}, 64))
	require.Equal(t, mustHash(t, "858b73d63eb2439f5d3755fe6002d941fcc99e9a5fdb06fb568a21ff2599262f"), Hash(leaf))

	path, root := SelfHashedPath(leaf)
	require.Equal(t, mustHash(t, "7230b66ab57bcb6b64595bd085620a2a29f6a33fb7949c55f819cbc7d2217e86"), root)
	require.Equal(t, Hash(leaf), path[0])
	require.Equal(t, HashPair(path[Depth-1], path[Depth-1]), root)

	for _, i := range []uint64{0, 1000, 1001, ^uint64(0)} {
		require.True(t, Verify(root, leaf, IndexFromUint64(i), path), "index %d", i)
	}
}

func TestTree_EmptyRoot(t *testing.T) {
	tree := NewTree()
	require.Equal(t, mustHash(t, "b9d06312bf5aee1fa7c879fc61c62edf16e9b523a9f89e04c02000223fbd0de9"), tree.Root())
	require.Equal(t, EmptyRoot(), tree.Root())

	// A non-membership proof is an inclusion proof of the empty leaf.
	idx := IndexFromUint64(77)
	leaf, path := tree.Prove(idx)
	require.Equal(t, EmptyLeaf, leaf)
	require.True(t, Verify(tree.Root(), leaf, idx, path))
}

func TestTree_ProofsForEveryLeaf(t *testing.T) {
	tree := NewTree()
	indices := []uint64{0, 1, 2, 3, 1000, 1001, 1 << 32, 1<<63 + 5}
	for _, i := range indices {
		idx := IndexFromUint64(i)
		tree.Set(idx, sha256.Sum256(idx[:]))
	}
	require.Equal(t, len(indices), tree.Len())
	root := tree.Root()

	for _, i := range indices {
		idx := IndexFromUint64(i)
		leaf, path := tree.Prove(idx)
		require.Equal(t, tree.Get(idx), leaf)
		require.True(t, Verify(root, leaf, idx, path), "index %d", i)

		// The neighbour's index with this path must fail.
		require.False(t, Verify(root, leaf, IndexFromUint64(i^1), path), "index %d", i)
	}

	// Absent keys prove the empty leaf.
	absent := IndexFromUint64(999)
	leaf, path := tree.Prove(absent)
	require.Equal(t, EmptyLeaf, leaf)
	require.True(t, Verify(root, leaf, absent, path))
}

func TestTree_SetEmptyRemoves(t *testing.T) {
	tree := NewTree()
	idx := IndexFromUint64(5)
	tree.Set(idx, sha256.Sum256([]byte("x")))
	require.NotEqual(t, EmptyRoot(), tree.Root())
	tree.Set(idx, EmptyLeaf)
	require.Zero(t, tree.Len())
	require.Equal(t, EmptyRoot(), tree.Root())
}

func BenchmarkComputeRoot(b *testing.B) {
	leaf := sha256.Sum256(bytes.Repeat([]byte{12}, 64))
	path, _ := SelfHashedPath(leaf)
	index := IndexFromUint64(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeRoot(leaf, index, path)
	}
}
