package guest

import (
	"bytes"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/smt"
)

// selfHashedJob mirrors the benchmark driver: leaf = sha256(64 × 0x0c) and
// a path built by hashing the leaf with itself.
func selfHashedJob(t testing.TB, indices ...uint64) *MerkleJob {
	t.Helper()
	leaf := sha256.Sum256(bytes.Repeat([]byte{12}, 64))
	path, root := smt.SelfHashedPath(leaf)
	job := &MerkleJob{Repeat: uint32(len(indices)), Root: root}
	for _, i := range indices {
		job.Proofs = append(job.Proofs, MerkleProof{Index: smt.IndexFromUint64(i), Leaf: leaf, Siblings: *path})
	}
	return job
}

func TestMerkle_SelfHashedPath(t *testing.T) {
	job := selfHashedJob(t, 1000)
	require.Equal(t, hash32(t, "7230b66ab57bcb6b64595bd085620a2a29f6a33fb7949c55f819cbc7d2217e86"), job.Root)

	out, pv, err := runInput(t, MustEncode(job))
	require.NoError(t, err)
	require.Equal(t, job.Root, out.Digest)
	require.Equal(t, uint32(1), out.Iterations)
	require.Len(t, pv.Bytes(), OutputSize)
}

func TestMerkle_SelfHashedPathIgnoresIndex(t *testing.T) {
	// Both children are equal at every level, so no index can change the
	// recomputed root.
	out, err := ExecuteMerkleProofs(selfHashedJob(t, 1000, 1001, 0, 1<<63))
	require.NoError(t, err)
	require.Equal(t, uint32(4), out.Iterations)
}

func TestMerkle_KnownSparseRoot(t *testing.T) {
	tree := smt.NewTree()
	idx := smt.IndexFromUint64(1000)
	tree.Set(idx, sha256.Sum256([]byte("leaf-1000")))
	require.Equal(t, hash32(t, "3c2d50a72774f5d0fe5a7cfe45008de7fc18d292d0026810493727ee8e1364eb"), tree.Root())

	leaf, path := tree.Prove(idx)
	job := &MerkleJob{Repeat: 1, Root: tree.Root(), Proofs: []MerkleProof{{Index: idx, Leaf: leaf, Siblings: *path}}}
	_, err := ExecuteMerkleProofs(job)
	require.NoError(t, err)

	// The same path under index 1001 walks a different bit pattern.
	job.Proofs[0].Index = smt.IndexFromUint64(1001)
	_, pv, err := runInput(t, MustEncode(job))
	require.True(t, IsKind(err, KindVerification))
	require.Equal(t, RuleSMTRootMismatch, RuleID(err))
	require.Empty(t, pv.Bytes())
}

func TestMerkle_HonestBatch(t *testing.T) {
	job := treeJob(t, 0, 1, 2, 1000, 1<<20, 1<<62)
	out, err := ExecuteMerkleProofs(job)
	require.NoError(t, err)
	require.Equal(t, job.Root, out.Digest)
	require.Equal(t, uint32(6), out.Iterations)
}

func TestMerkle_AlteredSiblingAborts(t *testing.T) {
	job := treeJob(t, 5, 6, 1000)
	for _, level := range []int{0, 1, 9, 128, smt.Depth - 1} {
		bad := treeJob(t, 5, 6, 1000)
		bad.Proofs[2].Siblings[level][0] ^= 0x01

		_, err := ExecuteMerkleProofs(bad)
		require.Equal(t, RuleSMTRootMismatch, RuleID(err), "level %d", level)
		var e *Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, 2, e.Index)
	}
	_, err := ExecuteMerkleProofs(job)
	require.NoError(t, err)
}

func TestMerkle_AlteredIndexAborts(t *testing.T) {
	for _, bit := range []int{0, 1, 8, 100, 254} {
		job := treeJob(t, 1000)
		job.Proofs[0].Index[31-bit/8] ^= 1 << (bit % 8)
		_, err := ExecuteMerkleProofs(job)
		require.Equal(t, RuleSMTRootMismatch, RuleID(err), "bit %d", bit)
	}
}

func TestMerkle_WrongRoot(t *testing.T) {
	job := treeJob(t, 42)
	job.Root[0] ^= 0xff
	_, err := ExecuteMerkleProofs(job)
	require.Equal(t, RuleSMTRootMismatch, RuleID(err))
}
