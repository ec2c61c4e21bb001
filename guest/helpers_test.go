package guest

import (
	"encoding/hex"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/keys"
	"github.com/essential-contributions/zk-benchmarks/smt"
)

func hash32(t *testing.T, s string) (out [HashSize]byte) {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	require.Len(t, b, HashSize)
	copy(out[:], b)
	return out
}

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func signatureJob(t testing.TB, n int) *SignatureJob {
	t.Helper()
	digest := sha256.Sum256([]byte("validating block: 19634367"))
	job := &SignatureJob{Repeat: uint32(n), MessageDigest: digest}
	for _, s := range keys.Signers(keys.DefaultSeedByte, n) {
		sig, err := s.SignStrict(digest[:])
		require.NoError(t, err)
		job.Pairs = append(job.Pairs, SignaturePair{PublicKey: s.PublicKey(), Signature: sig})
	}
	return job
}

// treeJob builds a job with honest proofs for every index in indices.
func treeJob(t testing.TB, indices ...uint64) *MerkleJob {
	t.Helper()
	tree := smt.NewTree()
	for _, i := range indices {
		idx := smt.IndexFromUint64(i)
		tree.Set(idx, sha256.Sum256(idx[:]))
	}
	job := &MerkleJob{Repeat: uint32(len(indices)), Root: tree.Root()}
	for _, i := range indices {
		idx := smt.IndexFromUint64(i)
		leaf, path := tree.Prove(idx)
		job.Proofs = append(job.Proofs, MerkleProof{Index: idx, Leaf: leaf, Siblings: *path})
	}
	return job
}

func runInput(t *testing.T, input []byte) (Outputs, *PublicValues, error) {
	t.Helper()
	pv := &PublicValues{}
	out, err := Run(input, pv)
	return out, pv, err
}
