package bench

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/sha256-simd"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/keys"
	"github.com/essential-contributions/zk-benchmarks/smt"
)

// Reference workload parameters.
const (
	DefaultChunkSize = 8192
	DefaultMessage   = "validating block: 19634367"
	// MerkleLeafFill is the byte the reference leaf preimage repeats 64 times.
	MerkleLeafFill = 0x0c
	// MerkleIndexBase is the index of the first reference proof; proof i
	// sits at MerkleIndexBase+i, see MerkleIndex.
	MerkleIndexBase = 1000
)

// HashInput returns repeat zero-filled chunks of chunkSize bytes.
func HashInput(repeat, chunkSize uint32) *guest.HashJob {
	job := &guest.HashJob{Repeat: repeat, ChunkSize: chunkSize, Chunks: make([][]byte, repeat)}
	for i := range job.Chunks {
		job.Chunks[i] = make([]byte, chunkSize)
	}
	return job
}

// SignatureInput signs the digest of message with repeat keys derived from
// the seed chain starting at seedByte. digestAlg is "sha256" (default) or
// "sha3-256". Every signature is checked with the same strict rules the
// guest applies.
func SignatureInput(repeat uint32, message, digestAlg string, seedByte byte) (*guest.SignatureJob, error) {
	digest, err := keys.MessageDigest(digestAlg, []byte(message))
	if err != nil {
		return nil, err
	}
	job := &guest.SignatureJob{Repeat: repeat, MessageDigest: digest, Pairs: make([]guest.SignaturePair, 0, repeat)}
	for i, s := range keys.Signers(seedByte, int(repeat)) {
		sig, err := s.SignStrict(digest[:])
		if err != nil {
			return nil, fmt.Errorf("bench: signer %d: %w", i, err)
		}
		job.Pairs = append(job.Pairs, guest.SignaturePair{PublicKey: s.PublicKey(), Signature: sig})
	}
	return job, nil
}

// MerkleLeaf is SHA256 of 64 MerkleLeafFill bytes.
func MerkleLeaf() smt.Hash {
	var pre [64]byte
	for i := range pre {
		pre[i] = MerkleLeafFill
	}
	return sha256.Sum256(pre[:])
}

// MerkleIndex is the index field of reference proof i: MerkleIndexBase+i as
// a little-endian u32 in bytes 28..32, the layout of the reference driver's
// input buffers.
func MerkleIndex(i uint32) smt.Hash {
	var idx smt.Hash
	binary.LittleEndian.PutUint32(idx[28:], MerkleIndexBase+i)
	return idx
}

// MerkleInput returns repeat proofs of MerkleLeaf along the self-hashed
// path, with index fields MerkleIndex(i). The path's root does not depend on
// the index, so every proof verifies.
func MerkleInput(repeat uint32) *guest.MerkleJob {
	leaf := MerkleLeaf()
	path, root := smt.SelfHashedPath(leaf)
	job := &guest.MerkleJob{Repeat: repeat, Root: root, Proofs: make([]guest.MerkleProof, repeat)}
	for i := range job.Proofs {
		job.Proofs[i] = guest.MerkleProof{
			Index:    MerkleIndex(uint32(i)),
			Leaf:     leaf,
			Siblings: *path,
		}
	}
	return job
}
