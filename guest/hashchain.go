package guest

import (
	"github.com/minio/sha256-simd"
)

// ExecuteHashChain hashes every chunk in order and keeps only the last
// digest. Earlier digests are discarded, not fed into the next chunk.
// Zero-width chunks all hash to SHA256 of the empty string.
func ExecuteHashChain(job *HashJob) (Outputs, error) {
	var result [HashSize]byte
	if job.ChunkSize == 0 && job.Repeat > 0 {
		return Outputs{Digest: sha256.Sum256(nil), Iterations: job.Repeat}, nil
	}
	for _, chunk := range job.Chunks {
		result = sha256.Sum256(chunk)
	}
	return Outputs{Digest: result, Iterations: job.Repeat}, nil
}
