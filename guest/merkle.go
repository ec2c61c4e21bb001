package guest

import (
	"encoding/hex"
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/smt"
)

// ExecuteMerkleProofs recomputes the root of every proof and requires it
// to equal job.Root. The first mismatch aborts the whole job.
func ExecuteMerkleProofs(job *MerkleJob) (Outputs, error) {
	for i := range job.Proofs {
		p := &job.Proofs[i]
		got := smt.ComputeRoot(p.Leaf, p.Index, &p.Siblings)
		if got != job.Root {
			return Outputs{}, entryError(KindVerification, RuleSMTRootMismatch,
				fmt.Sprintf("recomputed root %s does not match %s", hex.EncodeToString(got[:]), hex.EncodeToString(job.Root[:])), i, nil)
		}
	}
	return Outputs{Digest: job.Root, Iterations: job.Repeat}, nil
}
