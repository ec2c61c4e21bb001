package bench

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/essential-contributions/zk-benchmarks/guest"
)

// Summary describes the result in one line, in the driver's historical
// wording.
func (r Result) Summary() string {
	digest := hex.EncodeToString(r.Outputs.Digest[:])
	switch r.Op {
	case guest.OpHashChain:
		return fmt.Sprintf("Proved %d hashes with result %s", r.Outputs.Iterations, digest)
	case guest.OpSignatureBatch:
		return fmt.Sprintf("Proved %d signatures for message %s", r.Outputs.Iterations, digest)
	case guest.OpMerkleProof:
		return fmt.Sprintf("Proved %d SMT proofs with root %s", r.Outputs.Iterations, digest)
	default:
		return fmt.Sprintf("Proved %d iterations of %s with output %s", r.Outputs.Iterations, r.Op, digest)
	}
}

// Unit names one iteration of the workload.
func (r Result) Unit() string {
	switch r.Op {
	case guest.OpHashChain:
		return fmt.Sprintf("a hash of %d bytes", r.Workload.ChunkSize)
	case guest.OpSignatureBatch:
		return "an ed25519 signature"
	case guest.OpMerkleProof:
		return "an SMT proof"
	default:
		return "an iteration"
	}
}

// WriteText prints a human-readable report.
func (r Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "backend %s, verifying key %s\n\n", r.Backend, r.VKey.Hex()); err != nil {
		return err
	}
	for _, res := range r.Results {
		if res.Outputs.Iterations == 0 && res.ProveTime == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s]\n%s\n%v to prove %s (verified in %v)\n",
			res.Op, res.Summary(), res.PerIteration(), res.Unit(), res.VerifyTime); err != nil {
			return err
		}
		if res.InputCID.Defined() {
			if _, err := fmt.Fprintf(w, "input   %s\n", res.InputCID); err != nil {
				return err
			}
		}
		if res.FixtureCID.Defined() {
			if _, err := fmt.Fprintf(w, "fixture %s\n", res.FixtureCID); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
