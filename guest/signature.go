package guest

import (
	"errors"

	"github.com/essential-contributions/zk-benchmarks/keys"
)

// ExecuteSignatureBatch strictly verifies every pair against the shared
// message digest. The first bad key or signature aborts the whole batch.
func ExecuteSignatureBatch(job *SignatureJob) (Outputs, error) {
	for i := range job.Pairs {
		p := &job.Pairs[i]
		err := keys.VerifyStrict(p.PublicKey, job.MessageDigest[:], p.Signature)
		switch {
		case err == nil:
			continue
		case errors.Is(err, keys.ErrInvalidPublicKey):
			return Outputs{}, entryError(KindVerification, RuleSigPublicKey, "public key does not decode", i, err)
		default:
			return Outputs{}, entryError(KindVerification, RuleSigInvalid, "signature rejected", i, err)
		}
	}
	return Outputs{Digest: job.MessageDigest, Iterations: job.Repeat}, nil
}
