package guest

import "fmt"

// Execute runs an already decoded job.
func Execute(job Job) (Outputs, error) {
	switch j := job.(type) {
	case *HashJob:
		return ExecuteHashChain(j)
	case *SignatureJob:
		return ExecuteSignatureBatch(j)
	case *MerkleJob:
		return ExecuteMerkleProofs(j)
	default:
		return Outputs{}, fmt.Errorf("guest: unsupported job type %T", job)
	}
}

// Evaluate decodes input, dispatches on its opcode and returns the
// resulting record without committing it.
func Evaluate(input []byte) (Outputs, error) {
	if len(input) == 0 {
		return Outputs{}, newError(KindMalformed, RuleDecodeEmpty, "empty input")
	}
	op := Op(input[0])
	if !op.Known() {
		return Outputs{}, unknownOp(op)
	}
	job, err := Decode(op, input[1:])
	if err != nil {
		return Outputs{}, err
	}
	return Execute(job)
}

// Run is one guest invocation: decode, dispatch, execute and commit the
// record to sink exactly once. On any error nothing is committed.
//
// Run keeps no state between calls and may be called concurrently.
func Run(input []byte, sink Committer) (Outputs, error) {
	out, err := Evaluate(input)
	if err != nil {
		return Outputs{}, err
	}
	if err := NewOutputCommitter(sink).Commit(out); err != nil {
		return Outputs{}, err
	}
	return out, nil
}
