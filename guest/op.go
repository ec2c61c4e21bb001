package guest

import (
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/smt"
)

// Op selects which job kind an input buffer encodes. It is the first byte
// of every input.
type Op uint8

const (
	OpHashChain      Op = 0
	OpSignatureBatch Op = 1
	OpMerkleProof    Op = 2
)

// Field widths of the wire format.
const (
	HashSize      = 32
	PublicKeySize = 32
	SignatureSize = 64

	// SignatureEntrySize is the stride of one (public key, signature) pair.
	SignatureEntrySize = PublicKeySize + SignatureSize
	// MerkleEntrySize is the stride of one proof: index, leaf and a fixed
	// smt.Depth sibling path. Changing smt.Depth changes the wire format.
	MerkleEntrySize = 2*HashSize + smt.Depth*HashSize
)

// Known reports whether op is one of the supported job kinds.
func (op Op) Known() bool {
	switch op {
	case OpHashChain, OpSignatureBatch, OpMerkleProof:
		return true
	default:
		return false
	}
}

func (op Op) String() string {
	switch op {
	case OpHashChain:
		return "hash-chain"
	case OpSignatureBatch:
		return "signature-batch"
	case OpMerkleProof:
		return "merkle-proof"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// ParseOp maps a workload name (as used by the CLI and benchmark plans) to
// its opcode.
func ParseOp(name string) (Op, error) {
	switch name {
	case "hash", "hash-chain", "hash8k":
		return OpHashChain, nil
	case "signature", "signature-batch", "ed25519":
		return OpSignatureBatch, nil
	case "merkle", "merkle-proof", "smt":
		return OpMerkleProof, nil
	default:
		return 0, fmt.Errorf("guest: unknown workload %q", name)
	}
}
