package guest

import (
	"encoding/binary"
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/smt"
)

// Job is one decoded verification job. The concrete types are HashJob,
// SignatureJob and MerkleJob.
type Job interface {
	Op() Op
	// Count returns the declared repeat count.
	Count() uint32
}

// HashJob hashes Repeat chunks of ChunkSize bytes each. When ChunkSize is
// zero every chunk is empty and Decode leaves Chunks empty.
type HashJob struct {
	Repeat    uint32
	ChunkSize uint32
	Chunks    [][]byte
}

// SignaturePair is one public key and its signature over the shared digest.
type SignaturePair struct {
	PublicKey [PublicKeySize]byte
	Signature [SignatureSize]byte
}

// SignatureJob verifies Repeat signatures over MessageDigest.
type SignatureJob struct {
	Repeat        uint32
	MessageDigest [HashSize]byte
	Pairs         []SignaturePair
}

// MerkleProof is one inclusion proof. Index is a big-endian 256-bit integer.
type MerkleProof struct {
	Index    [HashSize]byte
	Leaf     [HashSize]byte
	Siblings smt.Path
}

// MerkleJob verifies Repeat inclusion proofs against Root.
type MerkleJob struct {
	Repeat uint32
	Root   [HashSize]byte
	Proofs []MerkleProof
}

func (*HashJob) Op() Op { return OpHashChain }
func (*SignatureJob) Op() Op { return OpSignatureBatch }
func (*MerkleJob) Op() Op { return OpMerkleProof }
func (j *HashJob) Count() uint32 { return j.Repeat }
func (j *SignatureJob) Count() uint32 { return j.Repeat }
func (j *MerkleJob) Count() uint32 { return j.Repeat }

// DecodeInput splits a full input buffer into its opcode and job.
func DecodeInput(input []byte) (Job, error) {
	if len(input) == 0 {
		return nil, newError(KindMalformed, RuleDecodeEmpty, "empty input")
	}
	return Decode(Op(input[0]), input[1:])
}

// Decode parses body, the bytes immediately following the opcode byte.
//
// Declared counts are trusted: exactly Repeat entries are read and any
// trailing bytes are ignored. A buffer shorter than its declared contents
// fails with KindMalformed. No cryptographic checks happen here.
func Decode(op Op, body []byte) (Job, error) {
	c := newCursor(body)
	switch op {
	case OpHashChain:
		return decodeHash(c)
	case OpSignatureBatch:
		return decodeSignature(c)
	case OpMerkleProof:
		return decodeMerkle(c)
	default:
		return nil, unknownOp(op)
	}
}

func unknownOp(op Op) error {
	return newError(KindOpcode, RuleOpcodeUnknown, fmt.Sprintf("unrecognized opcode %d", uint8(op)))
}

func decodeHash(c *cursor) (*HashJob, error) {
	repeat, err := c.u32("repeat")
	if err != nil {
		return nil, err
	}
	size, err := c.u32("chunk_size")
	if err != nil {
		return nil, err
	}
	// Reject impossible totals before allocating for them.
	if uint64(repeat)*uint64(size) > uint64(c.remaining()) {
		return nil, &Error{
			Kind:    KindMalformed,
			RuleID:  RuleDecodeUnderrun,
			Message: fmt.Sprintf("declared %d chunks of %d bytes exceed %d remaining bytes", repeat, size, c.remaining()),
			Index:   -1,
		}
	}
	if size == 0 {
		// repeat is unbounded by the input length here.
		return &HashJob{Repeat: repeat, Chunks: [][]byte{}}, nil
	}
	job := &HashJob{Repeat: repeat, ChunkSize: size, Chunks: make([][]byte, 0, repeat)}
	for i := 0; i < int(repeat); i++ {
		chunk, err := c.next(int(size), "chunk")
		if err != nil {
			return nil, withEntry(err, i)
		}
		job.Chunks = append(job.Chunks, chunk)
	}
	return job, nil
}

func decodeSignature(c *cursor) (*SignatureJob, error) {
	repeat, err := c.u32("repeat")
	if err != nil {
		return nil, err
	}
	digest, err := c.hash("message_digest")
	if err != nil {
		return nil, err
	}
	if err := checkEntries(c, repeat, SignatureEntrySize); err != nil {
		return nil, err
	}
	job := &SignatureJob{Repeat: repeat, MessageDigest: digest, Pairs: make([]SignaturePair, 0, repeat)}
	for i := 0; i < int(repeat); i++ {
		var p SignaturePair
		if p.PublicKey, err = c.hash("public_key"); err != nil {
			return nil, withEntry(err, i)
		}
		if p.Signature, err = c.signature("signature"); err != nil {
			return nil, withEntry(err, i)
		}
		job.Pairs = append(job.Pairs, p)
	}
	return job, nil
}

func decodeMerkle(c *cursor) (*MerkleJob, error) {
	repeat, err := c.u32("repeat")
	if err != nil {
		return nil, err
	}
	root, err := c.hash("root")
	if err != nil {
		return nil, err
	}
	if err := checkEntries(c, repeat, MerkleEntrySize); err != nil {
		return nil, err
	}
	job := &MerkleJob{Repeat: repeat, Root: root, Proofs: make([]MerkleProof, 0, repeat)}
	for i := 0; i < int(repeat); i++ {
		var p MerkleProof
		if p.Index, err = c.hash("index"); err != nil {
			return nil, withEntry(err, i)
		}
		if p.Leaf, err = c.hash("leaf"); err != nil {
			return nil, withEntry(err, i)
		}
		for level := 0; level < smt.Depth; level++ {
			if p.Siblings[level], err = c.hash("sibling"); err != nil {
				return nil, withEntry(err, i)
			}
		}
		job.Proofs = append(job.Proofs, p)
	}
	return job, nil
}

// checkEntries fails early when repeat entries of width stride cannot fit.
func checkEntries(c *cursor, repeat uint32, stride int) error {
	if uint64(repeat)*uint64(stride) <= uint64(c.remaining()) {
		return nil
	}
	return &Error{
		Kind:    KindMalformed,
		RuleID:  RuleDecodeUnderrun,
		Message: fmt.Sprintf("declared %d entries of %d bytes exceed %d remaining bytes", repeat, stride, c.remaining()),
		Index:   -1,
	}
}

// Encode serializes job, opcode byte included, into the input layout that
// Decode reads. Repeat is written as declared; it is the caller's job to
// keep it consistent with the entries.
//
// Chunks are written at exactly ChunkSize bytes; shorter chunks are an
// error since the layout has no per-chunk length.
func Encode(job Job) ([]byte, error) {
	switch j := job.(type) {
	case *HashJob:
		buf := make([]byte, 0, 9+len(j.Chunks)*int(j.ChunkSize))
		buf = append(buf, byte(OpHashChain))
		buf = binary.LittleEndian.AppendUint32(buf, j.Repeat)
		buf = binary.LittleEndian.AppendUint32(buf, j.ChunkSize)
		for i, chunk := range j.Chunks {
			if len(chunk) != int(j.ChunkSize) {
				return nil, entryError(KindMalformed, RuleDecodeChunkSize,
					fmt.Sprintf("chunk is %d bytes, chunk_size is %d", len(chunk), j.ChunkSize), i, nil)
			}
			buf = append(buf, chunk...)
		}
		return buf, nil
	case *SignatureJob:
		buf := make([]byte, 0, 37+len(j.Pairs)*SignatureEntrySize)
		buf = append(buf, byte(OpSignatureBatch))
		buf = binary.LittleEndian.AppendUint32(buf, j.Repeat)
		buf = append(buf, j.MessageDigest[:]...)
		for _, p := range j.Pairs {
			buf = append(buf, p.PublicKey[:]...)
			buf = append(buf, p.Signature[:]...)
		}
		return buf, nil
	case *MerkleJob:
		buf := make([]byte, 0, 37+len(j.Proofs)*MerkleEntrySize)
		buf = append(buf, byte(OpMerkleProof))
		buf = binary.LittleEndian.AppendUint32(buf, j.Repeat)
		buf = append(buf, j.Root[:]...)
		for _, p := range j.Proofs {
			buf = append(buf, p.Index[:]...)
			buf = append(buf, p.Leaf[:]...)
			for level := range p.Siblings {
				buf = append(buf, p.Siblings[level][:]...)
			}
		}
		return buf, nil
	case nil:
		return nil, fmt.Errorf("guest: nil job")
	default:
		return nil, fmt.Errorf("guest: unsupported job type %T", job)
	}
}

// MustEncode is like Encode but panics on error. It is meant for fixtures
// built from constant data.
func MustEncode(job Job) []byte {
	b, err := Encode(job)
	if err != nil {
		panic(err)
	}
	return b
}
