package guest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// OutputSize is the serialized size of Outputs.
const OutputSize = HashSize + 4

// Outputs is the record every invocation commits.
//
// Digest depends on the job: the last chunk hash, the signed message digest
// or the Merkle root. Iterations is the job's repeat count.
type Outputs struct {
	Digest     [HashSize]byte
	Iterations uint32
}

// MarshalBinary returns digest || little-endian iterations.
func (o Outputs) MarshalBinary() ([]byte, error) {
	return o.AppendBinary(make([]byte, 0, OutputSize))
}

// AppendBinary appends the 36-byte encoding of o to b.
func (o Outputs) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, o.Digest[:]...)
	return binary.LittleEndian.AppendUint32(b, o.Iterations), nil
}

// UnmarshalBinary decodes exactly OutputSize bytes.
func (o *Outputs) UnmarshalBinary(b []byte) error {
	if len(b) != OutputSize {
		return newError(KindCommit, RuleCommitEncoding, fmt.Sprintf("output record is %d bytes, want %d", len(b), OutputSize))
	}
	copy(o.Digest[:], b[:HashSize])
	o.Iterations = binary.LittleEndian.Uint32(b[HashSize:])
	return nil
}

// Bytes is MarshalBinary without the error.
func (o Outputs) Bytes() []byte {
	b, _ := o.MarshalBinary()
	return b
}

func (o Outputs) String() string {
	return fmt.Sprintf("%s x%d", hex.EncodeToString(o.Digest[:]), o.Iterations)
}
