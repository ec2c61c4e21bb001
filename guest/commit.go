package guest

import (
	"github.com/minio/sha256-simd"
)

// Committer receives the public output of an invocation. In a zkVM this is
// the host's public-values channel; natively it is usually *PublicValues.
type Committer interface {
	Commit(record []byte) error
}

// OutputCommitter serializes Outputs and hands them to a Committer at most
// once.
type OutputCommitter struct {
	sink      Committer
	committed bool
}

// NewOutputCommitter wraps sink.
func NewOutputCommitter(sink Committer) *OutputCommitter {
	return &OutputCommitter{sink: sink}
}

// Commit writes the 36-byte record for o. A second call fails without
// touching the sink.
func (c *OutputCommitter) Commit(o Outputs) error {
	if c.committed {
		return newError(KindCommit, RuleCommitTwice, "output already committed")
	}
	if c.sink == nil {
		return newError(KindCommit, RuleCommitSink, "no committer")
	}
	b, err := o.MarshalBinary()
	if err != nil {
		return &Error{Kind: KindCommit, RuleID: RuleCommitEncoding, Message: "encode output", Index: -1, Cause: err}
	}
	if err := c.sink.Commit(b); err != nil {
		return &Error{Kind: KindCommit, RuleID: RuleCommitSink, Message: "commit output", Index: -1, Cause: err}
	}
	c.committed = true
	return nil
}

// Committed reports whether Commit has succeeded.
func (c *OutputCommitter) Committed() bool { return c.committed }

// PublicValues is an in-memory Committer that accumulates committed bytes
// and a running SHA-256 over them.
type PublicValues struct {
	buf []byte
}

func (p *PublicValues) Commit(record []byte) error {
	p.buf = append(p.buf, record...)
	return nil
}

// Bytes returns everything committed so far.
func (p *PublicValues) Bytes() []byte { return p.buf }

// Digest returns SHA256 of the committed bytes.
func (p *PublicValues) Digest() [HashSize]byte { return sha256.Sum256(p.buf) }

// Outputs decodes the committed bytes as a single output record.
func (p *PublicValues) Outputs() (Outputs, error) {
	var o Outputs
	err := o.UnmarshalBinary(p.buf)
	return o, err
}
