package guest

import (
	"encoding/binary"
	"fmt"
)

// cursor reads fixed-width fields from an input buffer in order.
//
// Every read either returns exactly the requested width or fails with a
// KindMalformed error naming the field; the offset never moves on failure.
type cursor struct {
	buf []byte
	off int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) next(n int, field string) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, &Error{
			Kind:    KindMalformed,
			RuleID:  RuleDecodeUnderrun,
			Message: fmt.Sprintf("buffer underrun reading %s: need %d bytes at offset %d, have %d", field, n, c.off, c.remaining()),
			Index:   -1,
		}
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u32(field string) (uint32, error) {
	b, err := c.next(4, field)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) hash(field string) (h [HashSize]byte, err error) {
	b, err := c.next(HashSize, field)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func (c *cursor) signature(field string) (s [SignatureSize]byte, err error) {
	b, err := c.next(SignatureSize, field)
	if err != nil {
		return s, err
	}
	copy(s[:], b)
	return s, nil
}

// withEntry tags a decode failure with the entry it occurred in.
func withEntry(err error, i int) error {
	if e, ok := err.(*Error); ok && e.Index < 0 {
		e.Index = i
	}
	return err
}
