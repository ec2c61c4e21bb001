// Package cidutil derives the content identifiers used for stored benchmark
// artifacts: CIDv1, raw codec, sha2-256 multihash.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ErrUnsupported is returned for CIDs that do not use the raw codec with a
// sha2-256 multihash.
var ErrUnsupported = errors.New("cidutil: unsupported cid prefix")

// Sum returns the CID of data.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// String returns the CID of data in its default string form, or "" if the
// multihash cannot be computed.
func String(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		return ""
	}
	return id.String()
}

// Parse decodes s and checks it uses the artifact CID prefix.
func Parse(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, fmt.Errorf("cidutil: decode %q: %w", s, err)
	}
	if err := CheckPrefix(id); err != nil {
		return cid.Undef, err
	}
	return id, nil
}

// CheckPrefix reports whether id is a defined CIDv1 raw sha2-256 identifier.
func CheckPrefix(id cid.Cid) error {
	if !id.Defined() {
		return ErrUnsupported
	}
	p := id.Prefix()
	if p.Version != 1 || p.Codec != cid.Raw || p.MhType != multihash.SHA2_256 {
		return fmt.Errorf("%w: v%d codec 0x%x hash 0x%x", ErrUnsupported, p.Version, p.Codec, p.MhType)
	}
	return nil
}

// Matches reports whether data hashes to id.
func Matches(id cid.Cid, data []byte) bool {
	got, err := Sum(data)
	return err == nil && got.Equals(id)
}
