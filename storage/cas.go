// Package storage keeps benchmark artifacts (encoded guest inputs, proof
// fixtures, run archives) in content-addressed stores.
//
// Every artifact is addressed by its CIDv1 raw sha2-256 identifier (see
// package cidutil), so an identifier printed by one run can be fetched from
// any backend that holds the bytes.
package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// CAS is a content-addressed artifact store.
//
// Put is idempotent and returns the CID derived from the bytes. Stored
// objects never change. Get returns ErrNotFound for absent objects and must
// not return bytes that do not hash to the requested CID.
type CAS interface {
	Put(ctx context.Context, data []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) (bool, error)
}
