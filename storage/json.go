package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"
)

// PutJSON stores the JSON encoding of v, newline terminated.
func PutJSON(ctx context.Context, cas CAS, v any) (cid.Cid, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cid.Undef, fmt.Errorf("storage: encode json: %w", err)
	}
	return cas.Put(ctx, append(b, '\n'))
}

// GetJSON fetches id and decodes it into v.
func GetJSON(ctx context.Context, cas CAS, id cid.Cid, v any) error {
	b, err := cas.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("storage: decode %s: %w", id, err)
	}
	return nil
}
