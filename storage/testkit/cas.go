// Package testkit is a conformance suite every storage.CAS backend runs in
// its own tests.
package testkit

import (
	"context"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/cidutil"
	"github.com/essential-contributions/zk-benchmarks/storage"
)

// NewCAS returns an empty store isolated from other tests.
type NewCAS func(t *testing.T) storage.CAS

// RunCASConformance checks the storage.CAS contract against fresh stores
// built by newCAS.
func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutGet", func(t *testing.T) {
		cas := newCAS(t)
		want := []byte("encoded guest input")

		id, err := cas.Put(ctx, want)
		require.NoError(t, err)
		wantID, err := cidutil.Sum(want)
		require.NoError(t, err)
		require.True(t, id.Equals(wantID), "Put returned %s, want %s", id, wantID)

		got, err := cas.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.True(t, cidutil.Matches(id, got))
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("fixture")

		id1, err := cas.Put(ctx, b)
		require.NoError(t, err)
		id2, err := cas.Put(ctx, b)
		require.NoError(t, err)
		require.True(t, id1.Equals(id2))
	})

	t.Run("EmptyObject", func(t *testing.T) {
		cas := newCAS(t)
		id, err := cas.Put(ctx, nil)
		require.NoError(t, err)
		got, err := cas.Get(ctx, id)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		b := []byte("absent until put")
		id, err := cidutil.Sum(b)
		require.NoError(t, err)

		ok, err := cas.Has(ctx, id)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = cas.Get(ctx, id)
		require.True(t, storage.IsNotFound(err), "Get on missing object: %v", err)

		_, err = cas.Put(ctx, b)
		require.NoError(t, err)
		ok, err = cas.Has(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("UndefinedCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		ok, err := cas.Has(ctx, undef)
		require.NoError(t, err)
		require.False(t, ok)
		_, err = cas.Get(ctx, undef)
		require.Error(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cas := newCAS(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := cas.Put(cctx, []byte("late"))
		require.Error(t, err)
	})
}
