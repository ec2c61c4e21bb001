package storage_test

import (
	"context"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/cidutil"
	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS { return storage.NewMemory() })
}

func TestMultiCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.MultiCAS{Adapters: []storage.CAS{storage.NewMemory(), storage.NewMemory()}}
	})
}

func TestReplicatingCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.ReplicatingCAS{Backends: []storage.NamedCAS{
			{Name: "a", CAS: storage.NewMemory()},
			{Name: "b", CAS: storage.NewMemory()},
		}}
	})
}

func TestMultiCAS_ReadsInOrderWritesFirst(t *testing.T) {
	ctx := context.Background()
	first, second := storage.NewMemory(), storage.NewMemory()
	onlySecond, err := second.Put(ctx, []byte("older run"))
	require.NoError(t, err)

	m := storage.MultiCAS{Adapters: []storage.CAS{first, second}}
	got, err := m.Get(ctx, onlySecond)
	require.NoError(t, err)
	require.Equal(t, []byte("older run"), got)

	_, err = m.Put(ctx, []byte("new"))
	require.NoError(t, err)
	require.Equal(t, 1, first.Len())
	require.Equal(t, 1, second.Len())
}

func TestMultiCAS_NoAdapters(t *testing.T) {
	_, err := storage.MultiCAS{}.Put(context.Background(), []byte("x"))
	require.ErrorIs(t, err, storage.ErrNoBackends)
}

type liarCAS struct{ storage.Memory }

func (l *liarCAS) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	return l.Memory.Put(ctx, append([]byte("tampered:"), data...))
}

func TestReplicatingCAS_PutAll(t *testing.T) {
	ctx := context.Background()
	a, b := storage.NewMemory(), storage.NewMemory()
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: a}, {Name: "b", CAS: b}}}

	id, per, err := r.PutAll(ctx, []byte("fixture"))
	require.NoError(t, err)
	require.Len(t, per, 2)
	require.True(t, per["a"].Equals(id))
	require.True(t, per["b"].Equals(id))
	require.Equal(t, 1, a.Len())
	require.Equal(t, 1, b.Len())
}

func TestReplicatingCAS_Mismatch(t *testing.T) {
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{
		{Name: "good", CAS: storage.NewMemory()},
		{Name: "liar", CAS: &liarCAS{}},
	}}
	_, per, err := r.PutAll(context.Background(), []byte("fixture"))
	require.ErrorIs(t, err, storage.ErrCIDMismatch)
	require.Contains(t, per, "liar")
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cas := storage.NewMemory()
	type record struct {
		VKey string `json:"vkey"`
	}
	id, err := storage.PutJSON(ctx, cas, record{VKey: "0xabc"})
	require.NoError(t, err)
	require.NoError(t, cidutil.CheckPrefix(id))

	var got record
	require.NoError(t, storage.GetJSON(ctx, cas, id, &got))
	require.Equal(t, "0xabc", got.VKey)
}
