package bundle_test

import (
	"archive/tar"
	"bytes"
	"context"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/bundle"
	"github.com/essential-contributions/zk-benchmarks/storage/localfs"
)

func TestExport_Deterministic(t *testing.T) {
	ctx := context.Background()
	cas := storage.NewMemory()
	a, err := cas.Put(ctx, []byte("input"))
	require.NoError(t, err)
	b, err := cas.Put(ctx, []byte("fixture"))
	require.NoError(t, err)

	labels := map[string]cid.Cid{"hash-chain/input": a, "hash-chain/fixture": b}
	var one, two bytes.Buffer
	require.NoError(t, bundle.Export(ctx, &one, cas, []cid.Cid{b, a}, bundle.ExportOptions{Labels: labels}))
	require.NoError(t, bundle.Export(ctx, &two, cas, []cid.Cid{a, b, a}, bundle.ExportOptions{Labels: labels}))
	require.Equal(t, one.Bytes(), two.Bytes())
}

func TestImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := storage.NewMemory()
	in, err := src.Put(ctx, []byte("encoded input"))
	require.NoError(t, err)
	fx, err := src.Put(ctx, []byte(`{"vkey":"0x00"}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, bundle.Export(ctx, &buf, src, nil, bundle.ExportOptions{
		Labels: map[string]cid.Cid{"merkle/input": in, "merkle/fixture": fx},
	}))

	dst, err := localfs.New(t.TempDir())
	require.NoError(t, err)
	idx, ids, err := bundle.Import(ctx, &buf, dst, bundle.ImportOptions{})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, bundle.FormatVersion, idx.Version)

	got, ok := idx.Lookup("merkle/fixture")
	require.True(t, ok)
	require.True(t, got.Equals(fx))
	b, err := dst.Get(ctx, fx)
	require.NoError(t, err)
	require.Equal(t, `{"vkey":"0x00"}`, string(b))

	_, ok = idx.Lookup("missing")
	require.False(t, ok)
}

func TestExport_MissingBlock(t *testing.T) {
	ctx := context.Background()
	other := storage.NewMemory()
	id, err := other.Put(ctx, []byte("elsewhere"))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = bundle.Export(ctx, &buf, storage.NewMemory(), []cid.Cid{id}, bundle.ExportOptions{})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func writeTar(t *testing.T, entries map[string][]byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, body := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
		_, err := tw.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return &buf
}

func TestImport_Rejects(t *testing.T) {
	ctx := context.Background()
	src := storage.NewMemory()
	id, err := src.Put(ctx, []byte("real"))
	require.NoError(t, err)

	_, _, err = bundle.Import(ctx, writeTar(t, map[string][]byte{"blocks/" + id.String(): []byte("forged")}), storage.NewMemory(), bundle.ImportOptions{})
	require.ErrorIs(t, err, storage.ErrCIDMismatch)

	_, _, err = bundle.Import(ctx, writeTar(t, map[string][]byte{"../escape": []byte("x")}), storage.NewMemory(), bundle.ImportOptions{})
	require.Error(t, err)

	_, _, err = bundle.Import(ctx, writeTar(t, map[string][]byte{"notes.txt": []byte("x")}), storage.NewMemory(), bundle.ImportOptions{})
	require.Error(t, err)

	_, ids, err := bundle.Import(ctx, writeTar(t, map[string][]byte{"notes.txt": []byte("x")}), storage.NewMemory(), bundle.ImportOptions{IgnoreUnknown: true})
	require.NoError(t, err)
	require.Empty(t, ids)
}
