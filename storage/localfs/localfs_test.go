package localfs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/storage"
	"github.com/essential-contributions/zk-benchmarks/storage/casregistry"
	"github.com/essential-contributions/zk-benchmarks/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		cas, err := New(t.TempDir())
		require.NoError(t, err)
		return cas
	})
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestLocalFS_DetectsCorruption(t *testing.T) {
	ctx := context.Background()
	cas, err := New(t.TempDir())
	require.NoError(t, err)

	orig := []byte("fixture json")
	id, err := cas.Put(ctx, orig)
	require.NoError(t, err)

	path := cas.pathFor(id)
	require.NoError(t, os.Chmod(path, 0o644))
	require.NoError(t, os.WriteFile(path, []byte("edited by hand"), 0o644))

	_, err = cas.Get(ctx, id)
	require.ErrorIs(t, err, storage.ErrCIDMismatch)

	// The corrupted file is never overwritten.
	_, err = cas.Put(ctx, orig)
	require.ErrorIs(t, err, storage.ErrImmutable)
}

func TestLocalFS_ShardedLayoutNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cas, err := New(dir)
	require.NoError(t, err)

	id, err := cas.Put(ctx, []byte("input"))
	require.NoError(t, err)

	s := id.String()
	entries, err := os.ReadDir(filepath.Join(dir, s[:2]))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, s, entries[0].Name())
}

func TestLocalFS_Registered(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cas, _, err := casregistry.OpenWithOptions(ctx, "localfs", casregistry.UsageDaemon, casregistry.Options{OptionDir: dir})
	require.NoError(t, err)
	require.Equal(t, dir, cas.(*CAS).Root())

	_, _, err = casregistry.OpenWithOptions(ctx, "localfs", casregistry.UsageCLI, nil)
	require.Error(t, err)
}
