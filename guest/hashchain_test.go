package guest

import (
	"bytes"
	"testing"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"
)

func TestHashChain_ZeroChunk8K(t *testing.T) {
	input := MustEncode(&HashJob{Repeat: 1, ChunkSize: 8192, Chunks: [][]byte{make([]byte, 8192)}})

	out, pv, err := runInput(t, input)
	require.NoError(t, err)
	require.Equal(t, hash32(t, "9f1dcbc35c350d6027f98be0f5c8b43b42ca52b7604459c0c42be3aa88913d47"), out.Digest)
	require.Equal(t, uint32(1), out.Iterations)
	require.Equal(t, out.Bytes(), pv.Bytes())
	require.Len(t, pv.Bytes(), OutputSize)
}

func TestHashChain_OnlyLastChunkCounts(t *testing.T) {
	ones := bytes.Repeat([]byte{1}, 8192)
	zeros := make([]byte, 8192)
	random := bytes.Repeat([]byte("not chained"), 745)[:8192]

	a, err := ExecuteHashChain(&HashJob{Repeat: 3, ChunkSize: 8192, Chunks: [][]byte{zeros, random, ones}})
	require.NoError(t, err)
	b, err := ExecuteHashChain(&HashJob{Repeat: 3, ChunkSize: 8192, Chunks: [][]byte{random, zeros, ones}})
	require.NoError(t, err)

	require.Equal(t, hash32(t, "6ba042a6672c64272ce75901468fd210026cd674fe9f1e11b46c9302e47e2136"), a.Digest)
	require.Equal(t, a.Digest, b.Digest)
	require.Equal(t, [HashSize]byte(sha256.Sum256(ones)), a.Digest)
	require.Equal(t, uint32(3), a.Iterations)
}

func TestHashChain_EmptyJob(t *testing.T) {
	out, err := ExecuteHashChain(&HashJob{Repeat: 0, ChunkSize: 8192})
	require.NoError(t, err)
	require.Equal(t, [HashSize]byte{}, out.Digest)
	require.Zero(t, out.Iterations)
}
