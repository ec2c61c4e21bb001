package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"
)

func TestSum_RawSHA256(t *testing.T) {
	id, err := Sum([]byte("fixture"))
	require.NoError(t, err)

	p := id.Prefix()
	require.Equal(t, uint64(1), p.Version)
	require.Equal(t, uint64(cid.Raw), p.Codec)
	require.Equal(t, uint64(multihash.SHA2_256), p.MhType)
	require.Equal(t, id.String(), String([]byte("fixture")))
}

func TestParse_RoundTrip(t *testing.T) {
	id, err := Sum([]byte("input"))
	require.NoError(t, err)

	got, err := Parse(id.String())
	require.NoError(t, err)
	require.True(t, got.Equals(id))
}

func TestParse_RejectsOtherPrefixes(t *testing.T) {
	mh, err := multihash.Sum([]byte("input"), multihash.SHA2_256, -1)
	require.NoError(t, err)

	dagPB := cid.NewCidV0(mh)
	_, err = Parse(dagPB.String())
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = Parse("not-a-cid")
	require.Error(t, err)
}

func TestMatches(t *testing.T) {
	id, err := Sum([]byte("a"))
	require.NoError(t, err)
	require.True(t, Matches(id, []byte("a")))
	require.False(t, Matches(id, []byte("b")))
}
