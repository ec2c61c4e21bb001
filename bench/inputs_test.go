package bench

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/keys"
	"github.com/essential-contributions/zk-benchmarks/smt"
)

func TestHashInput_Reference(t *testing.T) {
	job := HashInput(4, DefaultChunkSize)
	require.Len(t, job.Chunks, 4)
	for _, c := range job.Chunks {
		require.Len(t, c, DefaultChunkSize)
	}

	out, err := guest.Execute(job)
	require.NoError(t, err)
	require.Equal(t, "9f1dcbc35c350d6027f98be0f5c8b43b42ca52b7604459c0c42be3aa88913d47", hex.EncodeToString(out.Digest[:]))
	require.Equal(t, uint32(4), out.Iterations)
}

func TestSignatureInput_Reference(t *testing.T) {
	job, err := SignatureInput(2, DefaultMessage, "sha256", keys.DefaultSeedByte)
	require.NoError(t, err)
	require.Equal(t, "e76dc670dc37a5c2faaf8afa748e88db247ff02e6dd2440614fe7f00bcf4503a", hex.EncodeToString(job.MessageDigest[:]))

	wantKeys := []string{
		"70bab21e7b6b457e88c6fc56790269bab1ce8c2197cf66e51f2a9779033a527f",
		"0100d1d17fd0b76ac444e47bba9d549b2c9dfb65d8dcb837d343e155d6efaa0d",
	}
	wantSigs := []string{
		"1007bb8e6085fa4a2f105820cffa387605ddba2cd15fb1e566e1a58dc570658461bd9789725e67b13a551762a86d6651eb343935dcb0dfec91e8ffe88e99c109",
		"44c058593aec105b99ccc0dacf434e2050405f1f04685439a0071d437849908df3381b90b6b904bb852ad5bf454dc0087b270712b96fda45088aa84822856203",
	}
	require.Len(t, job.Pairs, 2)
	for i, p := range job.Pairs {
		require.Equal(t, wantKeys[i], hex.EncodeToString(p.PublicKey[:]), "key %d", i)
		require.Equal(t, wantSigs[i], hex.EncodeToString(p.Signature[:]), "signature %d", i)
	}

	out, err := guest.Execute(job)
	require.NoError(t, err)
	require.Equal(t, job.MessageDigest, out.Digest)
}

func TestSignatureInput_SHA3(t *testing.T) {
	job, err := SignatureInput(1, DefaultMessage, "sha3-256", keys.DefaultSeedByte)
	require.NoError(t, err)
	require.Equal(t, "5263d6b5576a6e88a7d836d3753b8f9b2d17fc782a29c86f95f67b7a4051cecd", hex.EncodeToString(job.MessageDigest[:]))
	_, err = guest.Execute(job)
	require.NoError(t, err)

	_, err = SignatureInput(1, DefaultMessage, "md5", keys.DefaultSeedByte)
	require.Error(t, err)
}

func TestMerkleInput_Reference(t *testing.T) {
	require.Equal(t, "858b73d63eb2439f5d3755fe6002d941fcc99e9a5fdb06fb568a21ff2599262f", hex.EncodeToString(func() []byte { l := MerkleLeaf(); return l[:] }()))

	job := MerkleInput(2)
	require.Equal(t, "7230b66ab57bcb6b64595bd085620a2a29f6a33fb7949c55f819cbc7d2217e86", hex.EncodeToString(job.Root[:]))
	require.Equal(t, "00000000000000000000000000000000000000000000000000000000e8030000", hex.EncodeToString(job.Proofs[0].Index[:]))
	require.Equal(t, "00000000000000000000000000000000000000000000000000000000e9030000", hex.EncodeToString(job.Proofs[1].Index[:]))
	require.Equal(t, *mustSelfHashedPath(), job.Proofs[1].Siblings)

	out, err := guest.Execute(job)
	require.NoError(t, err)
	require.Equal(t, job.Root, out.Digest)
	require.Equal(t, uint32(2), out.Iterations)
}

func TestInputs_EncodedSizes(t *testing.T) {
	require.Len(t, guest.MustEncode(HashInput(4, DefaultChunkSize)), 9+4*DefaultChunkSize)

	sig, err := SignatureInput(2, DefaultMessage, "", keys.DefaultSeedByte)
	require.NoError(t, err)
	require.Len(t, guest.MustEncode(sig), 37+2*guest.SignatureEntrySize)

	require.Len(t, guest.MustEncode(MerkleInput(2)), 37+2*guest.MerkleEntrySize)
}

func mustSelfHashedPath() *smt.Path {
	path, _ := smt.SelfHashedPath(MerkleLeaf())
	return path
}

func TestMerkleInput_DriverLayout(t *testing.T) {
	b := guest.MustEncode(MerkleInput(2))
	second := b[37+guest.MerkleEntrySize:]
	// Index field: 28 zero bytes then 1001 as a little-endian u32.
	require.Equal(t, make([]byte, 28), second[:28])
	require.Equal(t, []byte{0xe9, 0x03, 0, 0}, second[28:32])
	leaf := MerkleLeaf()
	require.Equal(t, leaf[:], second[32:64])
}
