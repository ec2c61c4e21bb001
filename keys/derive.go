package keys

import (
	"github.com/minio/sha256-simd"
)

// SeedSize is the size of an ed25519 signing seed.
const SeedSize = 32

// DefaultSeedByte is the byte the benchmark's seed chain starts from.
const DefaultSeedByte = 0xcd

// SeedChain deterministically derives n signing seeds.
//
// The chain starts at sha256(32 × start) and every seed is the sha256 of the
// previous one; the starting value itself is never used as a seed.
func SeedChain(start byte, n int) [][SeedSize]byte {
	var initial [SeedSize]byte
	for i := range initial {
		initial[i] = start
	}
	cur := sha256.Sum256(initial[:])
	out := make([][SeedSize]byte, 0, n)
	for i := 0; i < n; i++ {
		cur = sha256.Sum256(cur[:])
		out = append(out, cur)
	}
	return out
}

// Signers returns one signer per seed of SeedChain(start, n).
func Signers(start byte, n int) []*Signer {
	seeds := SeedChain(start, n)
	out := make([]*Signer, len(seeds))
	for i, seed := range seeds {
		out[i] = NewSigner(seed)
	}
	return out
}
