package keys

import (
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// DigestSize is the width of a message digest in a signature job.
const DigestSize = 32

// MessageDigest hashes message with a 32-byte digest algorithm.
// hashAlg must be one of: sha256, sha3-256.
func MessageDigest(hashAlg string, message []byte) ([DigestSize]byte, error) {
	switch hashAlg {
	case "", "sha256":
		return sha256.Sum256(message), nil
	case "sha3-256":
		return sha3.Sum256(message), nil
	default:
		return [DigestSize]byte{}, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// Signer is an ed25519 key pair derived from a 32-byte seed.
type Signer struct {
	priv ed25519.PrivateKey
	pub  [PublicKeySize]byte
}

// NewSigner derives a signer from seed.
func NewSigner(seed [ed25519.SeedSize]byte) *Signer {
	priv := ed25519.NewKeyFromSeed(seed[:])
	s := &Signer{priv: priv}
	copy(s.pub[:], priv[ed25519.SeedSize:])
	return s
}

// PublicKey returns the compressed public key.
func (s *Signer) PublicKey() [PublicKeySize]byte { return s.pub }

// Sign returns the ed25519 signature of message.
func (s *Signer) Sign(message []byte) [SignatureSize]byte {
	var out [SignatureSize]byte
	copy(out[:], ed25519.Sign(s.priv, message))
	return out
}

// SignStrict signs message and checks the result with VerifyStrict, so a
// generated input can never contain a signature the guest would reject.
func (s *Signer) SignStrict(message []byte) ([SignatureSize]byte, error) {
	sig := s.Sign(message)
	if err := VerifyStrict(s.pub, message, sig); err != nil {
		return sig, fmt.Errorf("keys: generated signature failed strict verification: %w", err)
	}
	return sig, nil
}
