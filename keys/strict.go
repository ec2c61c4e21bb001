package keys

import (
	"bytes"
	"crypto/sha512"
	"errors"

	"filippo.io/edwards25519"
)

// Strict verification errors.
var (
	ErrInvalidPublicKey = errors.New("keys: public key is not a valid curve point")
	ErrWeakPublicKey    = errors.New("keys: public key has small order")
	ErrInvalidSignature = errors.New("keys: signature invalid")
)

const (
	PublicKeySize = 32
	SignatureSize = 64
)

// DecodePublicKey decompresses an ed25519 public key.
func DecodePublicKey(publicKey [PublicKeySize]byte) (*edwards25519.Point, error) {
	A, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return A, nil
}

// VerifyStrict checks an ed25519 signature and additionally rejects
// malleable or degenerate inputs:
//   - S must be a canonical scalar (S < L)
//   - neither the public key A nor the commitment R may have small order
//   - the cofactorless equation [S]B = R + [k]A must hold, with the
//     recomputed R matching the signature's R encoding byte for byte
//
// A public key that does not decode to a curve point yields
// ErrInvalidPublicKey; every other failure yields ErrWeakPublicKey or
// ErrInvalidSignature.
func VerifyStrict(publicKey [PublicKeySize]byte, message []byte, signature [SignatureSize]byte) error {
	A, err := DecodePublicKey(publicKey)
	if err != nil {
		return err
	}
	R, err := new(edwards25519.Point).SetBytes(signature[:32])
	if err != nil {
		return ErrInvalidSignature
	}
	if hasSmallOrder(R) {
		return ErrInvalidSignature
	}
	if hasSmallOrder(A) {
		return ErrWeakPublicKey
	}
	S, err := new(edwards25519.Scalar).SetCanonicalBytes(signature[32:])
	if err != nil {
		return ErrInvalidSignature
	}

	h := sha512.New()
	_, _ = h.Write(signature[:32])
	_, _ = h.Write(publicKey[:])
	_, _ = h.Write(message)
	var digest [64]byte
	k, err := new(edwards25519.Scalar).SetUniformBytes(h.Sum(digest[:0]))
	if err != nil {
		return ErrInvalidSignature
	}

	minusA := new(edwards25519.Point).Negate(A)
	check := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)
	if !encodes(check, signature[:32]) {
		return ErrInvalidSignature
	}
	return nil
}

// encodes reports whether enc is the canonical encoding of p. Decoding
// accepts non-canonical encodings, so point equality is not enough.
func encodes(p *edwards25519.Point, enc []byte) bool {
	return bytes.Equal(p.Bytes(), enc)
}

func hasSmallOrder(p *edwards25519.Point) bool {
	return new(edwards25519.Point).MultByCofactor(p).Equal(edwards25519.NewIdentityPoint()) == 1
}
