// Package zkvm is the boundary between the benchmark driver and a proving
// backend. A backend runs the guest program over an encoded input and
// returns the committed public values together with an opaque proof.
//
// Only the execute-only Native backend lives in this module. Real provers
// are external and plug in by implementing Prover and Verifier.
package zkvm

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/sha256-simd"

	"github.com/essential-contributions/zk-benchmarks/guest"
)

// Mode is the kind of proof a backend produced.
type Mode string

const (
	// ModeExecute runs the program without proving. Verification re-executes.
	ModeExecute Mode = "execute"
	// ModeCore is a backend's native (STARK-style) proof.
	ModeCore Mode = "core"
	// ModeEVM is a proof wrapped for on-chain verification (PLONK/Groth16).
	ModeEVM Mode = "evm"
)

var (
	ErrVerifyingKeyMismatch = errors.New("zkvm: proof is for a different program")
	ErrPublicValuesMismatch = errors.New("zkvm: public values do not match execution")
	ErrNotVerifiable        = errors.New("zkvm: proof carries nothing to verify")
	ErrUnsupportedMode      = errors.New("zkvm: unsupported proof mode")
	ErrFixtureEncoding      = errors.New("zkvm: invalid fixture encoding")
)

// VerifyingKey identifies the proven program. It stays the same for every
// input.
type VerifyingKey [32]byte

// NewVerifyingKey derives the key for a program identifier.
func NewVerifyingKey(program string) VerifyingKey {
	return VerifyingKey(sha256.Sum256([]byte(program)))
}

// Hex returns the key as 0x-prefixed hex.
func (vk VerifyingKey) Hex() string { return "0x" + hex.EncodeToString(vk[:]) }

func (vk VerifyingKey) String() string { return vk.Hex() }

// Proof is the result of one proving run.
type Proof struct {
	VKey         VerifyingKey
	Mode         Mode
	PublicValues []byte
	// Bytes is the backend's proof encoding; empty in ModeExecute.
	Bytes []byte
	// Input is the encoded guest input. Execute-only verification needs it.
	Input []byte
}

// Outputs decodes the committed public values.
func (p *Proof) Outputs() (guest.Outputs, error) {
	var o guest.Outputs
	err := o.UnmarshalBinary(p.PublicValues)
	return o, err
}

// Prover proves one guest invocation.
type Prover interface {
	Prove(ctx context.Context, input []byte) (*Proof, error)
}

// Verifier checks a proof produced for its program.
type Verifier interface {
	Verify(ctx context.Context, proof *Proof) error
}

// Backend is a Prover and Verifier for one program.
type Backend interface {
	Prover
	Verifier
	Name() string
	VerifyingKey() VerifyingKey
}

// PublicValuesDigest is SHA-256 over the committed bytes, the value zkVM
// runtimes expose as the public-values commitment.
func PublicValuesDigest(publicValues []byte) [32]byte {
	return sha256.Sum256(publicValues)
}

// Fixture is the JSON artifact an on-chain verifier test consumes.
type Fixture struct {
	VKey         string `json:"vkey"`
	PublicValues string `json:"publicValues"`
	Proof        string `json:"proof"`
}

// NewFixture renders proof as a fixture with 0x-prefixed hex fields.
func NewFixture(proof *Proof) Fixture {
	return Fixture{
		VKey:         proof.VKey.Hex(),
		PublicValues: "0x" + hex.EncodeToString(proof.PublicValues),
		Proof:        "0x" + hex.EncodeToString(proof.Bytes),
	}
}

// Marshal returns indented JSON.
func (f Fixture) Marshal() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// ParseFixture decodes fixture JSON.
func ParseFixture(b []byte) (Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("zkvm: parse fixture: %w", err)
	}
	return f, nil
}

// ProofValue decodes the fixture back into a proof. Input is not part of a
// fixture, so an execute-only fixture cannot be re-verified.
func (f Fixture) ProofValue() (*Proof, error) {
	vk, err := decodeHex(f.VKey)
	if err != nil {
		return nil, err
	}
	if len(vk) != len(VerifyingKey{}) {
		return nil, fmt.Errorf("%w: vkey is %d bytes", ErrFixtureEncoding, len(vk))
	}
	pv, err := decodeHex(f.PublicValues)
	if err != nil {
		return nil, err
	}
	pb, err := decodeHex(f.Proof)
	if err != nil {
		return nil, err
	}
	p := &Proof{PublicValues: pv, Bytes: pb, Mode: ModeExecute}
	copy(p.VKey[:], vk)
	if len(pb) > 0 {
		p.Mode = ModeEVM
	}
	return p, nil
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFixtureEncoding, err)
	}
	return b, nil
}
