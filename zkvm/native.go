package zkvm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/essential-contributions/zk-benchmarks/guest"
)

// ProgramID names the guest program built from package guest. Bump it when
// the input layout or output record changes.
const ProgramID = "zk-benchmarks/guest/v1"

// Native runs the guest in-process without proving. It is the reference
// backend: its public values are what every real backend must commit.
type Native struct{}

var _ Backend = Native{}

func (Native) Name() string { return "native" }

func (Native) VerifyingKey() VerifyingKey { return NewVerifyingKey(ProgramID) }

// Prove executes input and returns an execute-only proof.
func (n Native) Prove(ctx context.Context, input []byte) (*Proof, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pv, err := Execute(input)
	if err != nil {
		return nil, err
	}
	return &Proof{
		VKey:         n.VerifyingKey(),
		Mode:         ModeExecute,
		PublicValues: pv,
		Input:        bytes.Clone(input),
	}, nil
}

// Verify re-executes the proof's input and compares public values.
func (n Native) Verify(ctx context.Context, proof *Proof) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if proof == nil {
		return ErrNotVerifiable
	}
	if proof.VKey != n.VerifyingKey() {
		return ErrVerifyingKeyMismatch
	}
	if proof.Mode != ModeExecute {
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, proof.Mode)
	}
	if proof.Input == nil {
		return ErrNotVerifiable
	}
	pv, err := Execute(proof.Input)
	if err != nil {
		return err
	}
	if !bytes.Equal(pv, proof.PublicValues) {
		return ErrPublicValuesMismatch
	}
	return nil
}

// Execute runs the guest once and returns the committed public values.
func Execute(input []byte) ([]byte, error) {
	var pv guest.PublicValues
	if _, err := guest.Run(input, &pv); err != nil {
		return nil, err
	}
	return pv.Bytes(), nil
}
