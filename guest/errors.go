package guest

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindMalformed covers buffers shorter than their declared contents.
	KindMalformed Kind = "Malformed"
	// KindVerification covers bad keys, bad signatures and root mismatches.
	KindVerification Kind = "Verification"
	// KindOpcode covers opcodes outside the known set.
	KindOpcode Kind = "Opcode"
	// KindCommit covers output commitment failures.
	KindCommit Kind = "Commit"
)

// Stable rule identifiers.
const (
	RuleDecodeUnderrun  = "OPB-DEC-001"
	RuleDecodeEmpty     = "OPB-DEC-002"
	RuleDecodeChunkSize = "OPB-DEC-003"
	RuleOpcodeUnknown   = "OPB-OP-001"
	RuleSigPublicKey    = "OPB-SIG-001"
	RuleSigInvalid      = "OPB-SIG-002"
	RuleSMTRootMismatch = "OPB-SMT-001"
	RuleCommitTwice     = "OPB-OUT-001"
	RuleCommitSink      = "OPB-OUT-002"
	RuleCommitEncoding  = "OPB-OUT-003"
)

// Error is the structured error returned by every guest operation.
//
// Index is the zero-based job entry that failed, or -1 when the failure is
// not tied to a single entry.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Index   int
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := "guest: " + e.Message
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s (entry %d)", msg, e.Index)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Index: -1}
}

func entryError(kind Kind, ruleID, msg string, index int, cause error) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Index: index, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
