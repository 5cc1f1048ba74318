package core

import "errors"

// ErrWrongType is the shared wrong-kind error, wired to the reply writer
// by checkKind. Its wire text is fixed per spec section 6 — operators
// and tests match on it verbatim.
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// checkKind is the only accessor wired to the command-reply collaborator
// (spec section 4.4): it reports whether v's kind mismatches expected.
func checkKind(v *Value, expected Kind) error {
	if v.Kind() != expected {
		return ErrWrongType
	}
	return nil
}

// assertEncoding panics if v is not encoded as expected. Reaching this
// path means a constructor or re-encoder produced an invalid (kind,
// encoding) pair — a bug, not a runtime condition (spec section 7).
func assertEncoding(v *Value, expected Encoding) {
	if v.Encoding() != expected {
		panic("core: expected encoding " + expected.Name() + ", got " + v.Encoding().Name())
	}
}
