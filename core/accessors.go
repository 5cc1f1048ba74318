package core

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	ErrNotInt   = errors.New("value is not an integer or out of range")
	ErrNotFloat = errors.New("value is not a valid float")
)

// Length returns the logical length of a string-kind value: byte length
// for string-form encodings, length of the decimal form (a leading minus
// sign included) for Int (spec section 4.4).
func Length(v *Value) int {
	if err := checkKind(v, KindString); err != nil {
		panic(err)
	}
	if v.Encoding() == EncodingInt {
		return len(strconv.FormatInt(v.Payload.(int64), 10))
	}
	return len(stringBytes(v))
}

// AsInt parses v's full string representation as a signed word,
// rejecting leading whitespace, empty input, trailing garbage, and
// overflow (spec section 4.4/7).
func AsInt(v *Value) (int64, error) {
	if err := checkKind(v, KindString); err != nil {
		return 0, err
	}
	if v.Encoding() == EncodingInt {
		return v.Payload.(int64), nil
	}
	s := string(stringBytes(v))
	if s == "" || s[0] == ' ' || s[0] == '\t' {
		return 0, ErrNotInt
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrNotInt
	}
	return n, nil
}

// AsDouble parses v's full string as a float64, with the same full-
// consumption, no-leading-whitespace, finite-only contract as AsInt
// (spec section 4.4/7).
func AsDouble(v *Value) (float64, error) {
	return parseFullFloat(v)
}

// AsLongDouble applies the same parsing contract as AsDouble; Go has no
// extended-precision float type distinct from float64, so both accessors
// share an implementation.
func AsLongDouble(v *Value) (float64, error) {
	return parseFullFloat(v)
}

func parseFullFloat(v *Value) (float64, error) {
	if err := checkKind(v, KindString); err != nil {
		return 0, err
	}
	var s string
	if v.Encoding() == EncodingInt {
		s = strconv.FormatInt(v.Payload.(int64), 10)
	} else {
		s = string(stringBytes(v))
	}
	if s == "" || s[0] == ' ' || s[0] == '\t' {
		return 0, ErrNotFloat
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotFloat
	}
	if f != f || f > maxFinite || f < -maxFinite {
		return 0, ErrNotFloat
	}
	return f, nil
}

const maxFinite = 1.7976931348623157e+308

// CompareMode selects byte-wise or locale-collated comparison (spec
// section 4.4).
type CompareMode int

const (
	Binary CompareMode = iota
	Collate
)

var collator = collate.New(language.Und)

// Compare implements the total order spec section 4.4/8 asks for:
// identity short-circuit, then either a byte-wise compare with
// length as the tie-break, or locale collation via golang.org/x/text
// (already part of this module's dependency graph through viper/cobra,
// and the concrete collation library the pack's stack offers — see
// DESIGN.md for why this beats a hand-rolled stdlib substitute).
func Compare(a, b *Value, mode CompareMode) int {
	if a == b {
		return 0
	}
	ab, bb := stringBytes(a), stringBytes(b)
	if mode == Collate {
		return collator.CompareString(string(ab), string(bb))
	}
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	if c := strings.Compare(string(ab[:n]), string(bb[:n])); c != 0 {
		return c
	}
	switch {
	case len(ab) < len(bb):
		return -1
	case len(ab) > len(bb):
		return 1
	default:
		return 0
	}
}

// Equals reports value equality: direct payload comparison when both
// are Int, else a binary Compare (spec section 4.4/8).
func Equals(a, b *Value) bool {
	if a.Encoding() == EncodingInt && b.Encoding() == EncodingInt {
		return a.Payload.(int64) == b.Payload.(int64)
	}
	return Compare(a, b, Binary) == 0
}

// CheckKind is the exported accessor wired to the reply writer (spec
// section 4.4): true (with the wrong-type error already logged by the
// caller) means the command should bail out with ErrWrongType.
func CheckKind(v *Value, expected Kind) bool {
	return checkKind(v, expected) != nil
}
