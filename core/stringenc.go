package core

import (
	"strconv"
	"strings"

	"github.com/vobj/kvstore/config"
)

// MakeRaw builds a String value with an independently allocated buffer
// (spec section 4.1).
func MakeRaw(b []byte) *Value {
	v := newHeader(KindString, EncodingRaw, newRawString(b))
	v.evictionMeta = newEvictionMeta()
	return v
}

// MakeEmbedded builds a String value whose bytes live in the same
// record as the header. b may be nil, in which case the bytes are
// zero-filled (spec section 4.1).
func MakeEmbedded(b []byte) *Value {
	v := newHeader(KindString, EncodingEmbStr, newEmbeddedString(b))
	v.evictionMeta = newEvictionMeta()
	return v
}

// MakeString is the public string constructor: short strings are
// embedded, longer ones get an independent allocation. EmbStrLimit=44
// was chosen upstream so header+metadata+bytes fit a 64-byte allocator
// slab (spec section 4.1).
func MakeString(b []byte) *Value {
	if len(b) <= EmbStrLimit {
		return MakeEmbedded(b)
	}
	return MakeRaw(b)
}

// MakeFromInt returns the shared singleton for small non-negative
// integers when sharing is enabled, else a tagged-integer value with no
// heap allocation for the payload (spec section 4.1). Every int64 fits
// the Int encoding, so no Raw string is ever built here.
func MakeFromInt(n int64) *Value {
	if config.SharedIntegers && n >= 0 && n < SharedIntLimit {
		return sharedInt(n)
	}
	v := newHeader(KindString, EncodingInt, n)
	v.evictionMeta = newEvictionMeta()
	return v
}

// MakeFromDouble formats v as a string and constructs via MakeString.
// humanFriendly trims trailing zeroes at the cost of precision;
// otherwise full round-trip precision is used (spec section 4.1).
func MakeFromDouble(v float64, humanFriendly bool) *Value {
	var s string
	if humanFriendly {
		s = strconv.FormatFloat(v, 'f', 17, 64)
		s = trimTrailingZeroes(s)
	} else {
		s = strconv.FormatFloat(v, 'g', 17, 64)
	}
	return MakeString([]byte(s))
}

func trimTrailingZeroes(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Dup produces an independent, unshared copy of v preserving encoding
// (spec section 4.1).
func Dup(v *Value) *Value {
	switch v.Encoding() {
	case EncodingInt:
		out := newHeader(KindString, EncodingInt, v.Payload.(int64))
		out.evictionMeta = v.evictionMeta
		return out
	case EncodingEmbStr:
		out := MakeEmbedded(v.Payload.(*EmbeddedString).Bytes())
		out.evictionMeta = v.evictionMeta
		return out
	case EncodingRaw:
		out := MakeRaw(v.Payload.(*RawString).Bytes())
		out.evictionMeta = v.evictionMeta
		return out
	default:
		panic("core: dup of non-string encoding " + v.Encoding().Name())
	}
}

// TryEncode is the opportunistic re-encoding pass applied to freshly
// parsed string values (spec section 4.1). It implements the upstream
// tryObjectEncoding policy in order: only strings are touched, already-
// Int values pass through, shared values are never re-encoded, strings
// that parse as a signed-word integer within 20 digits become Int (or
// dedup to a shared singleton), otherwise short strings become EmbStr,
// and otherwise Raw strings with more than 10% slack get shrunk.
func TryEncode(v *Value) *Value {
	if v.Kind() != KindString {
		return v
	}
	if v.Encoding() == EncodingInt {
		return v
	}
	if v.refCount > 1 {
		return v
	}

	bytes := stringBytes(v)
	if len(bytes) <= 20 {
		if n, ok := parseStrictInt(bytes); ok {
			if config.SharedIntegers && n >= 0 && n < SharedIntLimit {
				decr(v)
				return incr(sharedInt(n))
			}
			v.Payload = n
			v.setEncoding(EncodingInt)
			return v
		}
	}

	if len(bytes) <= EmbStrLimit {
		if v.Encoding() == EncodingEmbStr {
			return v
		}
		emb := MakeEmbedded(bytes)
		emb.evictionMeta = v.evictionMeta
		decr(v)
		return emb
	}

	if v.Encoding() == EncodingRaw {
		raw := v.Payload.(*RawString)
		if raw.Avail() > raw.Len()/10 {
			raw.ShrinkToFit()
		}
	}
	return v
}

// GetDecodedView returns a value semantically equal to v but guaranteed
// to be string-form (Raw or EmbStr); never mutates v (spec section 4.1).
func GetDecodedView(v *Value) *Value {
	if v.Encoding() != EncodingInt {
		return incr(v)
	}
	return MakeString([]byte(strconv.FormatInt(v.Payload.(int64), 10)))
}

// stringBytes returns the logical bytes of a string-kind value without
// mutating it, materializing Int values into a scratch buffer.
func stringBytes(v *Value) []byte {
	switch v.Encoding() {
	case EncodingInt:
		return []byte(strconv.FormatInt(v.Payload.(int64), 10))
	case EncodingEmbStr:
		return v.Payload.(*EmbeddedString).Bytes()
	case EncodingRaw:
		return v.Payload.(*RawString).Bytes()
	default:
		panic("core: not a string encoding: " + v.Encoding().Name())
	}
}

// parseStrictInt implements the source's string2l: full-string,
// no leading '+', no leading zero (other than "0" itself), signed
// 64-bit range.
func parseStrictInt(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	s := string(b)
	if s == "0" {
		return 0, true
	}
	if s[0] == '+' {
		return 0, false
	}
	digits := s
	if s[0] == '-' {
		digits = s[1:]
	}
	if digits == "" || digits[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
