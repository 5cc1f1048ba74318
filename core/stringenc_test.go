package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeStringChoosesEncodingByLength(t *testing.T) {
	short := MakeString([]byte("short"))
	assert.Equal(t, EncodingEmbStr, short.Encoding())

	atLimit := MakeString([]byte(strings.Repeat("a", EmbStrLimit)))
	assert.Equal(t, EncodingEmbStr, atLimit.Encoding())

	overLimit := MakeString([]byte(strings.Repeat("a", EmbStrLimit+1)))
	assert.Equal(t, EncodingRaw, overLimit.Encoding())
}

func TestMakeFromIntSharesSmallNonNegativeValues(t *testing.T) {
	InitSharedObjects()
	a := MakeFromInt(7)
	b := MakeFromInt(7)
	assert.Same(t, a, b, "small non-negative ints should dedup to the shared singleton")
	assert.Equal(t, int64(Shared), a.RefCount())
}

func TestMakeFromIntTagsOutOfRangeValues(t *testing.T) {
	v := MakeFromInt(-5)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, EncodingInt, v.Encoding())
	assert.Equal(t, int64(1), v.RefCount())
	assert.Equal(t, int64(-5), v.Payload)
}

func TestTryEncodePromotesParsableIntegers(t *testing.T) {
	v := MakeString([]byte("12345"))
	v = TryEncode(v)
	assert.Equal(t, EncodingInt, v.Encoding())
	assert.Equal(t, int64(12345), v.Payload)
}

func TestTryEncodeDedupsToSharedSingleton(t *testing.T) {
	InitSharedObjects()
	v := MakeRaw([]byte("9000")) // MakeRaw always forces Raw encoding, regardless of length
	v = TryEncode(v)
	assert.Equal(t, int64(Shared), v.RefCount())
	assert.Equal(t, int64(9000), v.Payload)
}

func TestTryEncodeLeavesNonIntegerStringsAlone(t *testing.T) {
	v := MakeString([]byte("not-a-number"))
	before := v.Encoding()
	v = TryEncode(v)
	assert.Equal(t, before, v.Encoding())
}

func TestTryEncodeRejectsLeadingZeroAndPlus(t *testing.T) {
	for _, s := range []string{"007", "+7"} {
		t.Run(s, func(t *testing.T) {
			v := MakeString([]byte(s))
			v = TryEncode(v)
			assert.NotEqual(t, EncodingInt, v.Encoding(), "%q must not be treated as a canonical integer", s)
		})
	}
}

func TestGetDecodedViewMaterializesIntWithoutMutatingSource(t *testing.T) {
	v := MakeFromInt(999999999) // outside shared range
	view := GetDecodedView(v)
	assert.Equal(t, EncodingInt, v.Encoding(), "source must stay Int-encoded")
	assert.NotEqual(t, EncodingInt, view.Encoding())
	assert.Equal(t, "999999999", string(stringBytes(view)))
}

func TestDupProducesIndependentCopy(t *testing.T) {
	v := MakeRaw([]byte(strings.Repeat("x", 100)))
	dup := Dup(v)
	assert.NotSame(t, v, dup)
	assert.Equal(t, v.Encoding(), dup.Encoding())
	assert.Equal(t, stringBytes(v), stringBytes(dup))

	decr(v)
	assert.NotNil(t, dup.Payload, "decref of the original must not affect the dup")
}

func TestParseStrictIntMatchesSource(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"-0", 0, false},
		{"123", 123, true},
		{"-123", -123, true},
		{"+123", 0, false},
		{"0123", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, ok := parseStrictInt([]byte(tt.in))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}
