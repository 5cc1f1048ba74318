package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackTypeEncodingRejectsInvalidPair(t *testing.T) {
	assert.Panics(t, func() {
		packTypeEncoding(KindString, EncodingHT)
	}, "string/hashtable is not in validEncodings")
}

func TestPackTypeEncodingAcceptsEveryTableEntry(t *testing.T) {
	for kind, encodings := range validEncodings {
		for enc := range encodings {
			assert.NotPanics(t, func() {
				packTypeEncoding(kind, enc)
			}, "kind %v encoding %v should be valid", kind, enc)
		}
	}
}

func TestNewHeaderStartsAtRefcountOne(t *testing.T) {
	v := newHeader(KindString, EncodingEmbStr, newEmbeddedString([]byte("hi")))
	assert.Equal(t, int64(1), v.RefCount())
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, EncodingEmbStr, v.Encoding())
}

func TestSetEncodingPreservesKindAndRefcount(t *testing.T) {
	v := newHeader(KindString, EncodingEmbStr, newEmbeddedString([]byte("hi")))
	v.refCount = 3
	v.setEncoding(EncodingRaw)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, EncodingRaw, v.Encoding())
	assert.Equal(t, int64(3), v.RefCount())
}

func TestEncodingNameMatchesWireSpelling(t *testing.T) {
	tests := []struct {
		enc  Encoding
		want string
	}{
		{EncodingRaw, "raw"},
		{EncodingInt, "int"},
		{EncodingEmbStr, "embstr"},
		{EncodingHT, "hashtable"},
		{EncodingQuickList, "quicklist"},
		{EncodingZipList, "ziplist"},
		{EncodingIntSet, "intset"},
		{EncodingSkipList, "skiplist"},
		{EncodingModuleBlob, "module"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.enc.Name())
		})
	}
}

func TestKindStringMatchesWireSpelling(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindString, "string"},
		{KindList, "list"},
		{KindSet, "set"},
		{KindHash, "hash"},
		{KindSortedSet, "zset"},
		{KindModule, "module"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}
