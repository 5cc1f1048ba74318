package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncrDecrRoundTrip(t *testing.T) {
	v := MakeRaw([]byte("a value too long to embed in the header record itself"))
	assert.Equal(t, int64(1), v.RefCount())

	incr(v)
	assert.Equal(t, int64(2), v.RefCount())

	decr(v)
	assert.Equal(t, int64(1), v.RefCount())

	decr(v)
	assert.Equal(t, int64(0), v.RefCount())
	assert.Nil(t, v.Payload, "freePayload should have cleared the Raw buffer")
}

func TestDecrOnFreedValuePanics(t *testing.T) {
	v := MakeRaw([]byte("a value too long to embed in the header record itself"))
	decr(v)
	assert.Panics(t, func() { decr(v) }, "decr past zero is a use-after-free bug")
}

func TestIncrDecrAreNoOpsOnSharedValues(t *testing.T) {
	InitSharedObjects()
	v := sharedInt(42)
	assert.Equal(t, int64(Shared), v.RefCount())

	incr(v)
	assert.Equal(t, int64(Shared), v.RefCount())

	decr(v)
	assert.Equal(t, int64(Shared), v.RefCount())
	assert.Equal(t, int64(42), v.Payload)
}

func TestResetRefZeroesRefcount(t *testing.T) {
	v := MakeEmbedded([]byte("short"))
	ResetRef(v)
	assert.Equal(t, int64(0), v.RefCount())
}

func TestFreePayloadClearsEachAggregateKind(t *testing.T) {
	values := []*Value{
		CreateList(),
		CreateQuickList(),
		CreateSet(),
		CreateIntSet(),
		CreateHash(),
		CreateHashTable(),
		CreateSortedSet(),
		CreateSortedSetSkipList(),
	}
	for _, v := range values {
		t.Run(v.Kind().String()+"/"+v.Encoding().Name(), func(t *testing.T) {
			decr(v)
			assert.Nil(t, v.Payload)
		})
	}
}
