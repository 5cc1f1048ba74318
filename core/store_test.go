package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vobj/kvstore/config"
)

func TestGetTouchesAccessButPeekDoesNot(t *testing.T) {
	prevPolicy := config.EvictionPolicyFlag
	config.EvictionPolicyFlag = config.PolicyAllKeysLRU
	defer func() { config.EvictionPolicyFlag = prevPolicy }()

	key := "store-test-peek"
	Put(key, MakeRaw([]byte("v")), -1)
	Peek(key).evictionMeta = 1 // a deliberately stale LRU clock reading

	assert.Equal(t, uint32(1), Peek(key).evictionMeta, "Peek must not mutate evictionMeta")

	_ = Get(key)
	assert.NotEqual(t, uint32(1), Peek(key).evictionMeta, "Get must refresh the LRU clock reading on access")
}

func TestPutOverwriteDecrefsThePriorValueOnly(t *testing.T) {
	key := "store-test-overwrite"
	first := MakeRaw([]byte("first"))
	Put(key, first, -1)

	second := MakeRaw([]byte("second"))
	Put(key, second, -1)

	assert.Equal(t, int64(0), first.RefCount(), "the replaced value must have been decref'd to zero")
	assert.Equal(t, int64(1), second.RefCount())
}

func TestPutNeverDecrefsTheValueItJustStored(t *testing.T) {
	key := "store-test-self-store"
	v := MakeRaw([]byte("v"))
	Put(key, v, -1)

	// An in-place mutator (APPEND) may hand its own already-stored
	// header back to Put; that must never free the live value.
	Put(key, v, -1)
	assert.Equal(t, int64(1), v.RefCount())
	assert.NotNil(t, v.Payload)
}

func TestPutKeepTTLPreservesExistingExpiry(t *testing.T) {
	key := "store-test-keepttl"
	Put(key, MakeRaw([]byte("v")), 60000)
	ttlBefore := TTLMillis(key)
	assert.Greater(t, ttlBefore, int64(0))

	PutKeepTTL(key, MakeRaw([]byte("v2")))
	ttlAfter := TTLMillis(key)
	assert.Greater(t, ttlAfter, int64(0), "TTL must survive an in-place value swap")
}

func TestPutClearsTTLUnlessToldToKeepIt(t *testing.T) {
	key := "store-test-clear-ttl"
	Put(key, MakeRaw([]byte("v")), 60000)
	Put(key, MakeRaw([]byte("v2")), -1)
	assert.Equal(t, int64(-1), TTLMillis(key), "plain Put with no duration clears any prior TTL")
}
