package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendCreatesKeyWhenMissing(t *testing.T) {
	key := "eval-test-append-missing"
	n := evalAppend([]string{key, "hello"}, false)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "hello", stringReplyValue(Get(key)))
}

func TestAppendGrowsExistingValueInPlace(t *testing.T) {
	key := "eval-test-append-grow"
	evalSet([]string{key, "hello"}, false)
	n := evalAppend([]string{key, " world"}, false)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "hello world", stringReplyValue(Get(key)))
	assert.Equal(t, EncodingRaw, Get(key).Encoding(), "an appended-to string must end up Raw, not EmbStr/Int")
}

func TestAppendUnsharesASharedIntegerBeforeMutating(t *testing.T) {
	InitSharedObjects()
	key := "eval-test-append-shared"
	evalSet([]string{key, "7"}, false)
	v := Get(key)
	require := assert.New(t)
	require.Equal(int64(Shared), v.RefCount(), "small integers share the singleton table")

	n := evalAppend([]string{key, "7"}, false)
	require.Equal(int64(2), n)
	require.Equal("77", stringReplyValue(Get(key)))
	require.Equal(int64(Shared), v.RefCount(), "the shared singleton itself must be untouched")
}

func TestAppendPreservesExistingTTL(t *testing.T) {
	key := "eval-test-append-ttl"
	evalSet([]string{key, "hello"}, false)
	Expire(key, 60000)
	evalAppend([]string{key, "!"}, false)
	assert.Greater(t, TTLMillis(key), int64(0))
}

func TestIncrPreservesExistingTTL(t *testing.T) {
	key := "eval-test-incr-ttl"
	evalSet([]string{key, "1"}, false)
	Expire(key, 60000)
	evalIncr([]string{key}, false)
	assert.Greater(t, TTLMillis(key), int64(0))
}

func TestAppendRejectsWrongKind(t *testing.T) {
	key := "eval-test-append-wrongtype"
	Put(key, CreateList(), -1)
	reply := evalAppend([]string{key, "x"}, false)
	assert.Equal(t, ErrWrongType, reply)
}
