package core

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/vobj/kvstore/config"
)

// entry is the database's key record: a stored Value plus the
// expiration the value layer itself does not know about (spec section
// 1 scopes TTL/eviction policy mechanics out of this layer; entry is
// the thin seam the containing database hangs them off of, the same
// role the teacher's Obj.ExpiresAt played before this repo split the
// polymorphic value out into its own header).
type entry struct {
	val       *Value
	expiresAt int64 // unix ms, -1 means no TTL
}

// store is the key->value map the command-execution thread and
// background AOF/eviction readers share. It replaces the teacher's
// map[string]*Obj plus sync.RWMutex with a lock-free concurrent map
// sized for a single writer and occasional background readers (spec
// section 5; SPEC_FULL.md's domain-stack wiring for
// puzpuzpuz/xsync/v3). Keys are hashed with cespare/xxhash/v2 rather
// than the map's default string hasher; this map is the only place the
// repo uses xxhash.
var store = xsync.NewMapOfWithHasher[string, *entry](
	func(s string, seed uint64) uint64 { return xxhash.Sum64String(s) },
)

func init() {
	MarkStartup()
}

// Put installs v under k at refcount 1 (the caller's ownership
// transfers to the store), replacing and decref-ing any prior value,
// and evicting an existing key first if the key count is at capacity
// (spec section 5's incr-on-store / decr-on-evict discipline).
func Put(k string, v *Value, durationMs int64) {
	expiresAt := int64(-1)
	if durationMs >= 0 {
		expiresAt = time.Now().UnixMilli() + durationMs
	}

	old, existed := store.Load(k)
	if !existed && store.Size() >= config.MaxKeys {
		evict()
	}

	store.Store(k, &entry{val: v, expiresAt: expiresAt})
	if existed && old.val != v {
		Decr(old.val)
	}
}

// PutKeepTTL installs v under k like Put, but leaves any existing TTL
// untouched instead of clearing it — for in-place mutators (APPEND,
// INCR) that must not reset a key's expiry just because its value
// changed.
func PutKeepTTL(k string, v *Value) {
	old, existed := store.Load(k)
	if !existed && store.Size() >= config.MaxKeys {
		evict()
	}

	expiresAt := int64(-1)
	if existed {
		expiresAt = old.expiresAt
	}
	store.Store(k, &entry{val: v, expiresAt: expiresAt})
	if existed && old.val != v {
		Decr(old.val)
	}
}

// Get looks up k, lazily expiring it if its TTL has passed, and
// touches its eviction metadata on every access the way the teacher's
// Get called decayWeight/incrementLfuLogWeight (spec section 4.6's
// evictionMeta, generalized to the packed field in clock.go). The
// returned value is not incref'd: callers on the single command
// thread may read it directly, and must Incr before handing a
// reference elsewhere.
func Get(k string) *Value {
	e, ok := store.Load(k)
	if !ok {
		return nil
	}
	if expired(e) {
		Del(k)
		return nil
	}
	touchAccess(e.val)
	return e.val
}

// Peek looks up k like Get but does not touch eviction metadata, for
// callers that must inspect a value without counting as an access —
// the eviction sampler reading idleSeconds/freqCounter to pick a
// victim would otherwise refresh every candidate it looks at first.
func Peek(k string) *Value {
	e, ok := store.Load(k)
	if !ok || expired(e) {
		return nil
	}
	return e.val
}

// Del removes k, decref-ing its value, and reports whether it existed.
func Del(k string) bool {
	e, loaded := store.Load(k)
	if !loaded {
		return false
	}
	store.Delete(k)
	Decr(e.val)
	return true
}

// Expire sets k's TTL to durationMs from now; returns false if k does
// not exist.
func Expire(k string, durationMs int64) bool {
	e, ok := store.Load(k)
	if !ok || expired(e) {
		return false
	}
	e.expiresAt = time.Now().UnixMilli() + durationMs
	return true
}

// TTLMillis returns the key's remaining TTL in milliseconds, -1 if it
// has no TTL, or -2 if the key does not exist (RESP TTL reply
// convention).
func TTLMillis(k string) int64 {
	e, ok := store.Load(k)
	if !ok || expired(e) {
		return -2
	}
	if e.expiresAt == -1 {
		return -1
	}
	remaining := e.expiresAt - time.Now().UnixMilli()
	if remaining < 0 {
		return -2
	}
	return remaining
}

// Len returns the number of live keys, per spec section 4.7's MEMORY
// STATS database key count.
func Len() int { return store.Size() }

func expired(e *entry) bool {
	return e.expiresAt != -1 && e.expiresAt <= time.Now().UnixMilli()
}

// Range visits every live (unexpired) key in the store; used by the
// AOF rewriter and the eviction sampler.
// Lazily expired entries are skipped but not deleted here -- deletion
// on the read path belongs to Get/DeleteExpiredKeys, not this walk.
func Range(fn func(key string, v *Value) bool) {
	store.Range(func(k string, e *entry) bool {
		if expired(e) {
			return true
		}
		return fn(k, e.val)
	})
}

// DeleteExpiredKeys sweeps the store for lazily-expired keys and
// removes them, the active side of TTL expiry the teacher's cron loop
// drove (server.shouldRunCron).
func DeleteExpiredKeys() {
	var toDelete []string
	store.Range(func(k string, e *entry) bool {
		if expired(e) {
			toDelete = append(toDelete, k)
		}
		return true
	})
	for _, k := range toDelete {
		Del(k)
	}
}

// MainHashTableBytes estimates the store's own bookkeeping footprint
// for MEMORY STATS' per-database mainHashTableBytes field: a
// pointer-sized bucket slot per live key, the same bucket-array
// estimate core/memory.go uses for HT-encoded aggregates.
func MainHashTableBytes() int64 {
	n := int64(store.Size())
	if n == 0 {
		return 0
	}
	buckets := int64(1)
	for buckets < n {
		buckets <<= 1
	}
	const ptrSize = 8
	return buckets * ptrSize
}
