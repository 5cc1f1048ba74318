package core

import "github.com/vobj/kvstore/core/container"

// CreateList builds a List value in its initial compact encoding, the
// same "start small, promote later" approach the source uses for every
// aggregate kind (spec section 4.2). Promotion to QuickList is driven
// by the external list-command surface, not by this constructor.
func CreateList() *Value {
	v := newHeader(KindList, EncodingZipList, container.NewZipList())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateQuickList builds a List value already in its full encoding, for
// callers (e.g. AOF replay of a long list) that know upfront it will
// not fit a single ziplist.
func CreateQuickList() *Value {
	v := newHeader(KindList, EncodingQuickList, container.NewQuickList())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateSet builds a Set value in the hashtable encoding.
func CreateSet() *Value {
	v := newHeader(KindSet, EncodingHT, container.NewHashTable())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateIntSet builds a Set value in the integer-set encoding, used
// while every member parses as an integer (spec section 4.2, scenario
// S6).
func CreateIntSet() *Value {
	v := newHeader(KindSet, EncodingIntSet, container.NewIntSet())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateHash builds a Hash value in its initial compact encoding.
func CreateHash() *Value {
	v := newHeader(KindHash, EncodingZipList, container.NewZipList())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateHashTable builds a Hash value already in the full hashtable
// encoding.
func CreateHashTable() *Value {
	v := newHeader(KindHash, EncodingHT, container.NewHashTable())
	v.evictionMeta = newEvictionMeta()
	return v
}

// SortedSet is the payload of a SkipList-encoded SortedSet: a
// hashtable mapping member to score for O(1) lookup, paired with a
// skiplist that orders members by score then member (spec section
// 4.2). Both structures are kept in lockstep by the external zset
// command surface; this layer only owns their creation and the memory
// estimator's walk over them.
type SortedSet struct {
	Members *container.HashTable
	Order   *container.SkipList
}

// CreateSortedSet builds a SortedSet value in its initial compact
// encoding.
func CreateSortedSet() *Value {
	v := newHeader(KindSortedSet, EncodingZipList, container.NewZipList())
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateSortedSetSkipList builds a SortedSet value already in its full
// encoding.
func CreateSortedSetSkipList() *Value {
	v := newHeader(KindSortedSet, EncodingSkipList, &SortedSet{
		Members: container.NewHashTable(),
		Order:   container.NewSkipList(),
	})
	v.evictionMeta = newEvictionMeta()
	return v
}

// CreateModule builds an opaque module value. typ carries the free and
// memory-usage callbacks free-dispatch and sizeOf delegate to (spec
// section 4.2/4.3/4.6, and the Module-encoding Open Question resolved
// in SPEC_FULL.md).
func CreateModule(typ *ModuleType, blob interface{}) *Value {
	v := newHeader(KindModule, EncodingModuleBlob, &ModuleBlob{Type: typ, Blob: blob})
	v.evictionMeta = newEvictionMeta()
	return v
}
