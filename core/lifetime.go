package core

// incr increments v's refcount, a no-op for shared/immortal values
// (spec section 4.3).
func incr(v *Value) *Value {
	if v.refCount == Shared {
		return v
	}
	v.refCount++
	return v
}

// Incr is the exported form of incr, for callers outside this package
// that alias a stored value (e.g. a collection inserting a reference).
func Incr(v *Value) *Value { return incr(v) }

// decr decrements v's refcount, freeing the payload and header when it
// drops from 1 to 0. A no-op for shared values. Reaching refCount <= 0
// before this call is a use-after-free bug and is fatal (spec section
// 4.3/7).
func decr(v *Value) {
	if v.refCount == Shared {
		return
	}
	if v.refCount <= 0 {
		panic("core: decr on value with non-positive refcount (use-after-free)")
	}
	if v.refCount == 1 {
		freePayload(v)
		v.refCount = 0
		return
	}
	v.refCount--
}

// Decr is the exported form of decr.
func Decr(v *Value) { decr(v) }

// ResetRef sets refcount to 0 and returns v, the transient "hand-off"
// state produced when a freshly built value still needs an incr before
// the caller next touches it (spec section 3).
func ResetRef(v *Value) *Value {
	v.refCount = 0
	return v
}

// freePayload dispatches payload disposal by kind/encoding (spec
// section 4.3). Any unknown pair reaches the default panic — these
// paths must never execute because packTypeEncoding already rejects
// invalid pairs at construction time.
func freePayload(v *Value) {
	switch v.Kind() {
	case KindString:
		// EmbStr is freed with the header (no separate allocation);
		// Int has no payload allocation at all.
		if v.Encoding() == EncodingRaw {
			v.Payload = nil
		}
	case KindList:
		switch v.Encoding() {
		case EncodingQuickList, EncodingZipList:
			v.Payload = nil
		default:
			panic("core: unknown list encoding " + v.Encoding().Name())
		}
	case KindSet:
		switch v.Encoding() {
		case EncodingHT, EncodingIntSet:
			v.Payload = nil
		default:
			panic("core: unknown set encoding " + v.Encoding().Name())
		}
	case KindHash:
		switch v.Encoding() {
		case EncodingHT, EncodingZipList:
			v.Payload = nil
		default:
			panic("core: unknown hash encoding " + v.Encoding().Name())
		}
	case KindSortedSet:
		switch v.Encoding() {
		case EncodingSkipList, EncodingZipList:
			v.Payload = nil
		default:
			panic("core: unknown zset encoding " + v.Encoding().Name())
		}
	case KindModule:
		blob := v.Payload.(*ModuleBlob)
		blob.Type.Free(blob.Blob)
		v.Payload = nil
	default:
		panic("core: unknown kind in free dispatch " + v.Kind().String())
	}
}
