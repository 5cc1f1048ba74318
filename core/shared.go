package core

import "sync"

// sharedIntegers is the process-wide table of SharedIntLimit immortal
// integer-encoded string values, populated once at startup and never
// mutated afterward (spec section 4.5). Reads need no synchronization
// once init has run; the sync.Once only guards against InitSharedObjects
// being called more than once (e.g. by both a test and the server).
var (
	sharedIntegers [SharedIntLimit]*Value
	sharedOnce     sync.Once
)

// InitSharedObjects populates the shared-singleton registry. Safe to
// call multiple times; only the first call does anything.
func InitSharedObjects() {
	sharedOnce.Do(func() {
		for n := 0; n < SharedIntLimit; n++ {
			v := &Value{
				typeEncoding: packTypeEncoding(KindString, EncodingInt),
				refCount:     Shared,
				Payload:      int64(n),
			}
			sharedIntegers[n] = v
		}
	})
}

// sharedInt returns the immortal value for n, incrementing its
// (no-op) refcount so the call shape matches every other constructor.
// Panics if InitSharedObjects has not run (a caller reached
// shared-integer logic before startup — a wiring bug) or if n is
// outside the table's range.
func sharedInt(n int64) *Value {
	v := sharedIntegers[n]
	if v == nil {
		panic("core: shared-integer registry not initialized")
	}
	return incr(v)
}
