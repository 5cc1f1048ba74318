package core

// EmbeddedString is the payload of an EncodingEmbStr value: bytes copied
// once into a fixed array so the value never reallocates for the life
// of the header (spec section 4.1). Go cannot give us the C source's
// single header+sds allocation, but storing the bytes by value inside
// the header's payload — instead of behind an extra pointer — keeps the
// same "one object, no second allocation" intent; see DESIGN.md.
type EmbeddedString struct {
	data   [EmbStrLimit]byte
	length uint8
}

func newEmbeddedString(b []byte) *EmbeddedString {
	s := &EmbeddedString{length: uint8(len(b))}
	copy(s.data[:], b)
	return s
}

func (s *EmbeddedString) Bytes() []byte { return s.data[:s.length] }
func (s *EmbeddedString) Len() int      { return int(s.length) }

// RawString is the payload of an EncodingRaw value: an independently
// allocated, mutable-capacity byte buffer (spec section 3's Raw
// invariant). Go slices already carry a length distinct from capacity,
// so unlike the source's sds there is no separate header to manage.
type RawString struct {
	buf []byte
}

func newRawString(b []byte) *RawString {
	out := make([]byte, len(b))
	copy(out, b)
	return &RawString{buf: out}
}

func (s *RawString) Bytes() []byte { return s.buf }
func (s *RawString) Len() int      { return len(s.buf) }
func (s *RawString) Cap() int      { return cap(s.buf) }
func (s *RawString) Avail() int    { return cap(s.buf) - len(s.buf) }

// Grow appends b, growing capacity geometrically like sdsMakeRoomFor:
// double while small, +1MiB increments once the string is large. This
// is what produces the slack that tryEncode's 10%-trim step later
// reclaims; the spec's core scope only defines the trim, but without a
// grower nothing would ever create slack to trim.
func (s *RawString) Grow(b []byte) {
	need := len(s.buf) + len(b)
	if need > cap(s.buf) {
		const oneMiB = 1 << 20
		newCap := cap(s.buf) * 2
		if newCap < need {
			newCap = need
		}
		if cap(s.buf) >= oneMiB {
			newCap = cap(s.buf) + len(b) + oneMiB
		}
		grown := make([]byte, len(s.buf), newCap)
		copy(grown, s.buf)
		s.buf = grown
	}
	s.buf = append(s.buf, b...)
}

// ShrinkToFit drops unused capacity, the Raw-only branch of tryEncode
// step 6.
func (s *RawString) ShrinkToFit() {
	if cap(s.buf) == len(s.buf) {
		return
	}
	tight := make([]byte, len(s.buf))
	copy(tight, s.buf)
	s.buf = tight
}

// ModuleBlob is the payload of an EncodingModuleBlob value: an opaque
// byte blob plus the type descriptor that knows how to free and size
// it (spec section 4.2's Module kind, with the Open-Question-resolved
// distinct encoding from spec section 9).
type ModuleBlob struct {
	Type *ModuleType
	Blob interface{}
}

// ModuleType carries the function pointers module values dispatch
// through for free and size-estimation, per spec section 4.2/4.3/4.6.
type ModuleType struct {
	Name        string
	Free        func(blob interface{})
	MemoryUsage func(blob interface{}) int64
}
