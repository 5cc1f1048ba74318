package core

import "math"

// Kind is the logical type of a value, packed into the high nibble of
// the value's typeEncoding byte (mirrors the teacher's OBJ_TYPE_STRING
// high-nibble packing in the original object.go).
type Kind uint8

const (
	KindString    Kind = 0 << 4
	KindList      Kind = 1 << 4
	KindSet       Kind = 2 << 4
	KindHash      Kind = 3 << 4
	KindSortedSet Kind = 4 << 4
	KindModule    Kind = 5 << 4
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindHash:
		return "hash"
	case KindSortedSet:
		return "zset"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Encoding is the physical representation of a value, packed into the
// low nibble of typeEncoding.
type Encoding uint8

const (
	EncodingRaw        Encoding = 0
	EncodingInt        Encoding = 1
	EncodingHT         Encoding = 2
	EncodingZipList    Encoding = 3
	EncodingIntSet     Encoding = 4
	EncodingSkipList   Encoding = 5
	EncodingQuickList  Encoding = 6
	EncodingEmbStr     Encoding = 7
	EncodingModuleBlob Encoding = 8
)

// Name returns the exact wire spelling used by OBJECT ENCODING and
// MEMORY replies. Tests and client expectations depend on this spelling.
func (e Encoding) Name() string {
	switch e {
	case EncodingRaw:
		return "raw"
	case EncodingInt:
		return "int"
	case EncodingEmbStr:
		return "embstr"
	case EncodingHT:
		return "hashtable"
	case EncodingQuickList:
		return "quicklist"
	case EncodingZipList:
		return "ziplist"
	case EncodingIntSet:
		return "intset"
	case EncodingSkipList:
		return "skiplist"
	case EncodingModuleBlob:
		return "module"
	default:
		return "unknown"
	}
}

// Well-known constants fixed per spec section 6; tests and operators
// depend on these exact values.
const (
	EmbStrLimit           = 44
	SharedIntLimit        = 10000
	LFUInit               = 5
	ComputeSizeDefSamples = 5
)

// Shared is the refcount sentinel marking an immortal, never-mutated,
// never-freed value (spec section 3).
const Shared = math.MaxInt32

// validEncodings enforces the (kind, encoding) table of spec section 3.
// Go has no sum type expressive enough to make illegal pairs
// unrepresentable without generics machinery that would not read like
// the rest of this codebase (see DESIGN.md); this table plus the
// assertions in typencoding.go give the same guarantee at construction
// time instead of compile time.
var validEncodings = map[Kind]map[Encoding]bool{
	KindString:    {EncodingRaw: true, EncodingEmbStr: true, EncodingInt: true},
	KindList:      {EncodingQuickList: true, EncodingZipList: true},
	KindSet:       {EncodingHT: true, EncodingIntSet: true},
	KindHash:      {EncodingHT: true, EncodingZipList: true},
	KindSortedSet: {EncodingSkipList: true, EncodingZipList: true},
	KindModule:    {EncodingModuleBlob: true},
}

// Value is the fixed-shape record every stored value passes through. It
// corresponds to the teacher's Obj struct, generalized from a single
// string-oriented prototype to the full kind/encoding matrix, with
// evictionMeta replacing the teacher's separate LfuLogWeight/
// LastDecayedAt fields with the packed 24-bit field spec section 3 asks
// for.
type Value struct {
	typeEncoding uint8
	refCount     int64
	evictionMeta uint32
	Payload      interface{}
}

func packTypeEncoding(k Kind, e Encoding) uint8 {
	if m, ok := validEncodings[k]; !ok || !m[e] {
		panic("core: invalid (kind, encoding) pair " + k.String() + "/" + e.Name())
	}
	return uint8(k) | uint8(e)
}

// Kind returns the value's logical type.
func (v *Value) Kind() Kind {
	return Kind(v.typeEncoding &^ 0x0F)
}

// Encoding returns the value's physical representation.
func (v *Value) Encoding() Encoding {
	return Encoding(v.typeEncoding & 0x0F)
}

// RefCount returns the raw refcount, including the Shared sentinel.
func (v *Value) RefCount() int64 {
	return v.refCount
}

// newHeader builds a header with refcount 1 and the given payload.
func newHeader(k Kind, e Encoding, payload interface{}) *Value {
	return &Value{
		typeEncoding: packTypeEncoding(k, e),
		refCount:     1,
		Payload:      payload,
	}
}

// setEncoding swaps the physical encoding of a value in place, preserving
// kind and refcount. Used by tryEncode's "reuse the same header" path
// (spec section 4.1).
func (v *Value) setEncoding(e Encoding) {
	v.typeEncoding = packTypeEncoding(v.Kind(), e)
}
