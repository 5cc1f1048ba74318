// Package container holds the aggregate data structures the value
// layer treats as external dependencies of fixed contract (spec
// section 6): quicklist, ziplist, hashtable, integer-set, and skiplist.
// Their internal algorithms are out of this repo's scope — only the
// creation, length/slot-count, iteration, and blob-length operations
// the value layer's constructors and memory estimator need are
// provided here.
package container

// ZipList is the compact, contiguous-buffer encoding used for small
// lists, hashes, and sorted sets before they grow into their full
// encodings. Entries are length-prefixed byte strings, the same shape
// as the source's listpack successor to the original ziplist.
type ZipList struct {
	entries [][]byte
}

func NewZipList() *ZipList { return &ZipList{} }

func (z *ZipList) Push(entry []byte) {
	cp := make([]byte, len(entry))
	copy(cp, entry)
	z.entries = append(z.entries, cp)
}

func (z *ZipList) Len() int { return len(z.entries) }

func (z *ZipList) At(i int) []byte { return z.entries[i] }

func (z *ZipList) Range(fn func(i int, entry []byte) bool) {
	for i, e := range z.entries {
		if !fn(i, e) {
			return
		}
	}
}

// BlobLen returns the serialized byte length of the ziplist, as if it
// were the single contiguous allocation the name implies: a 4-byte
// entry count header plus a 4-byte length prefix per entry.
func (z *ZipList) BlobLen() int64 {
	n := int64(4)
	for _, e := range z.entries {
		n += 4 + int64(len(e))
	}
	return n
}
