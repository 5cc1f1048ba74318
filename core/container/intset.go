package container

import "sort"

// IntSet is a sorted array of distinct integers, widened to the
// smallest of int16/int32/int64 that fits every member, mirroring the
// source's intset.c encoding upgrade-on-insert behavior.
type IntSet struct {
	values   []int64
	encoding int // bytes per element: 2, 4, or 8
}

func NewIntSet() *IntSet { return &IntSet{encoding: 2} }

func widthFor(v int64) int {
	switch {
	case v >= -1<<15 && v < 1<<15:
		return 2
	case v >= -1<<31 && v < 1<<31:
		return 4
	default:
		return 8
	}
}

// Add inserts v in sorted position if not already present, widening the
// encoding if needed. Returns true if v was newly inserted.
func (s *IntSet) Add(v int64) bool {
	i := sort.Search(len(s.values), func(i int) bool { return s.values[i] >= v })
	if i < len(s.values) && s.values[i] == v {
		return false
	}
	s.values = append(s.values, 0)
	copy(s.values[i+1:], s.values[i:])
	s.values[i] = v
	if w := widthFor(v); w > s.encoding {
		s.encoding = w
	}
	return true
}

func (s *IntSet) Contains(v int64) bool {
	i := sort.Search(len(s.values), func(i int) bool { return s.values[i] >= v })
	return i < len(s.values) && s.values[i] == v
}

func (s *IntSet) Len() int        { return len(s.values) }
func (s *IntSet) Encoding() int   { return s.encoding }
func (s *IntSet) Values() []int64 { return s.values }

// BlobLen is encoding*length plus a small fixed header, the exact form
// spec section 4.6 asks sizeOf to report for Set/IntSet.
func (s *IntSet) BlobLen() int64 {
	return int64(8 + s.encoding*len(s.values))
}
