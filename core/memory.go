package core

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/vobj/kvstore/core/container"
)

const headerSize = int64(unsafe.Sizeof(Value{}))

// Struct-overhead estimates for the aggregate wrapper types. Go has no
// sizeof-equivalent for a third-party container's internal bookkeeping,
// so these are fixed approximations of the pointers/counters every
// wrapper type in core/container carries — exact to within a cache line,
// which is the same precision spec section 4.6 accepts for the sampled
// paths.
const (
	quicklistStructSize  = int64(48)
	quicklistNodeStruct  = int64(32)
	hashtableStructSize  = int64(56)
	hashtableEntryStruct = int64(24)
	zsetStructSize       = int64(16)
	zsetNodeStruct       = int64(40)
)

// SizeOf estimates the bytes consumed by v. samples bounds the work
// done for aggregate encodings that require a walk; 0 means "walk
// everything" (spec section 4.6). Any (kind, encoding) pair outside the
// table of spec section 3 is unreachable because packTypeEncoding
// already rejects it at construction, so the default branch here is a
// true "this must never execute" fatal, per spec section 7.
func SizeOf(v *Value, samples int) int64 {
	switch v.Kind() {
	case KindString:
		return sizeOfString(v)
	case KindList:
		return sizeOfList(v, samples)
	case KindSet:
		return sizeOfSet(v, samples)
	case KindHash:
		return sizeOfHash(v, samples)
	case KindSortedSet:
		return sizeOfSortedSet(v, samples)
	case KindModule:
		blob := v.Payload.(*ModuleBlob)
		return blob.Type.MemoryUsage(blob.Blob)
	default:
		panic("core: sizeOf of unknown kind " + v.Kind().String())
	}
}

func sizeOfString(v *Value) int64 {
	switch v.Encoding() {
	case EncodingInt:
		return headerSize
	case EncodingRaw:
		return headerSize + int64(v.Payload.(*RawString).Cap())
	case EncodingEmbStr:
		const stringMetaOverhead = 2
		return headerSize + int64(v.Payload.(*EmbeddedString).Len()) + stringMetaOverhead
	default:
		panic("core: sizeOf of unknown string encoding " + v.Encoding().Name())
	}
}

func sizeOfList(v *Value, samples int) int64 {
	switch v.Encoding() {
	case EncodingZipList:
		return headerSize + v.Payload.(*container.ZipList).BlobLen()
	case EncodingQuickList:
		ql := v.Payload.(*container.QuickList)
		if ql.NodeCount() == 0 {
			return headerSize + quicklistStructSize
		}
		var total int64
		visited := ql.WalkFromHead(samples, func(n *container.QuickListNode) {
			total += quicklistNodeStruct + n.ZipList().BlobLen()
		})
		avg := total / int64(visited)
		return headerSize + quicklistStructSize + avg*int64(ql.NodeCount())
	default:
		panic("core: sizeOf of unknown list encoding " + v.Encoding().Name())
	}
}

func sizeOfSet(v *Value, samples int) int64 {
	switch v.Encoding() {
	case EncodingIntSet:
		return headerSize + v.Payload.(*container.IntSet).BlobLen()
	case EncodingHT:
		return headerSize + sizeOfHashTable(v.Payload.(*container.HashTable), samples, false)
	default:
		panic("core: sizeOf of unknown set encoding " + v.Encoding().Name())
	}
}

func sizeOfHash(v *Value, samples int) int64 {
	switch v.Encoding() {
	case EncodingZipList:
		return headerSize + v.Payload.(*container.ZipList).BlobLen()
	case EncodingHT:
		return headerSize + sizeOfHashTable(v.Payload.(*container.HashTable), samples, true)
	default:
		panic("core: sizeOf of unknown hash encoding " + v.Encoding().Name())
	}
}

func sizeOfHashTable(ht *container.HashTable, samples int, hasValue bool) int64 {
	if ht.Len() == 0 {
		return hashtableStructSize
	}
	var total int64
	visited := ht.SampleWalk(samples, func(key string, value []byte) {
		cost := hashtableEntryStruct + int64(len(key))
		if hasValue {
			cost += int64(len(value))
		}
		total += cost
	})
	avg := total / int64(visited)
	return hashtableStructSize + ht.BucketBytes() + avg*int64(ht.Len())
}

func sizeOfSortedSet(v *Value, samples int) int64 {
	switch v.Encoding() {
	case EncodingZipList:
		return headerSize + v.Payload.(*container.ZipList).BlobLen()
	case EncodingSkipList:
		zs := v.Payload.(*SortedSet)
		if zs.Order.Len() == 0 {
			return headerSize + zsetStructSize
		}
		var total int64
		visited := zs.Order.WalkFromHead(samples, func(n *container.SkipListNode) {
			total += int64(len(n.Member)) + hashtableEntryStruct + zsetNodeStruct
		})
		avg := total / int64(visited)
		return headerSize + zsetStructSize + zs.Members.BucketBytes() + avg*int64(zs.Order.Len())
	default:
		panic("core: sizeOf of unknown zset encoding " + v.Encoding().Name())
	}
}

// OverheadReport mirrors the structure MEMORY STATS serializes (spec
// section 4.6).
type OverheadReport struct {
	UsedBytes          int64
	StartupBytes       int64
	PeakBytes          int64
	FragmentationRatio float64
	ReplBacklogBytes   int64
	SlaveBufBytes      int64
	ClientBufBytes     int64
	AOFBufBytes        int64
	NumClients         int64
	NumSlaves          int64
	Databases          []DatabaseOverhead
	OverheadTotal      int64
	DatasetBytes       int64
	DatasetPercent     float64
	BytesPerKey        int64
	PeakPercent        float64
}

type DatabaseOverhead struct {
	ID             int
	MainHTBytes    int64
	ExpiresHTBytes int64
	Keys           int64
}

var (
	startupBytes int64
	peakBytes    int64
	peakOnce     sync.Once
)

// MarkStartup records the baseline memory usage; call once at process
// start (spec section 4.6's "startup baseline").
func MarkStartup() {
	peakOnce.Do(func() {
		startupBytes = int64(currentMemStats().HeapAlloc)
		peakBytes = startupBytes
	})
}

func currentMemStats() runtime.MemStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m
}

// BuildOverheadReport assembles the instance-wide report MEMORY STATS
// projects to the wire (spec section 4.6). dbs is supplied by the
// store, which alone knows per-database key counts; numClients/
// numSlaves come from the connection layer (out of this package's
// scope per spec section 1) purely so MemoryDoctor can average the
// buffer totals the way the source does.
func BuildOverheadReport(dbs []DatabaseOverhead, replBacklog, slaveBuf, clientBuf, aofBuf, numClients, numSlaves int64) OverheadReport {
	m := currentMemStats()
	used := int64(m.HeapAlloc)
	if used > peakBytes {
		peakBytes = used
	}

	fragRatio := 1.0
	if m.HeapAlloc > 0 {
		fragRatio = float64(m.HeapSys) / float64(m.HeapAlloc)
	}

	var totalKeys int64
	var httBytes int64
	for _, d := range dbs {
		totalKeys += d.Keys
		httBytes += d.MainHTBytes + d.ExpiresHTBytes
	}

	overhead := startupBytes + httBytes + replBacklog + slaveBuf + clientBuf + aofBuf
	dataset := used - overhead
	if dataset < 0 {
		dataset = 0
	}
	netOfStartup := used - startupBytes
	datasetPct := 0.0
	if netOfStartup > 0 {
		datasetPct = 100 * float64(dataset) / float64(netOfStartup)
	}
	bytesPerKey := int64(0)
	if totalKeys > 0 {
		bytesPerKey = dataset / totalKeys
	}
	peakPct := 0.0
	if peakBytes > 0 {
		peakPct = 100 * float64(used) / float64(peakBytes)
	}

	return OverheadReport{
		UsedBytes:          used,
		StartupBytes:       startupBytes,
		PeakBytes:          peakBytes,
		FragmentationRatio: fragRatio,
		ReplBacklogBytes:   replBacklog,
		SlaveBufBytes:      slaveBuf,
		ClientBufBytes:     clientBuf,
		AOFBufBytes:        aofBuf,
		NumClients:         numClients,
		NumSlaves:          numSlaves,
		Databases:          dbs,
		OverheadTotal:      overhead,
		DatasetBytes:       dataset,
		DatasetPercent:     datasetPct,
		BytesPerKey:        bytesPerKey,
		PeakPercent:        peakPct,
	}
}

// MemoryDoctor evaluates the rule triggers of spec section 4.6 and
// returns the human-readable verdict, wording kept close to the
// source's getMemoryDoctorReport (object.c) since operators grep for
// these exact phrases in runbooks.
func MemoryDoctor(r OverheadReport) string {
	const fiveMiB = 5 << 20
	if r.UsedBytes < fiveMiB {
		return "Hi Sam, this instance is empty or is using very little memory, " +
			"my issues detector can't be used in these conditions. Please, fill " +
			"it with some data first.\n"
	}

	var notes []string
	if r.PeakBytes > 0 && float64(r.PeakBytes)/float64(r.UsedBytes) > 1.5 {
		notes = append(notes, "Peak memory: in the past this instance used more than 150% of the "+
			"memory it is currently using. This is usually harmless; try MEMORY PURGE if you want "+
			"to try reclaiming it, or restart the instance.")
	}
	if r.FragmentationRatio > 1.4 {
		notes = append(notes, fmt.Sprintf("High fragmentation: this instance has a memory "+
			"fragmentation ratio of %.2f, greater than 1.4.", r.FragmentationRatio))
	}
	if r.NumSlaves > 0 && r.SlaveBufBytes/r.NumSlaves > 10<<20 {
		notes = append(notes, "Big slave buffers: replica output buffers are greater than 10MB "+
			"per replica on average.")
	}
	if normalClients := r.NumClients - r.NumSlaves; normalClients > 0 && r.ClientBufBytes/normalClients > 200<<10 {
		notes = append(notes, "Big client buffers: client output buffers are greater than 200K "+
			"per client on average.")
	}

	if len(notes) == 0 {
		return "Hi Sam, I can't find any memory issue in your instance. I can only account for " +
			"what occurs on this base.\n"
	}
	out := "Sam, I detected a few issues in this Redis instance memory implants:\n\n"
	for _, n := range notes {
		out += " * " + n + "\n\n"
	}
	out += "I'm here to keep you safe, Sam. I want to help you.\n"
	return out
}
