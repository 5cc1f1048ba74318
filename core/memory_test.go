package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeOfIntIsJustTheHeader(t *testing.T) {
	v := MakeFromInt(123456789) // outside the shared range
	assert.Equal(t, headerSize, SizeOf(v, 5))
}

func TestSizeOfGrowsWithPayloadLength(t *testing.T) {
	small := MakeRaw([]byte("a"))
	big := MakeRaw([]byte(strings.Repeat("a", 1000)))
	assert.Greater(t, SizeOf(big, 5), SizeOf(small, 5))
}

func TestSizeOfEmptyAggregatesIsJustStructOverhead(t *testing.T) {
	const emptyZipListBlob, emptyIntSetBlob = int64(4), int64(8)
	tests := []struct {
		v    *Value
		want int64
	}{
		{CreateList(), headerSize + emptyZipListBlob},
		{CreateSet(), headerSize + hashtableStructSize},
		{CreateIntSet(), headerSize + emptyIntSetBlob},
		{CreateHash(), headerSize + emptyZipListBlob},
		{CreateHashTable(), headerSize + hashtableStructSize},
		{CreateSortedSet(), headerSize + emptyZipListBlob},
		{CreateSortedSetSkipList(), headerSize + zsetStructSize},
	}
	for _, tt := range tests {
		v := tt.v
		t.Run(v.Kind().String()+"/"+v.Encoding().Name(), func(t *testing.T) {
			assert.Positive(t, SizeOf(v, 5))
			assert.Equal(t, tt.want, SizeOf(v, 5))
		})
	}
}

func TestSizeOfDelegatesToModuleType(t *testing.T) {
	typ := &ModuleType{
		Name:        "test",
		Free:        func(interface{}) {},
		MemoryUsage: func(interface{}) int64 { return 4096 },
	}
	v := CreateModule(typ, "opaque payload")
	assert.Equal(t, int64(4096), SizeOf(v, 5))
}

func TestFreePayloadCallsModuleFree(t *testing.T) {
	freed := false
	typ := &ModuleType{
		Name:        "test",
		Free:        func(interface{}) { freed = true },
		MemoryUsage: func(interface{}) int64 { return 0 },
	}
	v := CreateModule(typ, "opaque payload")
	decr(v)
	assert.True(t, freed)
	assert.Nil(t, v.Payload)
}

func TestMemoryDoctorReportsEmptyInstanceBelowFiveMiB(t *testing.T) {
	report := OverheadReport{UsedBytes: 1024}
	got := MemoryDoctor(report)
	assert.Contains(t, got, "very little memory")
}

func TestMemoryDoctorFlagsHighFragmentation(t *testing.T) {
	report := OverheadReport{
		UsedBytes:          10 << 20,
		FragmentationRatio: 2.0,
	}
	got := MemoryDoctor(report)
	assert.Contains(t, got, "High fragmentation")
}

func TestMemoryDoctorCleanBillOfHealth(t *testing.T) {
	report := OverheadReport{
		UsedBytes:          10 << 20,
		FragmentationRatio: 1.0,
	}
	got := MemoryDoctor(report)
	assert.Contains(t, got, "can't find any memory issue")
}

func TestBuildOverheadReportComputesBytesPerKey(t *testing.T) {
	MarkStartup()
	dbs := []DatabaseOverhead{{ID: 0, Keys: 10}}
	r := BuildOverheadReport(dbs, 0, 0, 0, 0, 0, 0)
	assert.Equal(t, int64(10), r.Databases[0].Keys)
	assert.Equal(t, r.DatasetBytes/10, r.BytesPerKey)
	assert.GreaterOrEqual(t, r.PeakBytes, r.UsedBytes, "peak must never be reported below current usage")
}
