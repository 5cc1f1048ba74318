// Package memstat exposes the process's memory accounting (spec
// section 4.6's overheadReport) as Prometheus-format gauges via
// VictoriaMetrics/metrics, the metrics library the retrieval pack's
// ValentinKolb-dKV carries in its go.mod. The teacher repo has no
// metrics surface of its own; this package is new domain-stack
// wiring rather than an adaptation of existing teacher code (see
// DESIGN.md).
package memstat

import (
	"io"

	"github.com/VictoriaMetrics/metrics"

	"github.com/vobj/kvstore/core"
)

var (
	usedMemory     = metrics.NewGauge("vobj_used_memory_bytes", nil)
	fragmentation  = metrics.NewGauge("vobj_mem_fragmentation_ratio", nil)
	peakMemory     = metrics.NewGauge("vobj_used_memory_peak_bytes", nil)
	datasetBytes   = metrics.NewGauge("vobj_dataset_bytes", nil)
	bytesPerKey    = metrics.NewGauge("vobj_bytes_per_key", nil)
	keysGaugeSet   = metrics.NewSet()
	dbKeyGauges    = map[int]*metrics.Gauge{}
	lastDBKeyCount = map[int]float64{}
)

func init() {
	metrics.RegisterSet(keysGaugeSet)
}

// Observe snapshots an OverheadReport into the registered gauges.
// cmd/serve.go calls it on a periodic ticker with the same report
// MEMORY STATS builds (spec section 4.6/4.7); MEMORY STATS itself does
// not call it.
func Observe(r core.OverheadReport) {
	usedMemory.Set(float64(r.UsedBytes))
	fragmentation.Set(r.FragmentationRatio)
	peakMemory.Set(float64(r.PeakBytes))
	datasetBytes.Set(float64(r.DatasetBytes))
	bytesPerKey.Set(float64(r.BytesPerKey))

	for _, db := range r.Databases {
		g, ok := dbKeyGauges[db.ID]
		if !ok {
			id := db.ID
			g = keysGaugeSet.NewGauge(dbKeyMetricName(id), func() float64 { return lastDBKeyCount[id] })
			dbKeyGauges[id] = g
		}
		lastDBKeyCount[db.ID] = float64(db.Keys)
	}
}

func dbKeyMetricName(id int) string {
	return "vobj_db_keys{db=\"" + itoa(id) + "\"}"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// WritePrometheus renders every registered metric, default set plus
// this package's db-keys set, in Prometheus exposition format -- the
// surface an operator scrapes alongside MEMORY STATS.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
	keysGaugeSet.WritePrometheus(w)
}
