package core

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vobj/kvstore/config"
)

var memoryHelp = []string{
	"MEMORY <subcommand> [<arg> [value] [opt] ...]. Subcommands are:",
	"USAGE <key> [SAMPLES <count>]",
	"    Return memory in bytes used by <key> and its value.",
	"STATS",
	"    Return information about the memory usage of the server.",
	"DOCTOR",
	"    Return memory problems reports.",
	"PURGE",
	"    Ask the allocator to release memory.",
	"MALLOC-STATS",
	"    Return internal statistics report from the memory allocator.",
	"HELP",
	"    Print this help.",
}

// hashtableEntryBookkeeping is the "one hashtable entry" overhead
// MEMORY USAGE adds on top of sizeOf: the main keyspace dict entry
// that would not exist if the key itself did not (spec section 4.7).
const hashtableEntryBookkeeping = int64(hashtableEntryStruct)

// MemoryCommand dispatches the MEMORY subcommand grammar of spec
// section 4.7, returning a value for eval.go's reply-writer glue
// (string, int64, []string, []interface{}, error, or nil) the same
// way ObjectCommand does.
func MemoryCommand(args []string) interface{} {
	if len(args) < 1 {
		return errors.New("ERR wrong number of arguments for 'memory' command")
	}
	sub := strings.ToUpper(args[0])

	switch sub {
	case "HELP":
		return memoryHelp
	case "USAGE":
		return memoryUsage(args[1:])
	case "STATS":
		return memoryStats()
	case "DOCTOR":
		return MemoryDoctor(CurrentOverheadReport())
	case "PURGE":
		return "OK"
	case "MALLOC-STATS":
		return "Go runtime allocator: no internal statistics dump is exposed; see MEMORY STATS."
	default:
		return errors.New("ERR Unknown subcommand or wrong number of arguments for '" + args[0] + "'. Try MEMORY HELP.")
	}
}

func memoryUsage(args []string) interface{} {
	if len(args) < 1 {
		return errors.New("ERR wrong number of arguments for 'memory|usage' command")
	}
	key := args[0]
	samples := config.ComputeSizeSamples
	if len(args) > 1 {
		if len(args) != 3 || !strings.EqualFold(args[1], "SAMPLES") {
			return errors.New("ERR syntax error")
		}
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			return errors.New("ERR value is not an integer or out of range")
		}
		samples = n
	}

	v := Get(key)
	if v == nil {
		return nil
	}
	return SizeOf(v, samples) + int64(len(key)) + hashtableEntryBookkeeping
}

// CurrentOverheadReport assembles the single-database report this
// repo reports today; the store package owns the only database this
// instance has (spec section 1 scopes the multi-database keyspace out
// of this layer). Exported so memstat can snapshot the same report
// MEMORY STATS/DOCTOR compute, for its periodic Prometheus scrape.
func CurrentOverheadReport() OverheadReport {
	dbs := []DatabaseOverhead{{
		ID:             0,
		MainHTBytes:    MainHashTableBytes(),
		ExpiresHTBytes: 0,
		Keys:           int64(Len()),
	}}
	return BuildOverheadReport(dbs, 0, 0, 0, 0, 0, 0)
}

func memoryStats() []interface{} {
	r := CurrentOverheadReport()
	out := []interface{}{
		"peak.allocated", r.PeakBytes,
		"total.allocated", r.UsedBytes,
		"startup.allocated", r.StartupBytes,
		"replication.backlog", r.ReplBacklogBytes,
		"clients.slaves", r.SlaveBufBytes,
		"clients.normal", r.ClientBufBytes,
		"aof.buffer", r.AOFBufBytes,
		"overhead.total", r.OverheadTotal,
		"keys.count", int64(Len()),
		"dataset.bytes", r.DatasetBytes,
		"dataset.percentage", r.DatasetPercent,
		"bytes.per.key", r.BytesPerKey,
		"peak.percentage", r.PeakPercent,
		"fragmentation", r.FragmentationRatio,
	}
	for _, db := range r.Databases {
		out = append(out, "db."+strconv.Itoa(db.ID),
			[]interface{}{
				"overhead.hashtable.main", db.MainHTBytes,
				"overhead.hashtable.expires", db.ExpiresHTBytes,
				"keys.count", db.Keys,
			})
	}
	return out
}
