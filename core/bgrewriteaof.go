package core

import (
	"log"
	"os"
	"sync/atomic"

	"github.com/vobj/kvstore/config"
)

var rewriteInProgress atomic.Bool

// snapshotStore copies every live key's value reference under the
// store's own lock-free Range walk; background rewriting reads from
// this snapshot, never the live map, matching the single-writer
// discipline of spec section 5 (background threads only ever hold
// references handed to them, never mutate them).
func snapshotStore() map[string]*Value {
	snapshot := make(map[string]*Value, Len())
	Range(func(k string, v *Value) bool {
		snapshot[k] = Incr(v)
		return true
	})
	return snapshot
}

// BGRewriteAOF compacts the append-only file to one SET per live key,
// grounded on the teacher's own bgrewriteaof.go. The rewrite runs on
// a background goroutine holding only the references snapshotStore
// handed it, decref-ing each when done (spec section 5's background-
// thread contract: they only ever call decr, on values already proven
// unreachable from the main thread once the goroutine holds its own
// incr'd reference).
func BGRewriteAOF() {
	if !rewriteInProgress.CompareAndSwap(false, true) {
		return
	}
	log.Println("rewriting AOF file at", config.AOFFilePath)

	snapShot := snapshotStore()
	go func() {
		defer rewriteInProgress.Store(false)
		defer func() {
			for _, v := range snapShot {
				Decr(v)
			}
		}()

		tempFilePath := config.AOFFilePath + ".tmp"
		fp, err := os.OpenFile(tempFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			log.Println("error in AOF", err)
			return
		}
		for k, v := range snapShot {
			dumpKey(fp, k, v)
		}
		fp.Close()
		os.Rename(tempFilePath, config.AOFFilePath)
	}()
}
