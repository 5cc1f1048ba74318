package core

import (
	"math/rand"
	"time"

	"github.com/vobj/kvstore/config"
)

// evictionMeta packs 24 bits interpreted per config.EvictionPolicyFlag
// (spec section 3): LRU mode stores a wrapping seconds clock reading;
// LFU mode stores a minute-granularity timestamp in the high 16 bits
// and a logarithmic frequency counter in the low 8, generalizing the
// teacher's separate Obj.LastDecayedAt/LfuLogWeight fields into the
// single packed field the spec calls for.
const evictionMetaMask = 0x00FFFFFF

// lruClock returns the coarse monotonic seconds reading used in LRU
// mode, wrapping at 24 bits like the source's server.lruclock.
func lruClock() uint32 {
	return uint32(time.Now().Unix()) & evictionMetaMask
}

func newEvictionMeta() uint32 {
	if config.EvictionPolicyFlag.IsLFU() {
		return packLFU(lfuMinuteClock(), LFUInit)
	}
	return lruClock()
}

func lfuMinuteClock() uint16 {
	return uint16((time.Now().Unix() / 60) & 0xFFFF)
}

func packLFU(minuteTS uint16, counter uint8) uint32 {
	return (uint32(minuteTS) << 8) | uint32(counter)
}

func unpackLFU(meta uint32) (minuteTS uint16, counter uint8) {
	return uint16((meta >> 8) & 0xFFFF), uint8(meta & 0xFF)
}

// touchAccess updates v's evictionMeta on every read/write, the way the
// teacher's store.Get/Put call decayWeight then incrementLfuLogWeight.
func touchAccess(v *Value) {
	if v.refCount == Shared {
		return
	}
	if config.EvictionPolicyFlag.IsLFU() {
		v.evictionMeta = lfuLogIncr(lfuDecay(v.evictionMeta))
		return
	}
	v.evictionMeta = lruClock()
}

// lfuDecay ages the frequency counter down based on elapsed minutes,
// grounded on the teacher's decayWeight but operating on the packed
// field instead of two struct fields.
func lfuDecay(meta uint32) uint32 {
	minuteTS, counter := unpackLFU(meta)
	now := lfuMinuteClock()
	elapsed := now - minuteTS // wrapping subtraction, matches teacher
	periods := elapsed / uint16(config.LFUDecayTime)
	if periods == 0 {
		return meta
	}
	if uint16(counter) > periods {
		counter -= uint8(periods)
	} else {
		counter = 0
	}
	return packLFU(now, counter)
}

// lfuLogIncr probabilistically increments the counter, grounded on the
// teacher's incrementLfuLogWeight: the increment probability shrinks as
// the counter grows, approximating a logarithmic counter in 8 bits.
func lfuLogIncr(meta uint32) uint32 {
	minuteTS, counter := unpackLFU(meta)
	if counter == 255 {
		return meta
	}
	baseVal := float64(counter) - LFUInit
	if baseVal < 0 {
		baseVal = 0
	}
	probability := 1.0 / (baseVal*config.LFULogBase + 1)
	if rand.Float64() < probability {
		counter++
	}
	return packLFU(minuteTS, counter)
}

// idleSeconds returns seconds since last access under LRU mode.
func idleSeconds(v *Value) int64 {
	now := lruClock()
	meta := v.evictionMeta
	if now >= meta {
		return int64(now - meta)
	}
	// clock wrapped past 24 bits.
	return int64((evictionMetaMask + 1 - meta) + now)
}

// freqCounter returns the decayed logarithmic counter under LFU mode,
// without mutating v (OBJECT FREQ is read-only per spec section 4.7).
func freqCounter(v *Value) uint8 {
	_, counter := unpackLFU(lfuDecay(v.evictionMeta))
	return counter
}
