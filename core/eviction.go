package core

import (
	"log"

	"github.com/vobj/kvstore/config"
)

// evict samples up to evictionSampleSize live keys and removes
// candidates by the configured maxmemory-policy: one victim for the
// LRU/LFU policies, and for allkeys-random up to config.EvictionRatio
// of the live key count, capped by the sample size (spec section
// 5's "external collaborator" eviction mechanics; this repo only
// carries the two evictionMeta bits the policy reads, per spec
// section 1's non-goals). Grounded on the teacher's evict() dispatch,
// generalized from the teacher's allkeys-lru/allkeys-lfu/simple-first
// trio to the full policy set config.go exposes.
func evict() {
	switch config.EvictionPolicyFlag {
	case config.PolicyNoEviction:
		return
	case config.PolicyAllKeysLRU, config.PolicyVolatileLRU:
		evictByIdle(config.EvictionPolicyFlag == config.PolicyVolatileLRU)
	case config.PolicyAllKeysLFU, config.PolicyVolatileLFU:
		evictByFrequency(config.EvictionPolicyFlag == config.PolicyVolatileLFU)
	case config.PolicyAllKeysRand:
		evictRandom()
	case config.PolicySimpleFirst:
		evictFirst()
	default:
		evictRandom()
	}
}

const evictionSampleSize = 5

// sampleKeys walks up to evictionSampleSize live keys, matching the
// bounded-sample contract spec section 4.6 holds the memory estimator
// to; eviction victim selection gets the same latency budget.
func sampleKeys(volatileOnly bool) []string {
	keys := make([]string, 0, evictionSampleSize)
	Range(func(k string, v *Value) bool {
		if volatileOnly && TTLMillis(k) == -1 {
			return true
		}
		keys = append(keys, k)
		return len(keys) < evictionSampleSize
	})
	return keys
}

func evictFirst() {
	Range(func(k string, v *Value) bool {
		log.Println("evicting key", k, "policy", config.EvictionPolicyFlag)
		Del(k)
		return false
	})
}

func evictRandom() {
	evictCount := int(config.EvictionRatio * float64(Len()))
	if evictCount < 1 {
		evictCount = 1
	}
	keys := sampleKeys(false)
	for i, k := range keys {
		if i >= evictCount {
			break
		}
		log.Println("evicting key", k, "policy", config.EvictionPolicyFlag)
		Del(k)
	}
}

// evictByIdle picks the sampled key with the largest idleSeconds, i.e.
// least recently used, mirroring the source's approximated-LRU
// sampling approach.
func evictByIdle(volatileOnly bool) {
	keys := sampleKeys(volatileOnly)
	var victim string
	var maxIdle int64 = -1
	for _, k := range keys {
		v := Peek(k)
		if v == nil {
			continue
		}
		if idle := idleSeconds(v); idle > maxIdle {
			maxIdle, victim = idle, k
		}
	}
	if victim != "" {
		log.Println("evicting key", victim, "idle seconds", maxIdle, "policy", config.EvictionPolicyFlag)
		Del(victim)
	}
}

// evictByFrequency picks the sampled key with the lowest decayed
// frequency counter, grounded on the teacher's evictLFU.
func evictByFrequency(volatileOnly bool) {
	keys := sampleKeys(volatileOnly)
	var victim string
	minFreq := uint8(255)
	found := false
	for _, k := range keys {
		v := Peek(k)
		if v == nil {
			continue
		}
		if f := freqCounter(v); !found || f < minFreq {
			minFreq, victim, found = f, k, true
		}
	}
	if victim != "" {
		log.Println("evicting key", victim, "frequency", minFreq, "policy", config.EvictionPolicyFlag)
		Del(victim)
	}
}
