// Package config holds the process-wide flags this repo's value layer
// reads unlocked on every construction/access (spec section 9's Open
// Question: maxmemory_policy reconfiguration is a rare, pause-the-world
// operation, so there is no lock here by design).
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EvictionPolicy selects how Value.evictionMeta is interpreted (spec
// section 3).
type EvictionPolicy string

const (
	PolicyNoEviction  EvictionPolicy = "noeviction"
	PolicyAllKeysLRU  EvictionPolicy = "allkeys-lru"
	PolicyAllKeysLFU  EvictionPolicy = "allkeys-lfu"
	PolicyVolatileLRU EvictionPolicy = "volatile-lru"
	PolicyVolatileLFU EvictionPolicy = "volatile-lfu"
	PolicyAllKeysRand EvictionPolicy = "allkeys-random"
	PolicySimpleFirst EvictionPolicy = "simple-first"
)

// IsLFU reports whether p interprets evictionMeta as a frequency
// counter rather than an access-recency clock.
func (p EvictionPolicy) IsLFU() bool {
	return p == PolicyAllKeysLFU || p == PolicyVolatileLFU
}

var (
	Host               = "0.0.0.0"
	Port               = 7379
	MaxKeys            = 100000
	LFUDecayTime       = 1
	LFULogBase         = 10.0
	AOFFilePath        = "./vobj.aof"
	BGRewriteAOFPeriod = 100 * time.Second
	AOFSyncPolicy      = "always"
	EvictionPolicyFlag = PolicyAllKeysRand
	EvictionRatio      = 0.4
	MaxMemoryBytes     int64
	SharedIntegers     = true
	ComputeSizeSamples = 5
	MetricsAddr        = ""
)

// Load binds the flags cobra registered via viper, the same
// bind-then-read shape as the pack's ValentinKolb-dKV serve command
// (cmd/serve/root.go's processConfig).
func Load() {
	Host = viper.GetString("host")
	Port = viper.GetInt("port")
	MaxKeys = viper.GetInt("max-keys")
	LFUDecayTime = viper.GetInt("lfu-decay-time")
	LFULogBase = viper.GetFloat64("lfu-log-base")
	AOFFilePath = viper.GetString("aof-path")
	AOFSyncPolicy = viper.GetString("aof-fsync")
	EvictionPolicyFlag = EvictionPolicy(viper.GetString("maxmemory-policy"))
	EvictionRatio = viper.GetFloat64("eviction-ratio")
	MaxMemoryBytes = viper.GetInt64("maxmemory")
	SharedIntegers = !viper.GetBool("no-shared-integers")
	ComputeSizeSamples = viper.GetInt("memory-samples")
	MetricsAddr = viper.GetString("metrics-addr")
}

// InitEnv wires VOBJ_-prefixed environment variables over the bound
// flags, the same pattern the pack's serve command uses for its own
// prefix.
func InitEnv() {
	viper.SetEnvPrefix("vobj")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
