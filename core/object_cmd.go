package core

import (
	"errors"
	"strings"

	"github.com/vobj/kvstore/config"
)

var (
	errLFUNotSelected = errors.New("ERR An LFU maxmemory policy is not selected, access frequency not tracked. " +
		"Please note that when switching between maxmemory policies at runtime LFU and LRU data will take some time to adjust.")
	errLRUNotSelected = errors.New("ERR An LRU maxmemory policy is not selected, access time not tracked. " +
		"Please note that when switching between maxmemory policies at runtime LFU and LRU data will take some time to adjust.")
)

var objectHelp = []string{
	"OBJECT <subcommand> [<arg> [value] [opt] ...]. Subcommands are:",
	"REFCOUNT <key>",
	"    Return the number of references of the value associated with the specified key.",
	"ENCODING <key>",
	"    Return the kind of internal representation used in order to store the value associated with a key.",
	"IDLETIME <key>",
	"    Return the idle time of the key, that is the approximated number of seconds elapsed since the last access to the key.",
	"FREQ <key>",
	"    Return the access frequency index of the key. The returned integer is proportional to the logarithm of the real access frequency.",
	"HELP",
	"    Print this help.",
}

// ObjectCommand dispatches the OBJECT subcommand grammar of spec
// section 4.7. It returns the value to hand the reply writer (a
// string, int64, []string, error, or nil) exactly as eval.go's other
// handlers do, rather than writing to the connection itself, so its
// subcommand logic is testable without a fake net.Conn.
func ObjectCommand(args []string) interface{} {
	if len(args) < 1 {
		return errors.New("ERR wrong number of arguments for 'object' command")
	}
	sub := strings.ToUpper(args[0])

	if sub == "HELP" {
		return objectHelp
	}

	if len(args) != 2 {
		return errors.New("ERR wrong number of arguments for 'object|" + strings.ToLower(sub) + "' command")
	}
	key := args[1]
	v := Get(key)
	if v == nil {
		return nil
	}

	switch sub {
	case "REFCOUNT":
		if v.RefCount() == Shared {
			return int64(2147483647)
		}
		return v.RefCount()
	case "ENCODING":
		return v.Encoding().Name()
	case "IDLETIME":
		if config.EvictionPolicyFlag.IsLFU() {
			return errLRUNotSelected
		}
		return idleSeconds(v)
	case "FREQ":
		if !config.EvictionPolicyFlag.IsLFU() {
			return errLFUNotSelected
		}
		return int64(freqCounter(v))
	default:
		return errors.New("ERR Unknown subcommand or wrong number of arguments for '" + args[0] + "'. Try OBJECT HELP.")
	}
}
