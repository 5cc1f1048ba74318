// Package cmd is the cobra command tree, grounded on the pack's
// ValentinKolb-dKV/cmd root (persistent flags bound through viper,
// cobra.OnInitialize wiring env vars) rather than the teacher's bare
// flag.StringVar setup.
package cmd

import (
	"fmt"
	"os"

	"github.com/vobj/kvstore/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const Version = "0.1.0"

var RootCmd = &cobra.Command{
	Use:   "vobj",
	Short: "in-memory key-value server with polymorphic value objects",
	Long: fmt.Sprintf(`vobj (v%s)

A small RESP key-value server whose values are wrapped in a
polymorphic object layer: strings get raw/embstr/int encodings,
aggregates get compact-vs-full encodings, and OBJECT/MEMORY expose
per-key and per-instance memory accounting.`, Version),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vobj v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(config.InitEnv)

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(versionCmd)

	RootCmd.PersistentFlags().String("host", "0.0.0.0", "bind address")
	RootCmd.PersistentFlags().Int("port", 7379, "bind port")
	RootCmd.PersistentFlags().Int("max-keys", 100000, "maximum live keys before eviction kicks in")
	RootCmd.PersistentFlags().String("maxmemory-policy", "allkeys-random",
		"noeviction|allkeys-lru|allkeys-lfu|volatile-lru|volatile-lfu|allkeys-random|simple-first")
	RootCmd.PersistentFlags().Int64("maxmemory", 0, "soft memory cap in bytes, 0 disables")
	RootCmd.PersistentFlags().Float64("eviction-ratio", 0.4, "fraction of live keys allkeys-random evicts per sweep, capped by the eviction sample size")
	RootCmd.PersistentFlags().Bool("no-shared-integers", false, "disable the shared small-integer registry")
	RootCmd.PersistentFlags().Int("memory-samples", 5, "default sample budget for MEMORY USAGE / sizeOf")
	RootCmd.PersistentFlags().String("aof-path", "./vobj.aof", "append-only file path")
	RootCmd.PersistentFlags().String("aof-fsync", "always", "always|everysec|no")
	RootCmd.PersistentFlags().Int("lfu-decay-time", 1, "minutes per LFU decay step")
	RootCmd.PersistentFlags().Float64("lfu-log-base", 10, "LFU logarithmic counter base")
	RootCmd.PersistentFlags().String("metrics-addr", "", "bind address for the Prometheus /metrics endpoint, empty disables it")

	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// Execute runs the command tree. Called by main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
