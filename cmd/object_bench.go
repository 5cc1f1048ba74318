package cmd

import (
	"fmt"

	"github.com/vobj/kvstore/core"

	"github.com/spf13/cobra"
)

var objectBenchCount int

// ObjectBenchCmd drives the value layer directly, without a server
// loop, reporting the encoding each constructor chose and its
// estimated footprint -- a quick way to see tryObjectEncoding's
// promotion/demotion decisions and SizeOf's output for a range of
// inputs without standing up a client.
var ObjectBenchCmd = &cobra.Command{
	Use:   "object-bench",
	Short: "construct sample values and report their encoding and estimated size",
	RunE:  runObjectBench,
}

func init() {
	ObjectBenchCmd.Flags().IntVar(&objectBenchCount, "count", 16, "number of sample string values to construct")
	RootCmd.AddCommand(ObjectBenchCmd)
}

func runObjectBench(cmd *cobra.Command, args []string) error {
	core.InitSharedObjects()

	samples := [][]byte{
		[]byte("0"),
		[]byte("42"),
		[]byte("-17"),
		[]byte("short string"),
		[]byte("exactly at the forty-four byte embstr limit!"),
	}
	for i := 0; i < objectBenchCount; i++ {
		samples = append(samples, []byte(fmt.Sprintf("generated-sample-value-%04d", i)))
	}

	fmt.Printf("%-56s %-10s %-8s %s\n", "value", "encoding", "bytes", "refcount")
	for _, s := range samples {
		v := core.TryEncode(core.MakeString(s))
		size := core.SizeOf(v, core.ComputeSizeDefSamples)
		fmt.Printf("%-56q %-10s %-8d %d\n", truncate(s, 48), v.Encoding().Name(), size, v.RefCount())
		core.Decr(v)
	}

	aggregates := []*core.Value{
		core.CreateList(),
		core.CreateSet(),
		core.CreateHash(),
		core.CreateSortedSet(),
	}
	fmt.Println()
	fmt.Printf("%-20s %-10s %s\n", "kind", "encoding", "bytes (empty)")
	for _, v := range aggregates {
		fmt.Printf("%-20s %-10s %d\n", v.Kind().String(), v.Encoding().Name(), core.SizeOf(v, core.ComputeSizeDefSamples))
		core.Decr(v)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
