package cmd

import (
	"log"
	"net/http"
	"time"

	"github.com/vobj/kvstore/config"
	"github.com/vobj/kvstore/core"
	"github.com/vobj/kvstore/memstat"
	"github.com/vobj/kvstore/server"

	"github.com/spf13/cobra"
)

var ServeCmd = &cobra.Command{
	Use:     "serve",
	Short:   "start the vobj server",
	PreRunE: func(cmd *cobra.Command, args []string) error { config.Load(); return nil },
	RunE:    runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("starting vobj server on", config.Host, config.Port, "policy", config.EvictionPolicyFlag)

	core.InitSharedObjects()

	if err := core.LoadAOF(); err != nil {
		log.Println("error loading AOF file:", err)
	}
	if err := core.InitAOF(); err != nil {
		log.Println("error opening AOF file:", err)
	}
	defer core.CloseAOF()

	if config.MetricsAddr != "" {
		go runMetricsServer(config.MetricsAddr)
		go observeMemoryPeriodically(5 * time.Second)
	}

	return server.RunAsyncTCPServer()
}

// observeMemoryPeriodically feeds the same overhead report MEMORY
// STATS/DOCTOR compute into the Prometheus gauges memstat exposes, so
// a scraper sees the server's memory posture without issuing MEMORY
// commands itself.
func observeMemoryPeriodically(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		memstat.Observe(core.CurrentOverheadReport())
	}
}

func runMetricsServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		memstat.WritePrometheus(w)
	})
	log.Println("serving metrics on", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Println("metrics server stopped:", err)
	}
}
