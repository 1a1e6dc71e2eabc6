package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/pipeline"
)

var (
	rowsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1features_rows_emitted_total",
		Help: "Feature rows written, by split.",
	}, []string{"split"})
	rowsExcluded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1features_rows_excluded_total",
		Help: "Driver/race rows dropped because of malformed records.",
	})
	featuresImputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "f1features_features_imputed_total",
		Help: "Feature values filled by the imputation policy.",
	}, []string{"feature"})
	racesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1features_races_skipped_total",
		Help: "Races without usable results.",
	})
	runsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "f1features_runs_failed_total",
		Help: "Pipeline runs that ended in an error.",
	})
	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "f1features_run_duration_seconds",
		Help:    "Duration of a full load, assemble and write cycle.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	lastRunRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "f1features_last_run_rows",
		Help: "Rows in the most recent feature table.",
	})
)

func recordRun(m pipeline.Manifest) {
	for split, n := range m.RowsPerSplit {
		rowsEmitted.WithLabelValues(string(split)).Add(float64(n))
	}
	for _, per := range m.ImputedPerSplit {
		for f, n := range per {
			featuresImputed.WithLabelValues(string(f)).Add(float64(n))
		}
	}
	rowsExcluded.Add(float64(len(m.ExcludedRows)))
	racesSkipped.Add(float64(len(m.SkippedRaces)))
	lastRunRows.Set(float64(m.Rows))
}

func serveHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("metrics server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("metrics server failed: %v", err)
	}
}
