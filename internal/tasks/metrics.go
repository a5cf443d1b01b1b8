package tasks

import "github.com/prometheus/client_golang/prometheus"

var (
	storeMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dayboard_store_mutations_total",
			Help: "Store mutations by operation and outcome",
		},
		[]string{"op", "result"},
	)

	storeTasks = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dayboard_tasks",
			Help: "Tasks currently on the board per day",
		},
		[]string{"day"},
	)

	storeHydrateFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dayboard_store_hydrate_failures_total",
			Help: "Stored values that could not be decoded at startup",
		},
	)
)

func init() {
	prometheus.MustRegister(storeMutationsTotal, storeTasks, storeHydrateFailures)
}

const (
	resultApplied = "applied"
	resultNoop    = "noop"
	resultError   = "error"
)
