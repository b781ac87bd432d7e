package backup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procdoc_snapshots_created_total",
		Help: "Snapshots created by form type.",
	}, []string{"form_type"})

	snapshotsPruned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procdoc_snapshots_pruned_total",
		Help: "Snapshots deleted by retention pruning, by form type.",
	}, []string{"form_type"})
)
