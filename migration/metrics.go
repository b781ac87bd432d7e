package migration

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// Migration outcomes, used as metric label values.
const (
	outcomeSuccess      = "success"
	outcomeInvalid      = "invalid"
	outcomeBackupError  = "backup_error"
	outcomePersistError = "persist_error"
	outcomeUnknownForm  = "unknown_form"
	outcomePanic        = "panic"
)

var (
	migrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procdoc_migrations_total",
		Help: "Migration attempts by form type and outcome.",
	}, []string{"form_type", "outcome"})

	rollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procdoc_rollbacks_total",
		Help: "Rollback attempts by outcome.",
	}, []string{"outcome"})
)

func observeMigration(formType schema.FormType, outcome string) {
	migrationsTotal.WithLabelValues(string(formType), outcome).Inc()
}

func observeRollback(ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	rollbacksTotal.WithLabelValues(outcome).Inc()
}
