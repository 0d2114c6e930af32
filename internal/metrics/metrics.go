// Package metrics exposes Prometheus counters for the expense engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ExpensesCreated counts successfully created expenses.
var ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "splitboard_expenses_created_total",
	Help: "Number of expenses created",
})

// SplitRecomputes counts full split replacements, by split type.
var SplitRecomputes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "splitboard_split_recomputes_total",
	Help: "Number of times an expense's splits were recomputed and replaced",
}, []string{"split_type"})

// ValidationFailures counts rejected create/update requests.
var ValidationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "splitboard_validation_failures_total",
	Help: "Number of expense operations rejected with a validation error",
})

// BalanceQueries counts board balance computations.
var BalanceQueries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "splitboard_balance_queries_total",
	Help: "Number of board balance aggregations served",
})
