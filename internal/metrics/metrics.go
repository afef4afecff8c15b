// Package metrics exposes Prometheus counters for the reconciliation engine
// and the points ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconcilePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_reconcile_passes_total",
		Help: "Per-user reconciliation passes executed.",
	})
	DevicesReconciled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_devices_reconciled_total",
		Help: "Devices scored and rotated across all passes.",
	})
	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_points_awarded_total",
		Help: "Points credited to user ledgers by the reconciliation engine.",
	})
	PointsPenalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_points_penalized_total",
		Help: "Points deducted from user ledgers on the penalty path.",
	})
	GoalWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_goal_write_failures_total",
		Help: "Per-goal persistence failures skipped by the best-effort pass.",
	})
	PointsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lisa_points_redeemed_total",
		Help: "Points spent through the reward redemption endpoint.",
	})
)
