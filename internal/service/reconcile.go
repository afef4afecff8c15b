package service

import (
	"context"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/metrics"
	"github.com/cassiama/ProjectLISA/internal/points"
	"github.com/cassiama/ProjectLISA/internal/storage"
	"github.com/cassiama/ProjectLISA/internal/telemetry"
)

// Reconciler scores each device's usage interval and settles reward points.
// The caller (the session-boundary trigger) passes user and device IDs
// explicitly and guarantees at most one pass per device at a time.
type Reconciler struct {
	Users     storage.UserRepository
	Devices   storage.DeviceRepository
	Generator telemetry.Generator
	Logger    internal.Logger
	// CreditLocalOnlyBelowCap pins the historical rule that the goal-local
	// counter is skipped when an award would reach the cap, even though the
	// global ledger is always credited. When false the goal-local credit is
	// capped at the remaining room instead.
	CreditLocalOnlyBelowCap bool
}

type ReconcileSummary struct {
	DevicesProcessed int `json:"devices_processed"`
	GoalsReconciled  int `json:"goals_reconciled"`
	PointsAwarded    int `json:"points_awarded"`
	PointsPenalized  int `json:"points_penalized"`
	Errors           int `json:"errors"`
}

// ReconcileUser runs one reconciliation pass over the given devices. The pass
// is best-effort: a failure on one goal or one device is logged and counted,
// never propagated, so awards already applied stand.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID string, deviceIDs []string) ReconcileSummary {
	var sum ReconcileSummary
	for _, deviceID := range deviceIDs {
		device, err := r.Devices.GetDevice(ctx, userID, deviceID)
		if err != nil {
			r.Logger.Errorf("reconcile: fetch device %s for user %s: %v", deviceID, userID, err)
			sum.Errors++
			continue
		}
		r.reconcileDevice(ctx, userID, device, &sum)
	}
	metrics.ReconcilePasses.Inc()
	r.Logger.Infof("reconcile: user %s: %d devices, %d goals, +%d/-%d points, %d errors",
		userID, sum.DevicesProcessed, sum.GoalsReconciled, sum.PointsAwarded, sum.PointsPenalized, sum.Errors)
	return sum
}

func (r *Reconciler) reconcileDevice(ctx context.Context, userID string, device *internal.Device, sum *ReconcileSummary) {
	est := telemetry.EstimateSavings(device.PreviousLog, device.CurrentLog)

	for _, goal := range device.Goals {
		sum.GoalsReconciled++
		if err := r.reconcileGoal(ctx, userID, device.ID, goal, est.PercentOfBaseline, sum); err != nil {
			r.Logger.Errorf("reconcile: goal %q on device %s: %v", goal.Description, device.ID, err)
			metrics.GoalWriteFailures.Inc()
			sum.Errors++
		}
	}

	// Rotate the interval: the scored current log becomes the previous log
	// and a fresh one is generated from it.
	next := r.Generator.Next(device.CurrentLog)
	if err := r.Devices.UpdateDeviceLogs(ctx, userID, device.ID, next); err != nil {
		r.Logger.Errorf("reconcile: rotate logs for device %s: %v", device.ID, err)
		sum.Errors++
	}

	sum.DevicesProcessed++
	metrics.DevicesReconciled.Inc()
}

func (r *Reconciler) reconcileGoal(ctx context.Context, userID, deviceID string, goal internal.Goal, percent float64, sum *ReconcileSummary) error {
	outcome := points.Reconcile(goal.PointCap, percent, goal.AccruedPoints)

	if outcome.Penalty {
		// Penalty hits the global ledger only, floored at zero. The
		// goal-local counter is never debited.
		applied, err := r.Users.PenalizeUserPoints(ctx, userID, outcome.PointDelta)
		if err != nil {
			return err
		}
		sum.PointsPenalized += applied
		metrics.PointsPenalized.Add(float64(applied))
		return nil
	}

	// The global ledger is credited before, and independently of, the
	// goal-local counter.
	if err := r.Users.AddUserPoints(ctx, userID, outcome.PointDelta); err != nil {
		return err
	}
	sum.PointsAwarded += outcome.PointDelta
	metrics.PointsAwarded.Add(float64(outcome.PointDelta))

	creditLocal := outcome.PointDelta
	if r.CreditLocalOnlyBelowCap {
		if goal.AccruedPoints+outcome.PointDelta >= goal.PointCap {
			creditLocal = 0
		}
	} else if room := goal.PointCap - goal.AccruedPoints; creditLocal > room {
		creditLocal = room
	}
	if creditLocal > 0 {
		if err := r.Devices.UpdateDeviceGoalPoints(ctx, userID, deviceID, goal.Description, creditLocal); err != nil {
			return err
		}
	}
	return nil
}
