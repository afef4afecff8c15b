package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/storage"
	"github.com/cassiama/ProjectLISA/internal/telemetry"
)

// fixedGenerator always produces the same log, which keeps rotation
// deterministic in tests.
type fixedGenerator struct {
	log internal.UsageLog
}

func (g fixedGenerator) Next(prev internal.UsageLog) internal.UsageLog { return g.log }

type reconcileFixture struct {
	store      *storage.FileStorage
	reconciler *Reconciler
}

func newReconcileFixture(t *testing.T, creditLocalOnlyBelowCap bool) *reconcileFixture {
	t.Helper()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	store, err := storage.NewFileStorage(filepath.Join(t.TempDir(), "users.json"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &reconcileFixture{
		store: store,
		reconciler: &Reconciler{
			Users:                   store,
			Devices:                 store,
			Generator:               fixedGenerator{log: internal.UsageLog{ScreenTimeMinutes: 60, NormalModeMinutes: 60}},
			Logger:                  logger,
			CreditLocalOnlyBelowCap: creditLocalOnlyBelowCap,
		},
	}
}

func (f *reconcileFixture) seed(t *testing.T, totalPoints, accrued int, current internal.UsageLog) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.CreateUser(ctx, &internal.User{
		ID:          "u1",
		Token:       "tok-u1",
		Email:       "brennan@example.com",
		TotalPoints: totalPoints,
	}))
	require.NoError(t, f.store.RegisterDevice(ctx, &internal.Device{
		ID:           "d1",
		Owner:        "u1",
		SerialNumber: "sn-0001",
		Name:         "MacBook Air",
		Goals: []internal.Goal{
			{Description: "Shut Down when not in use (Daily)", PointCap: 100, AccruedPoints: accrued},
		},
		PreviousLog: telemetry.Baseline(),
		CurrentLog:  current,
	}))
}

func TestReconcileAwardsSmallSaving(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()

	// 30 minutes less idle time than the reference interval lands in the
	// lowest award tier: round(100/32) = 3 points.
	current := internal.UsageLog{IdleMinutes: -30}
	f.seed(t, 0, 0, current)

	sum := f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})
	assert.Equal(t, 1, sum.DevicesProcessed)
	assert.Equal(t, 1, sum.GoalsReconciled)
	assert.Equal(t, 3, sum.PointsAwarded)
	assert.Zero(t, sum.PointsPenalized)
	assert.Zero(t, sum.Errors)

	u, err := f.store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, u.TotalPoints)

	d, err := f.store.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Goals[0].AccruedPoints)
}

func TestReconcileRotatesLogs(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()

	current := internal.UsageLog{IdleMinutes: -30}
	f.seed(t, 0, 0, current)
	f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})

	d, err := f.store.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, current, d.PreviousLog)
	assert.Equal(t, internal.UsageLog{ScreenTimeMinutes: 60, NormalModeMinutes: 60}, d.CurrentLog)
}

func TestReconcilePenaltySkipsGoalLocalCounter(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()

	// More streaming than the reference interval drives the percentage
	// negative: penalty of round(100/64) = 2 points.
	f.seed(t, 10, 40, internal.UsageLog{StreamingMinutes: 100})

	sum := f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})
	assert.Equal(t, 2, sum.PointsPenalized)
	assert.Zero(t, sum.PointsAwarded)

	u, err := f.store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 8, u.TotalPoints)

	d, err := f.store.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 40, d.Goals[0].AccruedPoints)
}

func TestReconcilePenaltyFloorsAtZero(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()
	f.seed(t, 1, 0, internal.UsageLog{StreamingMinutes: 100})

	sum := f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})
	assert.Equal(t, 1, sum.PointsPenalized)

	u, err := f.store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, u.TotalPoints)
}

func TestReconcileCapOutCreditsGlobalOnly(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()

	// A huge charging delta puts the percentage past 50, so the award is
	// the remaining room to the cap: 100 - 60 = 40.
	f.seed(t, 0, 60, internal.UsageLog{ChargingTimeMinutes: 50000})

	sum := f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})
	assert.Equal(t, 40, sum.PointsAwarded)

	u, err := f.store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 40, u.TotalPoints)

	// The award reaches the cap, so the goal-local counter is skipped.
	d, err := f.store.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 60, d.Goals[0].AccruedPoints)
}

func TestReconcileCapOutCreditsLocalWhenFlagDisabled(t *testing.T) {
	f := newReconcileFixture(t, false)
	ctx := context.Background()
	f.seed(t, 0, 60, internal.UsageLog{ChargingTimeMinutes: 50000})

	f.reconciler.ReconcileUser(ctx, "u1", []string{"d1"})

	d, err := f.store.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 100, d.Goals[0].AccruedPoints)
}

func TestReconcileMissingDeviceIsCountedNotFatal(t *testing.T) {
	f := newReconcileFixture(t, true)
	ctx := context.Background()
	f.seed(t, 0, 0, internal.UsageLog{IdleMinutes: -30})

	sum := f.reconciler.ReconcileUser(ctx, "u1", []string{"missing", "d1"})
	assert.Equal(t, 1, sum.Errors)
	assert.Equal(t, 1, sum.DevicesProcessed)
	assert.Equal(t, 3, sum.PointsAwarded)
}
