package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cassiama/ProjectLISA/internal"
)

func setupFileStorage(t *testing.T) *FileStorage {
	t.Helper()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	s, err := NewFileStorage(filepath.Join(t.TempDir(), "users.json"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUser(points int) *internal.User {
	return &internal.User{
		ID:          "u1",
		Token:       "tok-u1",
		FirstName:   "Areeb",
		LastName:    "Chaudhry",
		Email:       "areeb@example.com",
		TotalPoints: points,
		Devices:     []internal.Device{},
		CreatedAt:   time.Now(),
	}
}

func newTestDevice() *internal.Device {
	return &internal.Device{
		ID:           "d1",
		Owner:        "u1",
		SerialNumber: "fh938hr0rq0irih0rjrjs",
		Name:         "Lenovo ThinkPad X1 Carbon Gen 11",
		Goals: []internal.Goal{
			{Description: "Clean out inbox (Daily)", PointCap: 100, AccruedPoints: 0},
		},
		PreviousLog: internal.UsageLog{Baseline: true},
		CurrentLog:  internal.UsageLog{ScreenTimeMinutes: 120, NormalModeMinutes: 120},
		CreatedAt:   time.Now(),
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newTestUser(0)))

	dup := newTestUser(0)
	dup.ID = "u2"
	dup.Token = "tok-u2"
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, internal.ErrConflict)
}

func TestSubtractUserPointsIsStrict(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(10)))

	err := s.SubtractUserPoints(ctx, "u1", 25)
	assert.ErrorIs(t, err, internal.ErrInsufficientPoints)

	// The failed subtraction must leave the ledger unchanged.
	u, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, u.TotalPoints)

	require.NoError(t, s.SubtractUserPoints(ctx, "u1", 10))
	u, err = s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.TotalPoints)
}

func TestPenalizeUserPointsFloorsAtZero(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(1)))

	applied, err := s.PenalizeUserPoints(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	u, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, u.TotalPoints)
}

func TestRegisterDeviceEnforcesUniqueSerial(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(0)))
	require.NoError(t, s.RegisterDevice(ctx, newTestDevice()))

	exists, err := s.SerialNumberExists(ctx, "fh938hr0rq0irih0rjrjs")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := newTestDevice()
	dup.ID = "d2"
	err = s.RegisterDevice(ctx, dup)
	assert.ErrorIs(t, err, internal.ErrConflict)
}

func TestUpdateDeviceGoalPoints(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(0)))
	require.NoError(t, s.RegisterDevice(ctx, newTestDevice()))

	require.NoError(t, s.UpdateDeviceGoalPoints(ctx, "u1", "d1", "Clean out inbox (Daily)", 13))

	d, err := s.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 13, d.Goals[0].AccruedPoints)

	// An unknown goal description modifies nothing and reports a conflict.
	err = s.UpdateDeviceGoalPoints(ctx, "u1", "d1", "Shut Down when not in use (Daily)", 5)
	assert.ErrorIs(t, err, internal.ErrConflict)
}

func TestUpdateDeviceLogsRotates(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(0)))
	device := newTestDevice()
	require.NoError(t, s.RegisterDevice(ctx, device))

	next := internal.UsageLog{ScreenTimeMinutes: 300, EnergySaverModeMinutes: 300}
	require.NoError(t, s.UpdateDeviceLogs(ctx, "u1", "d1", next))

	d, err := s.GetDevice(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, device.CurrentLog, d.PreviousLog)
	assert.Equal(t, next, d.CurrentLog)
}

func TestRemoveDeviceFreesSerial(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, newTestUser(0)))
	require.NoError(t, s.RegisterDevice(ctx, newTestDevice()))

	require.NoError(t, s.RemoveDevice(ctx, "u1", "d1"))

	exists, err := s.SerialNumberExists(ctx, "fh938hr0rq0irih0rjrjs")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.GetDevice(ctx, "u1", "d1")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestTopUsersOrdering(t *testing.T) {
	s := setupFileStorage(t)
	ctx := context.Background()

	for i, points := range []int{100, 1150, 250} {
		u := newTestUser(points)
		u.ID = string(rune('a' + i))
		u.Token = "tok-" + u.ID
		u.Email = u.ID + "@example.com"
		require.NoError(t, s.CreateUser(ctx, u))
	}

	top, err := s.TopUsers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 1150, top[0].TotalPoints)
	assert.Equal(t, 250, top[1].TotalPoints)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := NewFileStorage(path, logger)
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(ctx, newTestUser(42)))
	require.NoError(t, s.RegisterDevice(ctx, newTestDevice()))
	require.NoError(t, s.Close())

	reopened, err := NewFileStorage(path, logger)
	require.NoError(t, err)
	defer reopened.Close()

	u, err := reopened.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, u.TotalPoints)
	require.Len(t, u.Devices, 1)
	assert.Equal(t, "d1", u.Devices[0].ID)
}
