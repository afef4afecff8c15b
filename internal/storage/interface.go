package storage

import (
	"context"

	"github.com/cassiama/ProjectLISA/internal"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUser(ctx context.Context, userID string) (*internal.User, error)
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	// AddUserPoints credits the global ledger unconditionally.
	AddUserPoints(ctx context.Context, userID string, delta int) error
	// SubtractUserPoints debits the global ledger and fails with
	// internal.ErrInsufficientPoints, leaving the ledger unchanged, when the
	// balance is too low. This is the redemption path.
	SubtractUserPoints(ctx context.Context, userID string, n int) error
	// PenalizeUserPoints debits the global ledger flooring at zero and
	// returns the amount actually applied. This is the penalty path.
	PenalizeUserPoints(ctx context.Context, userID string, n int) (int, error)
	TopUsers(ctx context.Context, limit int) ([]internal.User, error)
}

type DeviceRepository interface {
	RegisterDevice(ctx context.Context, device *internal.Device) error
	GetDevice(ctx context.Context, userID, deviceID string) (*internal.Device, error)
	ListDevices(ctx context.Context, userID string) ([]internal.Device, error)
	RemoveDevice(ctx context.Context, userID, deviceID string) error
	// ReplaceDeviceGoals swaps the device's goal list wholesale.
	ReplaceDeviceGoals(ctx context.Context, userID, deviceID string, goals []internal.Goal) error
	// UpdateDeviceGoalPoints adds delta to one goal's accrued points and
	// fails with internal.ErrConflict when no matching goal was modified.
	UpdateDeviceGoalPoints(ctx context.Context, userID, deviceID, description string, delta int) error
	// UpdateDeviceLogs rotates previous <- current and installs newCurrent.
	UpdateDeviceLogs(ctx context.Context, userID, deviceID string, newCurrent internal.UsageLog) error
	SerialNumberExists(ctx context.Context, serial string) (bool, error)
}
