package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/catalog"
	"github.com/cassiama/ProjectLISA/internal/storage"
	"github.com/cassiama/ProjectLISA/internal/telemetry"
)

type DeviceRequest struct {
	SerialNumber string   `json:"serial_number" validate:"required,alphanum"`
	Name         string   `json:"name" validate:"required"`
	Goals        []string `json:"goals" validate:"required,min=1,dive,required"`
}

func ValidateDeviceRequest(req *DeviceRequest) error {
	return validate.Struct(req)
}

type GoalEditRequest struct {
	Goals []string `json:"goals" validate:"required,min=1,dive,required"`
}

func ValidateGoalEditRequest(req *GoalEditRequest) error {
	return validate.Struct(req)
}

// RegisterDevice attaches a new device to a user with a baseline previous log
// and a freshly generated current log. Goal point caps are resolved from the
// catalog once, here; unknown descriptions get a zero cap.
func RegisterDevice(ctx context.Context, devices storage.DeviceRepository, gen telemetry.Generator, user *internal.User, req *DeviceRequest) (*internal.Device, error) {
	exists, err := devices.SerialNumberExists(ctx, req.SerialNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("device already registered: %w", internal.ErrConflict)
	}

	baseline := telemetry.Baseline()
	device := &internal.Device{
		ID:           uuid.NewString(),
		Owner:        user.ID,
		SerialNumber: req.SerialNumber,
		Name:         req.Name,
		Goals:        buildGoals(req.Goals),
		PreviousLog:  baseline,
		CurrentLog:   gen.Next(baseline),
		CreatedAt:    time.Now(),
	}
	if err := devices.RegisterDevice(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// ReplaceDeviceGoals swaps the device's goal list for a new one, re-resolving
// caps and resetting accrued points.
func ReplaceDeviceGoals(ctx context.Context, devices storage.DeviceRepository, userID, deviceID string, descriptions []string) ([]internal.Goal, error) {
	if _, err := devices.GetDevice(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	goals := buildGoals(descriptions)
	if err := devices.ReplaceDeviceGoals(ctx, userID, deviceID, goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func buildGoals(descriptions []string) []internal.Goal {
	goals := make([]internal.Goal, 0, len(descriptions))
	for _, desc := range descriptions {
		goals = append(goals, internal.Goal{
			Description:   desc,
			PointCap:      catalog.ResolvePointCap(desc),
			AccruedPoints: 0,
		})
	}
	return goals
}
