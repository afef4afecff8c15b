package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/metrics"
	"github.com/cassiama/ProjectLISA/internal/storage"
)

var validate = validator.New()

type RegisterUserRequest struct {
	FirstName   string `json:"first_name" validate:"required,alpha,min=2,max=25"`
	LastName    string `json:"last_name" validate:"required,alpha,min=2,max=25"`
	Email       string `json:"email" validate:"required,email"`
	Age         int    `json:"age" validate:"required,gte=13,lte=120"`
	Occupation  string `json:"occupation" validate:"required"`
	Geography   string `json:"geography" validate:"required"`
	DeviceCount int    `json:"device_count" validate:"required,gte=1"`
	OS          string `json:"os" validate:"required"`
	PhoneSystem string `json:"phone_system" validate:"required"`
}

func ValidateRegisterUserRequest(req *RegisterUserRequest) error {
	return validate.Struct(req)
}

// RegisterUser creates a user with a fresh API token and an empty device
// list. Email addresses are unique.
func RegisterUser(ctx context.Context, users storage.UserRepository, req *RegisterUserRequest) (*internal.User, error) {
	if _, err := users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", internal.ErrConflict)
	} else if !errors.Is(err, internal.ErrNotFound) {
		return nil, err
	}

	user := &internal.User{
		ID:          uuid.NewString(),
		Token:       uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Age:         req.Age,
		Occupation:  req.Occupation,
		Geography:   req.Geography,
		DeviceCount: req.DeviceCount,
		OS:          req.OS,
		PhoneSystem: req.PhoneSystem,
		Devices:     []internal.Device{},
		CreatedAt:   time.Now(),
	}
	if err := users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RedeemPoints spends reward points from the user's global ledger. The
// subtraction is strict: an over-draw fails with ErrInsufficientPoints and
// leaves the ledger unchanged.
func RedeemPoints(ctx context.Context, users storage.UserRepository, userID string, n int) error {
	if n <= 0 {
		return fmt.Errorf("redeemed points must be a positive integer")
	}
	if err := users.SubtractUserPoints(ctx, userID, n); err != nil {
		return err
	}
	metrics.PointsRedeemed.Add(float64(n))
	return nil
}
