package auth

import (
	"context"
	"errors"

	"github.com/cassiama/ProjectLISA/internal"
	"github.com/cassiama/ProjectLISA/internal/storage"
)

// LocalAuthProvider resolves bearer tokens against the user store directly.
// Used in development; production validates through the auth service.
type LocalAuthProvider struct {
	users  storage.UserRepository
	logger internal.Logger
}

func NewLocalAuthProvider(users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{users: users, logger: logger}
}

func (a *LocalAuthProvider) ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error) {
	user, err := a.users.GetUserByToken(ctx, token)
	if err != nil {
		a.logger.Warnf("invalid token")
		return nil, errors.New("invalid token")
	}
	return user, nil
}

func (a *LocalAuthProvider) ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error) {
	a.logger.Warnf("ValidateTokenRemote not implemented in LocalAuthProvider")
	return nil, errors.New("not implemented in LocalAuthProvider")
}
