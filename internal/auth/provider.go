package auth

import (
	"context"

	"github.com/cassiama/ProjectLISA/internal"
)

type Provider interface {
	ValidateTokenLocal(ctx context.Context, token string) (*internal.User, error)
	ValidateTokenRemote(ctx context.Context, token string) (*internal.User, error)
}
