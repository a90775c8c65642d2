package app

import (
	"context"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// UserService provides application profiles.
type UserService interface {
	// CurrentUser returns the profile of the token's owner.
	CurrentUser(ctx context.Context, token string) (domain.MumbleUser, error)

	// UserByID returns the profile of any user.
	UserByID(ctx context.Context, token, id string) (domain.MumbleUser, error)
}
