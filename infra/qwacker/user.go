package qwacker

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// userService implements app.UserService using the qwacker API.
type userService struct {
	client *Client
}

// NewUserService creates a UserService backed by qwacker.
func NewUserService(client *Client) *userService {
	return &userService{client: client}
}

func (s *userService) CurrentUser(ctx context.Context, token string) (domain.MumbleUser, error) {
	if token == "" {
		return domain.MumbleUser{}, domain.ErrUnauthorized
	}
	data, err := s.client.Get(ctx, "/users/me", token)
	if err != nil {
		return domain.MumbleUser{}, fmt.Errorf("fetching current user: %w", err)
	}
	return parseUser(data)
}

func (s *userService) UserByID(ctx context.Context, token, id string) (domain.MumbleUser, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.MumbleUser{}, fmt.Errorf("invalid user id")
	}
	data, err := s.client.Get(ctx, "/users/"+url.PathEscape(id), token)
	if err != nil {
		return domain.MumbleUser{}, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return parseUser(data)
}
