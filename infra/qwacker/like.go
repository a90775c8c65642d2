package qwacker

import (
	"context"
	"fmt"
	"net/url"
)

// likeService implements app.LikeService using the qwacker API.
type likeService struct {
	client *Client
}

// NewLikeService creates a LikeService backed by qwacker.
func NewLikeService(client *Client) *likeService {
	return &likeService{client: client}
}

func (s *likeService) Like(ctx context.Context, id string, isLiked bool, token string) error {
	path := fmt.Sprintf("/posts/%s/likes", url.PathEscape(id))
	var err error
	if isLiked {
		_, err = s.client.Post(ctx, path, token, nil, "")
	} else {
		_, err = s.client.Delete(ctx, path, token)
	}
	if err != nil {
		if isLiked {
			return fmt.Errorf("liking mumble: %w", err)
		}
		return fmt.Errorf("unliking mumble: %w", err)
	}
	return nil
}
