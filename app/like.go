package app

import "context"

// LikeService toggles the current user's like on a mumble.
type LikeService interface {
	// Like sets (isLiked=true) or clears the like on the mumble with id.
	Like(ctx context.Context, id string, isLiked bool, token string) error
}
