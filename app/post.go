package app

import (
	"context"
	"io"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// Upload is an image passed through to the backend untouched.
type Upload struct {
	Filename string
	Content  io.Reader
}

// PostsQuery filters the post listing.
type PostsQuery struct {
	Limit     int
	Offset    int
	NewerThan string // Mumble ID
	OlderThan string // Mumble ID
	Creator   string // User ID
}

// PostsPage is one page of the post listing.
type PostsPage struct {
	Count int
	Posts []domain.Post
}

// PostService reads and publishes root mumbles.
type PostService interface {
	// PostDetail returns a post and its replies, each enriched with creator data.
	PostDetail(ctx context.Context, token, id string) (domain.PostDetail, error)

	// Posts returns one page of posts, newest first.
	Posts(ctx context.Context, token string, q PostsQuery) (PostsPage, error)

	// CreatePost publishes a new post with optional image.
	CreatePost(ctx context.Context, text string, image *Upload, token string) (domain.Post, error)
}
