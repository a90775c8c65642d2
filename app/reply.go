package app

import (
	"context"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// ReplyInput carries everything needed to create a reply.
type ReplyInput struct {
	ParentID string
	Text     string
	Image    *Upload
	Token    string
}

// ReplyService creates replies under a post.
type ReplyService interface {
	// CreateReply publishes a reply. The returned reply carries no creator
	// display fields; callers enrich it themselves.
	CreateReply(ctx context.Context, in ReplyInput) (domain.Reply, error)
}
