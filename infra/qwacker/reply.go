package qwacker

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
)

// replyService implements app.ReplyService using the qwacker API.
type replyService struct {
	client *Client
}

// NewReplyService creates a ReplyService backed by qwacker.
func NewReplyService(client *Client) *replyService {
	return &replyService{client: client}
}

func (s *replyService) CreateReply(ctx context.Context, in app.ReplyInput) (domain.Reply, error) {
	if strings.TrimSpace(in.ParentID) == "" {
		return domain.Reply{}, fmt.Errorf("invalid parent id")
	}
	if strings.TrimSpace(in.Text) == "" {
		return domain.Reply{}, domain.ErrEmptyReply
	}

	body, contentType, err := mumbleForm(in.Text, in.Image)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("building reply form: %w", err)
	}

	path := "/posts/" + url.PathEscape(in.ParentID)
	data, err := s.client.Post(ctx, path, in.Token, body, contentType)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("creating reply: %w", err)
	}

	reply, err := parseReply(data)
	if err != nil {
		return domain.Reply{}, err
	}
	if reply.ParentID == "" {
		reply.ParentID = in.ParentID
	}
	return reply, nil
}
