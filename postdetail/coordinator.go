package postdetail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
)

// ErrInFlight is returned when the same mumble already has a pending operation.
var ErrInFlight = errors.New("operation already in flight")

// ReplyForm is the submitted reply composer form.
type ReplyForm struct {
	Text  string
	Image *app.Upload
}

// Coordinator runs the like and reply protocols for one post-detail page.
//
// Both protocols are two-phase: the remote call is issued and awaited, and
// only a successful call yields an Action. The caller owns the State and
// applies the Action with Reduce. On failure no Action is returned, so the
// state is left as it was.
type Coordinator struct {
	postID  string
	likes   app.LikeService
	replies app.ReplyService
	guard   *Guard
	logger  *zap.Logger
}

// NewCoordinator creates a Coordinator for the post with postID.
func NewCoordinator(postID string, likes app.LikeService, replies app.ReplyService, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		postID:  postID,
		likes:   likes,
		replies: replies,
		guard:   NewGuard(),
		logger:  logger.Named("postdetail"),
	}
}

// PostID returns the post this coordinator works on.
func (c *Coordinator) PostID() string {
	return c.postID
}

// Pending reports whether a like for id is in flight.
func (c *Coordinator) Pending(id string) bool {
	return c.guard.Pending(likeKey(id))
}

// ReplyPending reports whether a reply to the post is in flight.
func (c *Coordinator) ReplyPending() bool {
	return c.guard.Pending(replyKey(c.postID))
}

// LikeMumble sets the like flag on a post or reply and returns the action
// to apply once the backend confirmed it.
func (c *Coordinator) LikeMumble(ctx context.Context, sess domain.Session, isLiked bool, id string, kind domain.MumbleKind) (Action, error) {
	action, err := LikeAction(kind, id, isLiked)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, domain.ErrNoSession
	}

	key := likeKey(id)
	if !c.guard.Acquire(key) {
		c.logger.Debug("like rejected, already in flight", zap.String("id", id))
		return nil, fmt.Errorf("liking %s: %w", id, ErrInFlight)
	}
	defer c.guard.Release(key)

	if err := c.likes.Like(ctx, id, isLiked, sess.AccessToken); err != nil {
		c.logger.Warn("like failed", zap.String("id", id), zap.Bool("liked", isLiked), zap.Error(err))
		return nil, fmt.Errorf("liking %s %s: %w", kind, id, err)
	}

	c.logger.Debug("like confirmed", zap.String("id", id), zap.Stringer("kind", kind), zap.Bool("liked", isLiked))
	return action, nil
}

// SubmitReply creates a reply to the post and returns the Create action
// carrying the view-ready reply.
func (c *Coordinator) SubmitReply(ctx context.Context, sess domain.Session, form ReplyForm) (Create, error) {
	if !sess.Authenticated() {
		return Create{}, domain.ErrNoSession
	}

	text := strings.TrimSpace(form.Text)
	if text == "" {
		return Create{}, domain.ErrEmptyReply
	}
	if utf8.RuneCountInString(text) > domain.MaxReplyLength {
		return Create{}, domain.ErrReplyTooLong
	}

	key := replyKey(c.postID)
	if !c.guard.Acquire(key) {
		return Create{}, fmt.Errorf("replying to %s: %w", c.postID, ErrInFlight)
	}
	defer c.guard.Release(key)

	created, err := c.replies.CreateReply(ctx, app.ReplyInput{
		ParentID: c.postID,
		Text:     text,
		Image:    form.Image,
		Token:    sess.AccessToken,
	})
	if err != nil {
		c.logger.Warn("reply failed", zap.String("post", c.postID), zap.Error(err))
		return Create{}, fmt.Errorf("replying to %s: %w", c.postID, err)
	}

	// The backend does not join creator data onto a fresh reply.
	created.Mumble = created.Mumble.WithCreator(sess.Identity())
	if created.ParentID == "" {
		created.ParentID = c.postID
	}

	c.logger.Debug("reply created", zap.String("post", c.postID), zap.String("id", created.ID))
	return Create{Reply: created}, nil
}

func likeKey(id string) string  { return "like:" + id }
func replyKey(id string) string { return "reply:" + id }
