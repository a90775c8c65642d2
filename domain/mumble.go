package domain

import (
	"fmt"
	"strings"
	"time"
)

// MumbleKind tags the two variants of a mumble.
type MumbleKind int

const (
	KindPost MumbleKind = iota + 1
	KindReply
)

func (k MumbleKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindReply:
		return "reply"
	default:
		return fmt.Sprintf("MumbleKind(%d)", int(k))
	}
}

// ParseKind maps the backend's "type" discriminator to a MumbleKind.
func ParseKind(s string) (MumbleKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "post":
		return KindPost, nil
	case "reply":
		return KindReply, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Mumble holds the fields shared by posts and replies.
type Mumble struct {
	ID          string
	Creator     string // Creator user ID
	Text        string
	MediaURL    string
	MediaType   string
	CreatedAt   time.Time
	LikeCount   int
	LikedByUser bool

	// Denormalized creator display fields, filled by WithCreator.
	FullName  string
	UserName  string
	AvatarURL string
}

// WithLike returns a copy with the liked flag set to isLiked.
// The count only moves when the flag actually flips, so re-applying the
// same flag is a no-op.
func (m Mumble) WithLike(isLiked bool) Mumble {
	if m.LikedByUser == isLiked {
		return m
	}
	m.LikedByUser = isLiked
	if isLiked {
		m.LikeCount++
	} else if m.LikeCount > 0 {
		m.LikeCount--
	}
	return m
}

// WithCreator copies the user's display fields onto the mumble.
func (m Mumble) WithCreator(u MumbleUser) Mumble {
	m.FullName = u.FullName()
	m.UserName = u.UserName
	m.AvatarURL = u.AvatarURL
	return m
}

// Post is a root mumble.
type Post struct {
	Mumble
	ReplyCount int
}

// Kind reports KindPost.
func (Post) Kind() MumbleKind { return KindPost }

// Reply is a mumble answering a post.
type Reply struct {
	Mumble
	ParentID string
}

// Kind reports KindReply.
func (Reply) Kind() MumbleKind { return KindReply }

// PostDetail is one post with its replies in server order.
type PostDetail struct {
	Post    Post
	Replies []Reply
}
