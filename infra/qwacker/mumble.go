package qwacker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// qwackerMumble is the wire shape shared by posts and replies.
type qwackerMumble struct {
	ID          string  `json:"id"`
	Creator     string  `json:"creator"`
	Text        string  `json:"text"`
	MediaURL    *string `json:"mediaUrl"`
	MediaType   *string `json:"mediaType"`
	LikeCount   int     `json:"likeCount"`
	LikedByUser bool    `json:"likedByUser"`
	Type        string  `json:"type"`
	ReplyCount  int     `json:"replyCount"`
	ParentID    string  `json:"parentId"`
}

type qwackerPage struct {
	Count int             `json:"count"`
	Data  []qwackerMumble `json:"data"`
}

type qwackerUser struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl"`
}

func (u qwackerUser) toDomain() domain.MumbleUser {
	return domain.MumbleUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		AvatarURL: u.AvatarURL,
	}
}

// createdAt decodes the creation time embedded in a mumble's ULID.
// Non-ULID ids yield the zero time.
func createdAt(id string) time.Time {
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(parsed.Time()).UTC()
}

func (m qwackerMumble) base() domain.Mumble {
	return domain.Mumble{
		ID:          m.ID,
		Creator:     m.Creator,
		Text:        m.Text,
		MediaURL:    deref(m.MediaURL),
		MediaType:   deref(m.MediaType),
		CreatedAt:   createdAt(m.ID),
		LikeCount:   m.LikeCount,
		LikedByUser: m.LikedByUser,
	}
}

// kind resolves the discriminator. A missing type falls back on the
// presence of a parent id.
func (m qwackerMumble) kind() (domain.MumbleKind, error) {
	if m.Type == "" {
		if m.ParentID != "" {
			return domain.KindReply, nil
		}
		return domain.KindPost, nil
	}
	return domain.ParseKind(m.Type)
}

func (m qwackerMumble) toPost() (domain.Post, error) {
	kind, err := m.kind()
	if err != nil {
		return domain.Post{}, err
	}
	switch kind {
	case domain.KindPost:
		return domain.Post{Mumble: m.base(), ReplyCount: m.ReplyCount}, nil
	case domain.KindReply:
		return domain.Post{}, fmt.Errorf("mumble %s is a reply, expected post", m.ID)
	default:
		return domain.Post{}, fmt.Errorf("%w: %v", domain.ErrUnknownKind, kind)
	}
}

func (m qwackerMumble) toReply() (domain.Reply, error) {
	kind, err := m.kind()
	if err != nil {
		return domain.Reply{}, err
	}
	switch kind {
	case domain.KindReply:
		return domain.Reply{Mumble: m.base(), ParentID: m.ParentID}, nil
	case domain.KindPost:
		return domain.Reply{}, fmt.Errorf("mumble %s is a post, expected reply", m.ID)
	default:
		return domain.Reply{}, fmt.Errorf("%w: %v", domain.ErrUnknownKind, kind)
	}
}

func parsePost(data []byte) (domain.Post, error) {
	var m qwackerMumble
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Post{}, fmt.Errorf("parsing post: %w", err)
	}
	return m.toPost()
}

func parseReply(data []byte) (domain.Reply, error) {
	var m qwackerMumble
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.Reply{}, fmt.Errorf("parsing reply: %w", err)
	}
	return m.toReply()
}

func parseReplies(data []byte) ([]domain.Reply, error) {
	var raw []qwackerMumble
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing replies: %w", err)
	}
	replies := make([]domain.Reply, 0, len(raw))
	for _, m := range raw {
		r, err := m.toReply()
		if err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, nil
}

func parseUser(data []byte) (domain.MumbleUser, error) {
	var u qwackerUser
	if err := json.Unmarshal(data, &u); err != nil {
		return domain.MumbleUser{}, fmt.Errorf("parsing user: %w", err)
	}
	return u.toDomain(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
