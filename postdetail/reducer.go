// Package postdetail holds the post-detail state, its reducer, and the
// two-phase protocols that turn like and reply requests into actions.
package postdetail

import (
	"errors"
	"fmt"

	"github.com/CrestNiraj12/terminalmumble/domain"
)

// ErrUnhandledAction is returned by Reduce for an action it does not know.
var ErrUnhandledAction = errors.New("unhandled action")

// State is the post-detail page state. Reduce never mutates a State it is
// given, so a previous State stays valid after a transition.
type State struct {
	Post    domain.Post
	Replies []domain.Reply
}

// NewState builds the initial state from a fetched post detail.
func NewState(d domain.PostDetail) State {
	return State{Post: d.Post, Replies: d.Replies}
}

// ReplyCount is the count to display. The post's counter comes from the
// server and does not include replies created locally since the fetch.
func (s State) ReplyCount() int {
	return max(s.Post.ReplyCount, len(s.Replies))
}

// Action is a state transition request. The set is closed.
type Action interface {
	isAction()
}

// Create appends a locally created reply.
type Create struct {
	Reply domain.Reply
}

// LikePost sets the like flag on the post.
type LikePost struct {
	ID      string
	IsLiked bool
}

// LikeReply sets the like flag on one reply.
type LikeReply struct {
	ID      string
	IsLiked bool
}

func (Create) isAction()    {}
func (LikePost) isAction()  {}
func (LikeReply) isAction() {}

// Reduce applies one action and returns the next state.
func Reduce(state State, action Action) (State, error) {
	switch a := action.(type) {
	case Create:
		replies := make([]domain.Reply, len(state.Replies), len(state.Replies)+1)
		copy(replies, state.Replies)
		state.Replies = append(replies, a.Reply)
		return state, nil

	case LikePost:
		if a.ID != state.Post.ID {
			return state, nil
		}
		state.Post.Mumble = state.Post.Mumble.WithLike(a.IsLiked)
		return state, nil

	case LikeReply:
		idx := -1
		for i, r := range state.Replies {
			if r.ID == a.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return state, nil
		}
		replies := make([]domain.Reply, len(state.Replies))
		copy(replies, state.Replies)
		replies[idx].Mumble = replies[idx].Mumble.WithLike(a.IsLiked)
		state.Replies = replies
		return state, nil

	default:
		return state, fmt.Errorf("%w: %T", ErrUnhandledAction, action)
	}
}

// LikeAction picks the like action for a mumble kind.
func LikeAction(kind domain.MumbleKind, id string, isLiked bool) (Action, error) {
	switch kind {
	case domain.KindPost:
		return LikePost{ID: id, IsLiked: isLiked}, nil
	case domain.KindReply:
		return LikeReply{ID: id, IsLiked: isLiked}, nil
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownKind, kind)
	}
}
