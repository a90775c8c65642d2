package detail

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
)

func (m Model) fetchDetail() tea.Cmd {
	posts := m.posts
	id := m.coord.PostID()
	token := m.session.AccessToken
	return func() tea.Msg {
		d, err := posts.PostDetail(context.Background(), token, id)
		if err != nil {
			return DetailErrorMsg{Token: token, Err: err}
		}
		return DetailLoadedMsg{Token: token, Detail: d}
	}
}

func (m Model) likeMumble(id string, kind domain.MumbleKind, isLiked bool) tea.Cmd {
	coord := m.coord
	sess := m.session
	return func() tea.Msg {
		action, err := coord.LikeMumble(context.Background(), sess, isLiked, id, kind)
		return LikeResultMsg{ID: id, Action: action, Err: err}
	}
}

// SubmitReply returns the command that sends a composed reply.
func (m Model) SubmitReply(form postdetail.ReplyForm) tea.Cmd {
	coord := m.coord
	sess := m.session
	return func() tea.Msg {
		action, err := coord.SubmitReply(context.Background(), sess, form)
		return ReplyResultMsg{Action: action, Err: err}
	}
}
