package detail

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
)

var fixedNow = time.Date(2022, 9, 23, 8, 0, 0, 0, time.UTC)

type stubPosts struct {
	detail domain.PostDetail
	err    error
	tokens []string
}

func (s *stubPosts) PostDetail(_ context.Context, token, _ string) (domain.PostDetail, error) {
	s.tokens = append(s.tokens, token)
	return s.detail, s.err
}
func (s *stubPosts) Posts(context.Context, string, app.PostsQuery) (app.PostsPage, error) {
	return app.PostsPage{}, nil
}
func (s *stubPosts) CreatePost(context.Context, string, *app.Upload, string) (domain.Post, error) {
	return domain.Post{}, nil
}

type stubLikes struct {
	calls int
	err   error
}

func (s *stubLikes) Like(context.Context, string, bool, string) error {
	s.calls++
	return s.err
}

type stubReplies struct {
	reply   domain.Reply
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *stubReplies) CreateReply(_ context.Context, in app.ReplyInput) (domain.Reply, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	r := s.reply
	if r.Text == "" {
		r.Text = in.Text
	}
	return r, s.err
}

func makeDetail() domain.PostDetail {
	return domain.PostDetail{
		Post: domain.Post{
			Mumble: domain.Mumble{
				ID: "p1", Text: "root mumble", LikeCount: 2,
				FullName: "Ana Lee", UserName: "ana",
				CreatedAt: fixedNow.Add(-5 * time.Minute),
			},
			ReplyCount: 1,
		},
		Replies: []domain.Reply{
			{Mumble: domain.Mumble{ID: "r1", Text: "first", LikeCount: 0, FullName: "Bo Chen", UserName: "bo"}, ParentID: "p1"},
		},
	}
}

type fixture struct {
	posts   *stubPosts
	likes   *stubLikes
	replies *stubReplies
}

// newLoaded returns a signed-in model with makeDetail applied.
func newLoaded() (Model, *fixture) {
	f := &fixture{
		posts:   &stubPosts{detail: makeDetail()},
		likes:   &stubLikes{},
		replies: &stubReplies{reply: domain.Reply{Mumble: domain.Mumble{ID: "r2"}}},
	}
	coord := postdetail.NewCoordinator("p1", f.likes, f.replies, nil)
	m := New(f.posts, coord, domain.Session{AccessToken: "tok", UserName: "me", FirstName: "Me", LastName: "Too"})
	m.now = func() time.Time { return fixedNow }
	m, _ = m.Update(DetailLoadedMsg{Token: "tok", Detail: makeDetail()})
	return m, f
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd synchronously and feeds its message back into m.
func run(m Model, cmd tea.Cmd) Model {
	if cmd == nil {
		return m
	}
	m, _ = m.Update(cmd())
	return m
}
