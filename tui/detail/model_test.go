package detail

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
)

func TestLikeKey_LikesSelectedPost(t *testing.T) {
	m, f := newLoaded()

	m, cmd := m.Update(runes("l"))
	m = run(m, cmd)

	if f.likes.calls != 1 {
		t.Fatalf("expected one like call, got %d", f.likes.calls)
	}
	post := m.State().Post
	if !post.LikedByUser || post.LikeCount != 3 {
		t.Fatalf("post like not applied: %+v", post.Mumble)
	}
}

func TestLikeKey_TogglesSelectedReply(t *testing.T) {
	m, _ := newLoaded()
	m, _ = m.Update(runes("j"))

	m, cmd := m.Update(runes("l"))
	m = run(m, cmd)
	r := m.State().Replies[0]
	if !r.LikedByUser || r.LikeCount != 1 {
		t.Fatalf("reply like not applied: %+v", r.Mumble)
	}

	m, cmd = m.Update(runes("l"))
	m = run(m, cmd)
	r = m.State().Replies[0]
	if r.LikedByUser || r.LikeCount != 0 {
		t.Fatalf("reply unlike not applied: %+v", r.Mumble)
	}
	if m.State().Post.LikedByUser {
		t.Fatalf("post must be untouched by reply like")
	}
}

func TestLikeFailure_LeavesStateAndShowsStatus(t *testing.T) {
	m, f := newLoaded()
	f.likes.err = errors.New("boom")

	before := m.State()
	m, cmd := m.Update(runes("l"))
	m = run(m, cmd)

	if m.State().Post.LikeCount != before.Post.LikeCount || m.State().Post.LikedByUser {
		t.Fatalf("state changed on failed like")
	}
	if !strings.Contains(m.Status(), "boom") {
		t.Fatalf("expected error status, got %q", m.Status())
	}
}

func TestLikeWithoutSession_IsNoop(t *testing.T) {
	m, f := newLoaded()
	m.session = domain.Session{}

	_, cmd := m.Update(runes("l"))
	if cmd != nil {
		t.Fatalf("expected no command without session")
	}
	if f.likes.calls != 0 {
		t.Fatalf("no remote call expected")
	}
}

func TestReplyResult_AppendsAndSelectsReply(t *testing.T) {
	m, _ := newLoaded()

	m = run(m, m.SubmitReply(postdetail.ReplyForm{Text: "  hi there  "}))

	st := m.State()
	if len(st.Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(st.Replies))
	}
	got := st.Replies[1]
	if got.Text != "hi there" || got.UserName != "me" || got.FullName != "Me Too" {
		t.Fatalf("reply not enriched from session: %+v", got.Mumble)
	}
	if st.Post.ReplyCount != 1 || st.ReplyCount() != 2 {
		t.Fatalf("unexpected reply counts: post=%d shown=%d", st.Post.ReplyCount, st.ReplyCount())
	}
	if m.cursor != 2 {
		t.Fatalf("cursor should move to the new reply, got %d", m.cursor)
	}
	if m.Status() != "Reply posted." {
		t.Fatalf("unexpected status %q", m.Status())
	}
}

func TestReplyResult_ErrorsBecomeStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "no session stays silent", err: domain.ErrNoSession, want: ""},
		{name: "too long", err: domain.ErrReplyTooLong, want: "Error: reply is too long."},
		{name: "unauthorized", err: domain.ErrUnauthorized, want: "Error: session expired, sign in again."},
		{name: "transport", err: errors.New("dial tcp"), want: "Error replying: dial tcp"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newLoaded()
			m, _ = m.Update(ReplyResultMsg{Err: tc.err})
			if m.Status() != tc.want {
				t.Fatalf("status mismatch: got %q want %q", m.Status(), tc.want)
			}
			if len(m.State().Replies) != 1 {
				t.Fatalf("state must not change on error")
			}
		})
	}
}

func TestReplyKey_RequestsComposer(t *testing.T) {
	m, _ := newLoaded()

	_, cmd := m.Update(runes("C"))
	if cmd == nil {
		t.Fatalf("expected compose command")
	}
	msg, ok := cmd().(ComposeReplyMsg)
	if !ok || !msg.Inline || msg.ReplyTo != "@ana" {
		t.Fatalf("unexpected compose msg: %#v", msg)
	}
}

func TestCursorBounds(t *testing.T) {
	m, _ := newLoaded()
	m, _ = m.Update(runes("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor moved above the post")
	}
	m, _ = m.Update(runes("G"))
	m, _ = m.Update(runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor moved past the last reply: %d", m.cursor)
	}
}

func TestDetailError_ShownUntilLoaded(t *testing.T) {
	f := &stubPosts{err: domain.ErrNotFound}
	m := New(f, postdetail.NewCoordinator("p1", &stubLikes{}, &stubReplies{}, nil), domain.Session{})
	m = run(m, m.fetchDetail())
	if !strings.Contains(m.View(), "not found") {
		t.Fatalf("expected error in view, got %q", m.View())
	}
}

func TestSetSession_RefetchesOnTokenChange(t *testing.T) {
	m, f := newLoaded()

	m, cmd := m.SetSession(m.Session())
	if cmd != nil {
		t.Fatalf("same token must not refetch")
	}

	m, cmd = m.SetSession(domain.Session{AccessToken: "tok2"})
	if cmd == nil || !m.loading {
		t.Fatalf("expected refetch on token change")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("refetch must be batched with the spinner tick")
	}
	if _, ok := batch[1]().(spinner.TickMsg); !ok {
		t.Fatalf("expected spinner tick in the refetch batch")
	}
	m = run(m, m.fetchDetail())
	if got := f.posts.tokens; len(got) != 1 || got[0] != "tok2" {
		t.Fatalf("unexpected fetch tokens: %v", got)
	}
	if m.loading {
		t.Fatalf("load for the current token must finish loading")
	}
}

func TestInitialFetch_UsesStartupSessionToken(t *testing.T) {
	posts := &stubPosts{detail: makeDetail()}
	m := New(posts, postdetail.NewCoordinator("p1", &stubLikes{}, &stubReplies{}, nil), domain.Session{AccessToken: "tok"})

	_ = run(m, m.fetchDetail())
	if got := posts.tokens; len(got) != 1 || got[0] != "tok" {
		t.Fatalf("first fetch must carry the session token, got %v", got)
	}
}

func TestSessionBeforeLoad_DropsStaleResultAndRefetches(t *testing.T) {
	posts := &stubPosts{detail: makeDetail()}
	m := New(posts, postdetail.NewCoordinator("p1", &stubLikes{}, &stubReplies{}, nil), domain.Session{})
	initial := m.fetchDetail()

	m, cmd := m.SetSession(domain.Session{AccessToken: "tok"})
	if cmd == nil {
		t.Fatalf("token change before the first load must refetch")
	}

	// The anonymous fetch lands after the session changed.
	m = run(m, initial)
	if m.loaded {
		t.Fatalf("result fetched with a stale token must be dropped")
	}

	signedIn := makeDetail()
	signedIn.Post.LikedByUser = true
	posts.detail = signedIn
	m = run(m, m.fetchDetail())
	if !m.loaded || !m.State().Post.LikedByUser {
		t.Fatalf("expected signed-in detail, got %+v", m.State().Post.Mumble)
	}
	if got := posts.tokens; len(got) != 2 || got[0] != "" || got[1] != "tok" {
		t.Fatalf("unexpected fetch tokens: %v", got)
	}
}

func TestReplyResult_AlreadyPresentIsNotDuplicated(t *testing.T) {
	m, _ := newLoaded()

	refreshed := makeDetail()
	r2 := domain.Reply{Mumble: domain.Mumble{ID: "r2", Text: "mine"}, ParentID: "p1"}
	refreshed.Replies = append(refreshed.Replies, r2)
	refreshed.Post.ReplyCount = 2
	m, _ = m.Update(DetailLoadedMsg{Token: "tok", Detail: refreshed})

	m, _ = m.Update(ReplyResultMsg{Action: postdetail.Create{Reply: r2}})

	copies := 0
	for _, r := range m.State().Replies {
		if r.ID == "r2" {
			copies++
		}
	}
	if copies != 1 || m.State().ReplyCount() != 2 {
		t.Fatalf("reply duplicated: copies=%d count=%d", copies, m.State().ReplyCount())
	}
	if m.Status() != "Reply posted." {
		t.Fatalf("unexpected status %q", m.Status())
	}
}

func TestRefresh_BlockedWhileReplyInFlight(t *testing.T) {
	m, f := newLoaded()
	f.replies.entered = make(chan struct{})
	f.replies.release = make(chan struct{})

	submit := m.SubmitReply(postdetail.ReplyForm{Text: "hi"})
	result := make(chan tea.Msg, 1)
	go func() { result <- submit() }()
	<-f.replies.entered

	m, cmd := m.Update(runes("r"))
	if cmd != nil || m.loading {
		t.Fatalf("refresh must wait for the pending reply")
	}

	close(f.replies.release)
	m, _ = m.Update(<-result)
	if len(m.State().Replies) != 2 {
		t.Fatalf("expected reply appended, got %d", len(m.State().Replies))
	}

	_, cmd = m.Update(runes("r"))
	if cmd == nil {
		t.Fatalf("refresh must work again after the reply finished")
	}
}

func TestView_RendersPostRepliesAndCounters(t *testing.T) {
	m, _ := newLoaded()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	v := m.View()
	for _, want := range []string{"Ana Lee", "@ana", "5 minutes ago", "root mumble", "first", "↩ 1"} {
		if !strings.Contains(v, want) {
			t.Fatalf("view missing %q:\n%s", want, v)
		}
	}
}
