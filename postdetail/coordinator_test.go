package postdetail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
)

type likeCall struct {
	id      string
	isLiked bool
	token   string
}

type fakeLikes struct {
	mu      sync.Mutex
	calls   []likeCall
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeLikes) Like(_ context.Context, id string, isLiked bool, token string) error {
	f.mu.Lock()
	f.calls = append(f.calls, likeCall{id: id, isLiked: isLiked, token: token})
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.err
}

func (f *fakeLikes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeReplies struct {
	got   app.ReplyInput
	calls int
	reply domain.Reply
	err   error
}

func (f *fakeReplies) CreateReply(_ context.Context, in app.ReplyInput) (domain.Reply, error) {
	f.calls++
	f.got = in
	return f.reply, f.err
}

func signedIn() domain.Session {
	return domain.Session{
		AccessToken: "tok",
		FirstName:   "Ana",
		LastName:    "Lee",
		UserName:    "ana",
		AvatarURL:   "u.png",
		FullName:    "Ana Lee",
	}
}

func TestLikeMumble_DispatchesAfterConfirm(t *testing.T) {
	likes := &fakeLikes{}
	c := NewCoordinator("p1", likes, &fakeReplies{}, nil)

	action, err := c.LikeMumble(context.Background(), signedIn(), true, "p1", domain.KindPost)
	if err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if action != (LikePost{ID: "p1", IsLiked: true}) {
		t.Fatalf("unexpected action: %#v", action)
	}
	if len(likes.calls) != 1 || likes.calls[0] != (likeCall{id: "p1", isLiked: true, token: "tok"}) {
		t.Fatalf("unexpected remote calls: %#v", likes.calls)
	}

	action, err = c.LikeMumble(context.Background(), signedIn(), false, "r1", domain.KindReply)
	if err != nil {
		t.Fatalf("unlike failed: %v", err)
	}
	if action != (LikeReply{ID: "r1", IsLiked: false}) {
		t.Fatalf("unexpected action: %#v", action)
	}
}

func TestLikeMumble_FailureYieldsNoAction(t *testing.T) {
	boom := errors.New("boom")
	c := NewCoordinator("p1", &fakeLikes{err: boom}, &fakeReplies{}, nil)

	action, err := c.LikeMumble(context.Background(), signedIn(), true, "p1", domain.KindPost)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped remote error, got %v", err)
	}
	if action != nil {
		t.Fatalf("no action expected on failure, got %#v", action)
	}
	if c.Pending("p1") {
		t.Fatalf("guard must be released after failure")
	}
}

func TestLikeMumble_PreconditionsSkipRemoteCall(t *testing.T) {
	likes := &fakeLikes{}
	c := NewCoordinator("p1", likes, &fakeReplies{}, nil)

	if _, err := c.LikeMumble(context.Background(), domain.Session{}, true, "p1", domain.KindPost); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := c.LikeMumble(context.Background(), signedIn(), true, "p1", domain.MumbleKind(0)); !errors.Is(err, domain.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if likes.callCount() != 0 {
		t.Fatalf("no remote call expected, got %d", likes.callCount())
	}
}

func TestLikeMumble_RejectsDuplicateInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	likes := &fakeLikes{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewCoordinator("p1", likes, &fakeReplies{}, nil)

	type result struct {
		action Action
		err    error
	}
	first := make(chan result, 1)
	go func() {
		a, err := c.LikeMumble(context.Background(), signedIn(), true, "r1", domain.KindReply)
		first <- result{action: a, err: err}
	}()
	<-likes.entered

	if !c.Pending("r1") {
		t.Fatalf("expected r1 to be pending")
	}
	_, err := c.LikeMumble(context.Background(), signedIn(), true, "r1", domain.KindReply)
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight for duplicate toggle, got %v", err)
	}

	close(likes.release)
	got := <-first
	if got.err != nil || got.action != (LikeReply{ID: "r1", IsLiked: true}) {
		t.Fatalf("unexpected first result: %#v", got)
	}
	if likes.callCount() != 1 {
		t.Fatalf("duplicate must not reach the backend, got %d calls", likes.callCount())
	}
	if c.Pending("r1") {
		t.Fatalf("guard must be released after completion")
	}
}

func TestSubmitReply_MapsIdentityAndTargetsPost(t *testing.T) {
	created := domain.Reply{Mumble: domain.Mumble{ID: "r9", Text: "hi", Creator: "u1"}}
	replies := &fakeReplies{reply: created}
	c := NewCoordinator("p1", &fakeLikes{}, replies, nil)
	img := &app.Upload{Filename: "cat.png", Content: strings.NewReader("png")}

	action, err := c.SubmitReply(context.Background(), signedIn(), ReplyForm{Text: "  hi  ", Image: img})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if replies.got.ParentID != "p1" || replies.got.Text != "hi" || replies.got.Token != "tok" || replies.got.Image != img {
		t.Fatalf("unexpected reply input: %#v", replies.got)
	}
	r := action.Reply
	if r.ID != "r9" || r.FullName != "Ana Lee" || r.UserName != "ana" || r.AvatarURL != "u.png" {
		t.Fatalf("reply not enriched from session: %#v", r)
	}
	if r.ParentID != "p1" {
		t.Fatalf("expected parent id fallback, got %q", r.ParentID)
	}

	state := State{Post: makePost("p1", 0, false), Replies: []domain.Reply{makeReply("a", 0, false)}}
	state, err = Reduce(state, action)
	if err != nil || len(state.Replies) != 2 || state.Replies[1].ID != "r9" {
		t.Fatalf("created reply not visible after reduce: %#v %v", state.Replies, err)
	}
}

func TestSubmitReply_Rejections(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		sess    domain.Session
		text    string
		remote  error
		want    error
		reaches bool
	}{
		{name: "no session", sess: domain.Session{}, text: "hi", want: domain.ErrNoSession},
		{name: "empty", sess: signedIn(), text: "   ", want: domain.ErrEmptyReply},
		{name: "too long", sess: signedIn(), text: strings.Repeat("x", domain.MaxReplyLength+1), want: domain.ErrReplyTooLong},
		{name: "remote failure", sess: signedIn(), text: "hi", remote: boom, want: boom, reaches: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			replies := &fakeReplies{err: tc.remote}
			c := NewCoordinator("p1", &fakeLikes{}, replies, nil)
			action, err := c.SubmitReply(context.Background(), tc.sess, ReplyForm{Text: tc.text})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if action != (Create{}) {
				t.Fatalf("no action expected, got %#v", action)
			}
			if (replies.calls == 1) != tc.reaches {
				t.Fatalf("unexpected remote call count %d", replies.calls)
			}
		})
	}
}
