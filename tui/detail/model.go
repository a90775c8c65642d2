// Package detail is the post-detail page: the post, its replies, and the
// like and reply interactions on them.
package detail

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
	"github.com/CrestNiraj12/terminalmumble/tui/common"
)

// --- Messages ---

// DetailLoadedMsg is sent when the post and its replies were fetched.
// Token is the access token the fetch ran with.
type DetailLoadedMsg struct {
	Token  string
	Detail domain.PostDetail
}

// DetailErrorMsg is sent when the post detail fetch fails.
type DetailErrorMsg struct {
	Token string
	Err   error
}

// LikeResultMsg carries the outcome of a like toggle. Action is nil on error.
type LikeResultMsg struct {
	ID     string
	Action postdetail.Action
	Err    error
}

// ReplyResultMsg carries the outcome of a reply submission.
type ReplyResultMsg struct {
	Action postdetail.Create
	Err    error
}

// ComposeReplyMsg asks the root model to open the reply composer.
type ComposeReplyMsg struct {
	Inline  bool
	ReplyTo string
}

// --- Model ---

// Model holds the post-detail page. state is the only copy of the page data
// and changes only through postdetail.Reduce.
type Model struct {
	posts   app.PostService
	coord   *postdetail.Coordinator
	session domain.Session

	state   postdetail.State
	loaded  bool
	loading bool
	err     error
	status  string

	cursor    int // 0 is the post, i > 0 is Replies[i-1]
	keys      common.KeyMap
	spinner   spinner.Model
	showHints bool
	width     int
	height    int
	now       func() time.Time
}

// New creates a detail model for the coordinator's post. sess is the raw
// session known at start-up; the first fetch runs with its token.
func New(posts app.PostService, coord *postdetail.Coordinator, sess domain.Session) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6"))

	return Model{
		posts:     posts,
		coord:     coord,
		session:   sess,
		keys:      common.DefaultKeyMap(),
		spinner:   s,
		loading:   true,
		showHints: true,
		width:     80,
		now:       time.Now,
	}
}

// Init starts the detail fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchDetail(), m.spinner.Tick)
}

// State returns the current page state.
func (m Model) State() postdetail.State {
	return m.state
}

// Session returns the session used for authenticated calls.
func (m Model) Session() domain.Session {
	return m.session
}

// SetSession replaces the session. A new token re-fetches the page so like
// flags reflect the signed-in user; a fetch still running with the old token
// is discarded when it lands.
func (m Model) SetSession(s domain.Session) (Model, tea.Cmd) {
	tokenChanged := s.AccessToken != m.session.AccessToken
	m.session = s
	if !tokenChanged {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.fetchDetail(), m.spinner.Tick)
}

// Status returns the transient status line.
func (m Model) Status() string {
	return m.status
}

// selected returns the mumble under the cursor and its kind.
func (m Model) selected() (domain.Mumble, domain.MumbleKind, bool) {
	if !m.loaded {
		return domain.Mumble{}, 0, false
	}
	if m.cursor == 0 {
		return m.state.Post.Mumble, m.state.Post.Kind(), true
	}
	idx := m.cursor - 1
	if idx < 0 || idx >= len(m.state.Replies) {
		return domain.Mumble{}, 0, false
	}
	r := m.state.Replies[idx]
	return r.Mumble, r.Kind(), true
}

func (m Model) hasReply(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range m.state.Replies {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (m Model) lastIndex() int {
	return len(m.state.Replies)
}

func (m *Model) clampCursor() {
	if m.cursor > m.lastIndex() {
		m.cursor = m.lastIndex()
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
