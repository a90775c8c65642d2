package detail

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
)

// Update handles messages for the detail page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DetailLoadedMsg:
		if msg.Token != m.session.AccessToken {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		m.err = nil
		m.state = postdetail.NewState(msg.Detail)
		m.clampCursor()
		return m, nil

	case DetailErrorMsg:
		if msg.Token != m.session.AccessToken {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		return m, nil

	case LikeResultMsg:
		if msg.Err != nil {
			m.status = likeErrorStatus(msg.Err)
			return m, nil
		}
		m.apply(msg.Action)
		return m, nil

	case ReplyResultMsg:
		if msg.Err != nil {
			m.status = replyErrorStatus(msg.Err)
			return m, nil
		}
		// A refresh may already have brought the reply in.
		if m.hasReply(msg.Action.Reply.ID) {
			m.status = "Reply posted."
			return m, nil
		}
		if m.apply(msg.Action) {
			m.status = "Reply posted."
			m.cursor = m.lastIndex()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.lastIndex() {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = m.lastIndex()
		return m, nil

	case key.Matches(msg, m.keys.ToggleHints):
		m.showHints = !m.showHints
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.loading || m.coord.ReplyPending() {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.fetchDetail(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Like):
		mumble, kind, ok := m.selected()
		if !ok || !m.session.Authenticated() {
			return m, nil
		}
		if m.coord.Pending(mumble.ID) {
			m.status = "Still working on the last like..."
			return m, nil
		}
		m.status = ""
		return m, m.likeMumble(mumble.ID, kind, !mumble.LikedByUser)

	case key.Matches(msg, m.keys.Reply), key.Matches(msg, m.keys.ReplyInline):
		if !m.loaded || !m.session.Authenticated() {
			return m, nil
		}
		inline := key.Matches(msg, m.keys.ReplyInline)
		replyTo := ""
		if u := m.state.Post.UserName; u != "" {
			replyTo = "@" + u
		}
		return m, func() tea.Msg { return ComposeReplyMsg{Inline: inline, ReplyTo: replyTo} }
	}

	return m, nil
}

// apply runs action through the reducer. A reducer error is reported on the
// status line and leaves the state as it was.
func (m *Model) apply(action postdetail.Action) bool {
	next, err := postdetail.Reduce(m.state, action)
	if err != nil {
		m.status = "Error: " + err.Error()
		return false
	}
	m.state = next
	return true
}

func likeErrorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return ""
	case errors.Is(err, postdetail.ErrInFlight):
		return "Still working on the last like..."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Error: session expired, sign in again."
	default:
		return "Error liking: " + err.Error()
	}
}

func replyErrorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSession):
		return ""
	case errors.Is(err, domain.ErrEmptyReply):
		return "Cancelled."
	case errors.Is(err, domain.ErrReplyTooLong):
		return "Error: reply is too long."
	case errors.Is(err, postdetail.ErrInFlight):
		return "Still sending the last reply..."
	case errors.Is(err, domain.ErrUnauthorized):
		return "Error: session expired, sign in again."
	default:
		return "Error replying: " + err.Error()
	}
}
