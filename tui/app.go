package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/terminalmumble/app"
	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/infra/editor"
	"github.com/CrestNiraj12/terminalmumble/postdetail"
	"github.com/CrestNiraj12/terminalmumble/session"
	"github.com/CrestNiraj12/terminalmumble/tui/common"
	"github.com/CrestNiraj12/terminalmumble/tui/compose"
	"github.com/CrestNiraj12/terminalmumble/tui/detail"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Posts       app.PostService
	Coordinator *postdetail.Coordinator
	Watcher     *session.Watcher
	// Session is the raw session loaded at start-up.
	Session domain.Session
	// LoadSession re-reads the raw identity-provider session.
	LoadSession func() (domain.Session, error)
	Editor      *editor.EnvEditor
	Logger      *zap.Logger
}

type activeView int

const (
	detailView activeView = iota
	composeView
)

// SessionEnrichedMsg is sent after the raw session went through the watcher.
type SessionEnrichedMsg struct {
	Session domain.Session
	Changed bool
	Err     error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps    Deps
	active  activeView
	detail  detail.Model
	compose compose.Model
	keys    common.KeyMap
	status  string // Transient status message (e.g. "Reply posted.")
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return App{
		deps:   deps,
		active: detailView,
		detail: detail.New(deps.Posts, deps.Coordinator, deps.Session),
		keys:   common.DefaultKeyMap(),
	}
}

// Init loads the post and enriches the session concurrently.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.detail.Init(),
		a.enrichSession(),
	)
}

// PostID returns the post shown by the app.
func (a App) PostID() string {
	return a.deps.Coordinator.PostID()
}

// enrichSession re-reads the raw session and feeds it to the watcher, which
// only fetches the profile when the session changed.
func (a App) enrichSession() tea.Cmd {
	load := a.deps.LoadSession
	watcher := a.deps.Watcher
	return func() tea.Msg {
		if load == nil || watcher == nil {
			return nil
		}
		raw, err := load()
		if err != nil {
			return SessionEnrichedMsg{Err: fmt.Errorf("loading session: %w", err)}
		}
		s, changed, err := watcher.Update(context.Background(), raw)
		return SessionEnrichedMsg{Session: s, Changed: changed, Err: err}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.active == detailView {
			if key.Matches(msg, a.keys.Quit) {
				return a, tea.Quit
			}
			if key.Matches(msg, a.keys.Refresh) {
				a.status = ""
				var cmd tea.Cmd
				a.detail, cmd = a.detail.Update(msg)
				return a, tea.Batch(cmd, a.enrichSession())
			}
		}

	case tea.WindowSizeMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case SessionEnrichedMsg:
		if msg.Err != nil {
			// The raw session stays usable; only the profile is missing.
			a.deps.Logger.Warn("session not enriched", zap.Error(msg.Err))
		}
		if !msg.Changed {
			return a, nil
		}
		var cmd tea.Cmd
		a.detail, cmd = a.detail.SetSession(msg.Session)
		return a, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case detail.ComposeReplyMsg:
		a.active = composeView
		a.status = ""
		if msg.Inline {
			a.compose = compose.NewInline(msg.ReplyTo)
		} else {
			a.compose = compose.NewEditor(a.deps.Editor, msg.ReplyTo)
		}
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.active = detailView
		if msg.Err != nil {
			a.status = "Error: " + msg.Err.Error()
			return a, nil
		}
		if msg.Text == "" {
			a.status = "Cancelled."
			return a, nil
		}
		form, closeImage, err := replyForm(msg)
		if err != nil {
			a.status = "Error: " + err.Error()
			return a, nil
		}
		a.status = "Sending reply..."
		submit := a.detail.SubmitReply(form)
		return a, func() tea.Msg {
			defer closeImage()
			return submit()
		}

	case detail.LikeResultMsg, detail.ReplyResultMsg:
		a.status = ""
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}

	// Delegate to the active sub-model.
	switch a.active {
	case detailView:
		updated, cmd := a.detail.Update(msg)
		a.detail = updated
		return a, cmd
	case composeView:
		updated, cmd := a.compose.Update(msg)
		a.compose = updated
		return a, cmd
	}

	return a, nil
}

// replyForm opens the optional image so it can be streamed to the backend.
// The returned func closes it once the request finished.
func replyForm(msg compose.DoneMsg) (postdetail.ReplyForm, func(), error) {
	form := postdetail.ReplyForm{Text: msg.Text}
	if msg.ImagePath == "" {
		return form, func() {}, nil
	}
	f, err := os.Open(msg.ImagePath)
	if err != nil {
		return form, nil, fmt.Errorf("opening image: %w", err)
	}
	form.Image = &app.Upload{Filename: filepath.Base(msg.ImagePath), Content: f}
	return form, func() { _ = f.Close() }, nil
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case detailView:
		s = a.detail.View()
	case composeView:
		s = a.compose.View()
	}

	status := a.status
	if status == "" && a.active == detailView {
		status = a.detail.Status()
	}
	if status != "" {
		s += "\n" + common.StatusBarStyle.Render(status)
	}

	return s
}
