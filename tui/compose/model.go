package compose

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/infra/editor"
)

// --- Mode ---

type mode int

const (
	editorMode mode = iota
	inlineMode
)

type focus int

const (
	focusText focus = iota
	focusImage
)

// --- Messages ---

// DoneMsg is sent when composing is complete (submit or cancel).
type DoneMsg struct {
	Text      string // Empty if cancelled
	ImagePath string // Optional image file to attach
	Err       error
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

// --- Model ---

// Model holds the state for the reply composer.
type Model struct {
	mode     mode
	editor   *editor.EnvEditor
	replyTo  string // "@user" of the post being answered
	textarea textarea.Model
	image    textinput.Model
	focus    focus
	status   string
	tmpPath  string
}

// NewEditor creates a composer that opens $EDITOR via tea.Exec.
func NewEditor(ed *editor.EnvEditor, replyTo string) Model {
	return Model{
		mode:    editorMode,
		editor:  ed,
		replyTo: replyTo,
		status:  "Opening editor...",
	}
}

// NewInline creates a composer with an inline textarea and an image path field.
func NewInline(replyTo string) Model {
	ta := textarea.New()
	ta.Placeholder = "Was meinst du dazu?"
	ta.CharLimit = domain.MaxReplyLength
	ta.SetWidth(72)
	ta.SetHeight(5)
	ta.Focus()

	img := textinput.New()
	img.Placeholder = "optional image path"
	img.Prompt = "image: "
	img.Width = 60

	return Model{
		mode:     inlineMode,
		replyTo:  replyTo,
		textarea: ta,
		image:    img,
	}
}

// Init returns the initial command for the active mode.
func (m Model) Init() tea.Cmd {
	switch m.mode {
	case editorMode:
		return m.launchEditor()
	case inlineMode:
		return textarea.Blink
	}
	return nil
}

// launchEditor prepares the editor command and uses tea.ExecProcess so
// Bubble Tea releases the terminal while the editor runs.
func (m *Model) launchEditor() tea.Cmd {
	if m.editor == nil {
		return done(DoneMsg{Err: fmt.Errorf("no editor configured")})
	}
	cmd, tmpPath, err := m.editor.Cmd("", m.replyTo)
	if err != nil {
		return done(DoneMsg{Err: fmt.Errorf("preparing editor: %w", err)})
	}
	m.tmpPath = tmpPath

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

// Update handles messages for the composer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {

	case editorFinishedMsg:
		if msg.err != nil {
			return m, done(DoneMsg{Err: fmt.Errorf("editor: %w", msg.err)})
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			return m, done(DoneMsg{Err: err})
		}
		// Empty content cancels.
		return m, done(DoneMsg{Text: content})

	case tea.KeyMsg:
		if m.mode != inlineMode {
			break
		}

		switch msg.String() {
		case "esc":
			return m, done(DoneMsg{})

		case "ctrl+d":
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, done(DoneMsg{})
			}
			return m, done(DoneMsg{Text: text, ImagePath: strings.TrimSpace(m.image.Value())})

		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		}

		var cmd tea.Cmd
		if m.focus == focusImage {
			m.image, cmd = m.image.Update(msg)
		} else {
			m.textarea, cmd = m.textarea.Update(msg)
		}
		return m, cmd
	}

	if m.mode == inlineMode {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) toggleFocus() {
	if m.focus == focusText {
		m.focus = focusImage
		m.textarea.Blur()
		m.image.Focus()
		return
	}
	m.focus = focusText
	m.image.Blur()
	m.textarea.Focus()
}

// done wraps a DoneMsg into a tea.Cmd for immediate delivery.
func done(msg DoneMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
