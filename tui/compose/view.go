package compose

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/tui/common"
)

// View renders the composer for the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		b.WriteString(common.AppTitleStyle.Render("terminalmumble"))
		header := "  New reply"
		if m.replyTo != "" {
			header += " to " + m.replyTo
		}
		b.WriteString(header + "\n\n")
		b.WriteString(m.textarea.View())
		b.WriteString("\n")
		b.WriteString(m.image.View())
		b.WriteString("\n")

		if m.status != "" {
			b.WriteString(common.StatusBarStyle.Render(m.status))
		} else {
			b.WriteString(common.StatusBarStyle.Render(
				fmt.Sprintf("ctrl+d: send • tab: image path • esc: cancel • %d/%d chars",
					utf8.RuneCountInString(m.textarea.Value()), domain.MaxReplyLength),
			))
		}
		return b.String()
	}

	return ""
}
