package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/CrestNiraj12/terminalmumble/domain"
	"github.com/CrestNiraj12/terminalmumble/tui/common"
)

// View renders the detail page.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("terminalmumble"))
	b.WriteString(common.TaglineStyle.Render("mumble from your terminal"))
	b.WriteString("\n\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString(fmt.Sprintf("  %s Loading mumble...\n", m.spinner.View()))
		return b.String()
	case m.err != nil && !m.loaded:
		b.WriteString(common.ErrorStyle.Render("  Error: "+m.err.Error()) + "\n")
		b.WriteString(common.StatusBarStyle.Render("r: retry • q: quit"))
		return b.String()
	}

	bodyWidth := max(m.width-8, 20)

	post := m.state.Post
	b.WriteString(common.PostCardStyle.Width(bodyWidth + 2).Render(
		m.renderMumble(post.Mumble, bodyWidth, m.cursor == 0, m.state.ReplyCount()),
	))
	b.WriteString("\n")

	if len(m.state.Replies) == 0 {
		b.WriteString(common.MetaStyle.Render("   No replies yet.") + "\n")
	}
	for i, r := range m.state.Replies {
		style := common.UnselectedStyle
		if m.cursor == i+1 {
			style = common.SelectedStyle
		}
		b.WriteString(style.Width(bodyWidth).Render(m.renderMumble(r.Mumble, bodyWidth-2, m.cursor == i+1, -1)))
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(fmt.Sprintf(" %s refreshing\n", m.spinner.View()))
	}
	if m.err != nil {
		b.WriteString(common.ErrorStyle.Render(" Error: "+m.err.Error()) + "\n")
	}
	if m.showHints {
		b.WriteString(common.StatusBarStyle.Render(hintLine(m.keys.ShortHelp())))
	}
	return b.String()
}

// renderMumble renders one card body. replies < 0 hides the reply counter.
func (m Model) renderMumble(mb domain.Mumble, width int, selected bool, replies int) string {
	var b strings.Builder

	name := mb.FullName
	if name == "" {
		name = "unknown"
	}
	header := common.AuthorStyle.Render(name)
	if mb.UserName != "" {
		header += " " + common.HandleStyle.Render("@"+mb.UserName)
	}
	if !mb.CreatedAt.IsZero() {
		header += " " + common.TimestampStyle.Render("· "+common.RelativeTime(mb.CreatedAt, m.now()))
	}
	b.WriteString(common.ClampLines(header, width))
	b.WriteString("\n")
	b.WriteString(common.ContentStyle.Render(common.Wrap(mb.Text, width)))
	b.WriteString("\n")

	if mb.MediaURL != "" {
		b.WriteString(common.MediaStyle.Render(common.ClampLines("▣ "+mb.MediaURL, width)))
		b.WriteString("\n")
	}

	heart := common.MetaStyle.Render("♡")
	if mb.LikedByUser {
		heart = common.LikedStyle.Render("♥")
	}
	meta := heart + " " + common.MetaStyle.Render(common.Count(mb.LikeCount))
	if replies >= 0 {
		meta += common.MetaStyle.Render("   ↩ " + common.Count(replies))
	}
	if selected && m.coord.Pending(mb.ID) {
		meta += " " + m.spinner.View()
	}
	b.WriteString(meta)
	return b.String()
}

func hintLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
