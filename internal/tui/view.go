package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const caret = "▌"

func (m *Model) View() string {
	if !m.ui.IsReady() {
		return "Initializing..."
	}
	if m.notice != "" {
		return m.noticeView()
	}

	header := headerStyle.Width(m.ui.Width()).Align(lipgloss.Center).Render(HeaderTitle)
	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s",
		header,
		m.ui.ViewportView(),
		m.ui.InputView(),
		m.helpView(),
	)
}

func (m *Model) noticeView() string {
	box := noticeStyle.Render(m.notice + "\n\n" + helpStyle.Render("Press any key to continue."))
	return lipgloss.Place(m.ui.Width(), m.ui.Height(), lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) helpView() string {
	help := helpStyle.Render("Enter: send • Ctrl+R: dictate • Esc: stop dictation • Ctrl+C: quit")
	if m.Dictating() {
		return listenStyle.Render("● Listening") + "  " + help
	}
	return help
}

// renderMessages 渲染全部消息，加载中时在末尾显示提示
func (m *Model) renderMessages() string {
	width := m.ui.Width()
	// 气泡最多占 70% 宽度
	bubbleWidth := width * 7 / 10
	if bubbleWidth < 20 {
		bubbleWidth = width
	}

	var b strings.Builder
	for _, msg := range m.conv.Messages() {
		b.WriteString(m.renderMessage(msg, width, bubbleWidth))
		b.WriteString("\n\n")
	}
	if m.conv.Loading() {
		b.WriteString(loaderStyle.Render(m.ui.SpinnerView() + " " + LoaderText))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderMessage(msg Message, width, bubbleWidth int) string {
	text := msg.Text
	if visible, animating := m.reveals.Visible(msg.ID); animating {
		text = visible + caretStyle.Render(caret)
	}

	// 边框和内边距占 4 列
	inner := bubbleWidth - 4
	if inner > 0 && lipgloss.Width(text) > inner {
		text = lipgloss.NewStyle().Width(inner).Render(text)
	}

	label := assistantLabelStyle.Render("Assistant")
	align := lipgloss.Left
	if msg.IsUser {
		label = userLabelStyle.Render("You")
		align = lipgloss.Right
	}

	block := lipgloss.JoinVertical(align, label, bubbleStyle.Render(text))
	return lipgloss.PlaceHorizontal(width, align, block)
}
