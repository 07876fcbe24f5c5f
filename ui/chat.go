package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/chat"
)

const (
	chatHeaderHeight = 3
	chatInputHeight  = 3
	chatFooterHeight = 1
)

type chatReplyMsg struct {
	turns []chat.Turn
	ok    bool
}

type chatModel struct {
	common   *commonModel
	session  *chat.Session
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	renderer *glamour.TermRenderer
	rendered []string
	sending  bool
}

func newChatModel(common *commonModel, session *chat.Session) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Tanyakan tentang doa atau adab harian..."
	ti.Prompt = "› "
	ti.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(emerald)

	return chatModel{
		common:   common,
		session:  session,
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
	}
}

func (m *chatModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = max(0, h-chatHeaderHeight-chatInputHeight-chatFooterHeight)
	m.input.Width = max(10, w-8)

	m.renderer = nil
	if m.common.cfg.GlamourEnabled {
		width := max(20, w-6)
		if mw := int(m.common.cfg.GlamourMaxWidth); mw > 0 { //nolint:gosec
			width = min(width, mw)
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(m.common.cfg.GlamourStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Error("error creating glamour renderer", "error", err)
		} else {
			m.renderer = r
		}
	}
	m.rendered = nil
	m.refresh()
}

func (m *chatModel) focus() tea.Cmd {
	m.refresh()
	return m.input.Focus()
}

// refresh renders turns that arrived since the last call.
func (m *chatModel) refresh() {
	turns := m.session.Turns()
	for i := len(m.rendered); i < len(turns); i++ {
		m.rendered = append(m.rendered, m.renderTurn(turns[i]))
	}

	content := strings.Join(m.rendered, "\n")
	if m.session.Awaiting() || m.sending {
		content += "\n" + indent(m.spinner.View()+" "+subtleStyle("Asisten sedang menjawab..."), 2)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m chatModel) renderTurn(t chat.Turn) string {
	width := max(20, m.viewport.Width-6)
	if t.Role == chat.RoleUser {
		text := userBubbleStyle.Width(min(width, lipgloss.Width(t.Text)+2)).Render(t.Text)
		return indent(userLabelStyle("Anda"), 2) + indent(text, 2)
	}

	body := lipgloss.NewStyle().Width(width).Render(t.Text)
	if m.renderer != nil {
		out, err := m.renderer.Render(t.Text)
		if err != nil {
			log.Debug("unable to render answer", "error", err)
		} else {
			body = strings.TrimRight(out, "\n")
		}
	}
	return indent(assistantLabelStyle("Asisten"), 2) + body + "\n"
}

func sendMessageCmd(s *chat.Session, text string) tea.Cmd {
	return func() tea.Msg {
		turns, ok := s.SendUserMessage(context.Background(), text)
		return chatReplyMsg{turns: turns, ok: ok}
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.sending || m.session.Awaiting() {
				return m, nil
			}
			m.sending = true
			m.input.Reset()
			m.refresh()
			return m, tea.Batch(sendMessageCmd(m.session, text), m.spinner.Tick)

		case "pgup", "pgdown", "up", "down":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case chatReplyMsg:
		m.sending = false
		if !msg.ok {
			log.Debug("message not sent", "session", m.session.ID)
		}
		m.refresh()

	case spinner.TickMsg:
		if m.sending {
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m chatModel) view() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", headerStyle("Asisten Doa"), subtleStyle("tanya jawab seputar doa dan adab"))
	b.WriteString(m.viewport.View() + "\n")
	b.WriteString(indent(inputBorderStyle.Width(max(10, m.common.width-6)).Render(m.input.View()), 1))

	help := "enter kirim • ↑/↓ gulir • esc kembali"
	if m.sending {
		help = "menunggu jawaban • esc kembali"
	}
	b.WriteString("  " + subtleStyle(help))
	return b.String()
}
