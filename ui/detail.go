package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/catalog"
	"github.com/dgnsrekt/doa/internal/playback"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const (
	statusBarHeight = 1
	buttonBarHeight = 2
)

var (
	detailHelpHeight int

	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	statusBarScrollPosStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(cream).
				Background(brightRed).
				Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"}).
			Render
)

type detailState int

const (
	detailStateBrowse detailState = iota
	detailStateStatusMessage
)

type statusMessage struct {
	message string
	isError bool
}

type detailModel struct {
	common   *commonModel
	viewport viewport.Model
	spinner  spinner.Model
	state    detailState
	showHelp bool

	prayer    catalog.Prayer
	playState playback.State

	statusMessage      statusMessage
	statusMessageTimer *time.Timer
}

func newDetailModel(common *commonModel) detailModel {
	vp := viewport.New(0, 0)
	vp.YPosition = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(emerald)

	return detailModel{
		common:   common,
		viewport: vp,
		spinner:  sp,
		state:    detailStateBrowse,
	}
}

func (m *detailModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - statusBarHeight - buttonBarHeight

	if m.showHelp {
		if detailHelpHeight == 0 {
			detailHelpHeight = strings.Count(m.helpView(), "\n")
		}
		m.viewport.Height -= (statusBarHeight + detailHelpHeight)
	}
	m.viewport.Height = max(0, m.viewport.Height)
	m.render()
}

func (m *detailModel) load(p catalog.Prayer) {
	m.prayer = p
	m.viewport.GotoTop()
	m.render()
}

func (m *detailModel) unload() {
	if m.showHelp {
		m.toggleHelp()
	}
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.state = detailStateBrowse
	m.prayer = catalog.Prayer{}
	m.viewport.SetContent("")
	m.viewport.YOffset = 0
}

func (m *detailModel) render() {
	if m.prayer.ID == 0 {
		return
	}
	m.viewport.SetContent(prayerView(m.prayer, m.viewport.Width))
}

// prayerView lays out a prayer for the given width.
func prayerView(p catalog.Prayer, width int) string {
	w := max(20, width-4)

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n", headerStyle(p.Title))
	fmt.Fprintf(&b, "  %s\n", subtleStyle(p.Category))

	arabic := arabicStyle.Width(w).Align(lipgloss.Right).Render(p.Arabic)
	b.WriteString(indent(arabic, 2))

	b.WriteString(indent(latinStyle.Width(w).Render(p.Latin), 2))
	b.WriteString("\n")
	b.WriteString(indent(labelStyle.Render("Artinya:"), 2))
	b.WriteString(indent(meaningStyle.Width(w).Render(p.Meaning), 2))
	return b.String()
}

func (m *detailModel) toggleHelp() {
	m.showHelp = !m.showHelp
	m.setSize(m.common.width, m.common.height)
	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

func (m *detailModel) showStatusMessage(msg statusMessage) tea.Cmd {
	m.state = detailStateStatusMessage
	m.statusMessage = msg
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)

	return waitForStatusMessageTimeout(detailContext, m.statusMessageTimer)
}

// copyText is what the copy key puts on the clipboard.
func copyText(p catalog.Prayer) string {
	return strings.Join([]string{p.Title, p.Arabic, p.Latin, p.Meaning}, "\n\n")
}

func (m detailModel) update(msg tea.Msg) (detailModel, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", keyEsc:
			if m.state != detailStateBrowse {
				m.state = detailStateBrowse
				return m, nil
			}
		case "home", "g":
			m.viewport.GotoTop()
		case "end", "G":
			m.viewport.GotoBottom()

		case " ", "p", keyEnter:
			if m.common.player == nil || m.playState.Busy() || m.common.player.Busy() {
				return m, nil
			}
			return m, playPrayerCmd(m.common.player, m.prayer, m.common.voice)

		case "v":
			m.common.voice = nextVoice(m.common.voice)
			cmds = append(cmds, m.showStatusMessage(statusMessage{"Suara: " + string(m.common.voice), false}))

		case "c":
			text := copyText(m.prayer)
			// Copy using OSC 52
			termenv.Copy(text)
			// Copy using native system clipboard
			if err := clipboard.WriteAll(text); err != nil {
				log.Debug("native clipboard unavailable", "error", err)
			}
			cmds = append(cmds, m.showStatusMessage(statusMessage{"Doa disalin", false}))

		case "?":
			m.toggleHelp()
		}

	case playbackStateMsg:
		prev := m.playState
		m.playState = playback.State(msg)
		if m.playState.Busy() && !prev.Busy() {
			cmds = append(cmds, m.spinner.Tick)
		}

	case playbackNoticeMsg:
		cmds = append(cmds, m.showStatusMessage(statusMessage{string(msg), true}))

	case spinner.TickMsg:
		if m.playState.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.render()

	case statusMessageTimeoutMsg:
		m.state = detailStateBrowse
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func nextVoice(v assistant.Voice) assistant.Voice {
	voices := assistant.Voices()
	for i, candidate := range voices {
		if candidate == v {
			return voices[(i+1)%len(voices)]
		}
	}
	return assistant.DefaultVoice
}

func (m detailModel) View() string {
	var b strings.Builder
	fmt.Fprint(&b, m.viewport.View()+"\n")
	fmt.Fprint(&b, m.buttonView()+"\n\n")

	m.statusBarView(&b)

	if m.showHelp {
		fmt.Fprint(&b, "\n"+m.helpView())
	}
	return b.String()
}

func (m detailModel) buttonView() string {
	label := m.playState.Label()
	switch m.playState {
	case playback.StateRequesting, playback.StateDecoding:
		return "  " + busyButtonStyle.Render(m.spinner.View()+" "+label)
	case playback.StatePlaying:
		return "  " + busyButtonStyle.Render("♪ "+label)
	default:
		return "  " + buttonStyle.Render("▶ "+label) + " " + subtleStyle("spasi")
	}
}

func (m detailModel) statusBarView(b *strings.Builder) {
	const (
		minPercent               float64 = 0.0
		maxPercent               float64 = 1.0
		percentToStringMagnitude float64 = 100.0
	)

	showStatusMessage := m.state == detailStateStatusMessage
	style := statusBarMessageStyle
	if m.statusMessage.isError {
		style = statusBarErrorStyle
	}

	logo := logoView()

	percent := math.Max(minPercent, math.Min(maxPercent, m.viewport.ScrollPercent()))
	scrollPercent := fmt.Sprintf(" %3.f%% ", percent*percentToStringMagnitude)
	if showStatusMessage {
		scrollPercent = style(scrollPercent)
	} else {
		scrollPercent = statusBarScrollPosStyle(scrollPercent)
	}

	var helpNote string
	if showStatusMessage {
		helpNote = style(" ? Bantuan ")
	} else {
		helpNote = statusBarHelpStyle(" ? Bantuan ")
	}

	var note string
	if showStatusMessage {
		note = m.statusMessage.message
	} else {
		note = m.prayer.Title + " | Suara: " + string(m.common.voice)
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = style(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = style(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	fmt.Fprintf(b, "%s%s%s%s%s",
		logo,
		note,
		emptySpace,
		scrollPercent,
		helpNote,
	)
}

func (m detailModel) helpView() (s string) {
	col1 := []string{
		"spasi   dengarkan doa",
		"v       ganti suara",
		"c       salin doa",
		"esc     kembali",
		"q       keluar",
	}

	s += "\n"
	s += "k/↑      naik                " + col1[0] + "\n"
	s += "j/↓      turun               " + col1[1] + "\n"
	s += "g/home   ke atas             " + col1[2] + "\n"
	s += "G/end    ke bawah            " + col1[3] + "\n"
	s += "u/d      ½ halaman           " + col1[4]

	s = indent(s, 2)

	// Fill up empty cells with spaces for background coloring
	if m.common.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}

		s = strings.Join(lines, "\n")
	}

	return helpViewStyle(s)
}
