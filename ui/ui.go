// Package ui provides the terminal interface for browsing prayers, hearing
// them read aloud and asking the assistant.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/audio"
	"github.com/dgnsrekt/doa/internal/catalog"
	"github.com/dgnsrekt/doa/internal/chat"
	"github.com/dgnsrekt/doa/internal/playback"
	"github.com/fsnotify/fsnotify"
	te "github.com/muesli/termenv"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied"
	ellipsis             = "…"

	keyEsc   = "esc"
	keyEnter = "enter"
)

// Deps are the collaborators the interface drives.
type Deps struct {
	Catalog   *catalog.Catalog
	Assistant *assistant.Client
	Device    audio.Device

	SampleRate int
	Channels   int
}

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug(
		"Starting doa",
		"glamour",
		cfg.GlamourEnabled,
		"catalog",
		deps.Catalog.Len(),
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	m := newModel(cfg, deps)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type (
	statusMessageTimeoutMsg applicationContext
	catalogChangedMsg       struct{}
	catalogReloadedMsg      struct{ catalog *catalog.Catalog }
)

// applicationContext indicates the area of the application something applies
// to. Occasionally used as an argument to commands and messages.
type applicationContext int

const (
	listContext applicationContext = iota
	detailContext
)

// state is the top-level application state.
type state int

const (
	stateShowList state = iota
	stateShowDetail
	stateShowChat
)

func (s state) String() string {
	return map[state]string{
		stateShowList:   "showing prayer list",
		stateShowDetail: "showing prayer",
		stateShowChat:   "showing chat",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg     Config
	width   int
	height  int
	catalog *catalog.Catalog
	player  *playback.Controller
	voice   assistant.Voice
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	// Sub-models
	list   listModel
	detail detailModel
	chat   chatModel

	events  playbackEvents
	watcher *fsnotify.Watcher
}

func newModel(cfg Config, deps Deps) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}

	voice, err := assistant.ParseVoice(cfg.Voice)
	if err != nil {
		log.Warn("unknown voice, using default", "voice", cfg.Voice, "default", assistant.DefaultVoice)
		voice = assistant.DefaultVoice
	}

	events := newPlaybackEvents()
	common := commonModel{
		cfg:     cfg,
		catalog: deps.Catalog,
		player:  newPlayer(deps.Assistant, events, deps),
		voice:   voice,
	}

	var answerer chat.Answerer
	if deps.Assistant != nil {
		answerer = deps.Assistant
	}
	session := chat.NewSession(answerer, chat.WithGreeting())

	m := model{
		common: &common,
		state:  stateShowList,
		list:   newListModel(&common),
		detail: newDetailModel(&common),
		chat:   newChatModel(&common, session),
		events: events,
	}
	m.initWatcher()
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "state", m.state)
	cmds := []tea.Cmd{waitForPlaybackEvent(m.events)}
	if m.watcher != nil {
		cmds = append(cmds, m.watchCatalog)
	}
	return tea.Batch(cmds...)
}

func (m *model) openList() {
	m.state = stateShowList
	m.detail.unload()
	m.chat.input.Blur()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyEsc:
			switch m.state { //nolint:exhaustive
			case stateShowDetail:
				if m.detail.state == detailStateBrowse {
					m.openList()
					return m, nil
				}
			case stateShowChat:
				m.openList()
				return m, nil
			}

		case "q":
			if m.state == stateShowChat || (m.state == stateShowList && m.list.filtering) {
				break
			}
			if m.state == stateShowDetail && m.detail.state != detailStateBrowse {
				break
			}
			return m, tea.Quit

		case "ctrl+z":
			return m, tea.Suspend

		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c":
			return m, tea.Quit
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.detail.setSize(msg.Width, msg.Height)
		m.chat.setSize(msg.Width, msg.Height)
		return m, nil

	case openPrayerMsg:
		m.state = stateShowDetail
		m.detail.load(catalog.Prayer(msg))
		return m, nil

	case openChatMsg:
		m.state = stateShowChat
		return m, m.chat.focus()

	case VoiceMsg:
		if v := assistant.Voice(msg); v.Valid() {
			m.common.voice = v
		}
		return m, nil

	// Playback events go to the detail view whichever view is showing so
	// its button stays in sync.
	case playbackStateMsg, playbackNoticeMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.update(msg)
		return m, tea.Batch(cmd, waitForPlaybackEvent(m.events))

	case playbackDoneMsg:
		if msg.err != nil {
			log.Debug("playback returned error", "error", msg.err)
		}
		return m, nil

	case chatReplyMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(msg)
		return m, cmd

	case spinner.TickMsg:
		var detailCmd, chatCmd tea.Cmd
		m.detail, detailCmd = m.detail.update(msg)
		m.chat, chatCmd = m.chat.update(msg)
		return m, tea.Batch(detailCmd, chatCmd)

	case statusMessageTimeoutMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.update(msg)
		return m, cmd

	case catalogChangedMsg, editorFinishedMsg:
		if e, ok := msg.(editorFinishedMsg); ok && e.err != nil {
			log.Error("editor failed", "error", e.err)
		}
		cmds = append(cmds, reloadCatalogCmd(m.common.cfg.CatalogPath))
		if _, ok := msg.(catalogChangedMsg); ok {
			cmds = append(cmds, m.watchCatalog)
		}
		return m, tea.Batch(cmds...)

	case catalogReloadedMsg:
		m.common.catalog = msg.catalog
		m.list.reload()
		return m, nil

	case errMsg:
		log.Error("catalog reload failed", "error", msg.err)
		return m, nil
	}

	switch m.state {
	case stateShowList:
		newListModel, cmd := m.list.update(msg)
		m.list = newListModel
		cmds = append(cmds, cmd)

	case stateShowDetail:
		newDetailModel, cmd := m.detail.update(msg)
		m.detail = newDetailModel
		cmds = append(cmds, cmd)

	case stateShowChat:
		newChatModel, cmd := m.chat.update(msg)
		m.chat = newChatModel
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state {
	case stateShowDetail:
		return m.detail.View()
	case stateShowChat:
		return m.chat.view()
	default:
		return m.list.view()
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

func waitForStatusMessageTimeout(appCtx applicationContext, t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg(appCtx)
	}
}

func reloadCatalogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		c, err := catalog.Load(path)
		if err != nil {
			return errMsg{err}
		}
		log.Info("catalog reloaded", "path", path, "prayers", c.Len())
		return catalogReloadedMsg{c}
	}
}

func (m *model) initWatcher() {
	if m.common.cfg.CatalogPath == "" {
		return
	}
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return
	}
	dir := filepath.Dir(m.common.cfg.CatalogPath)
	if err := m.watcher.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		_ = m.watcher.Close()
		m.watcher = nil
		return
	}
	log.Info("fsnotify watching dir", "dir", dir)
}

// watchCatalog blocks until the catalog file is written.
func (m model) watchCatalog() tea.Msg {
	path := m.common.cfg.CatalogPath
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return catalogChangedMsg{}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", path, "error", err)
		}
	}
}

// ETC

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
