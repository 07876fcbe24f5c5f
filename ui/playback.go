package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/catalog"
	"github.com/dgnsrekt/doa/internal/playback"
)

type (
	// playbackStateMsg reports a controller transition.
	playbackStateMsg playback.State

	// playbackNoticeMsg carries a message the user must see.
	playbackNoticeMsg string

	// playbackDoneMsg is sent when a Play call returns.
	playbackDoneMsg struct{ err error }
)

// VoiceMsg switches the read-aloud voice, e.g. after the config file
// changed.
type VoiceMsg assistant.Voice

// playbackEvents forwards controller callbacks into the program. The
// channel is drained by waitForPlaybackEvent.
type playbackEvents chan tea.Msg

func newPlaybackEvents() playbackEvents {
	return make(playbackEvents, 16)
}

// Notify implements playback.Notifier.
func (e playbackEvents) Notify(message string) {
	e <- playbackNoticeMsg(message)
}

func (e playbackEvents) stateChanged(s playback.State) {
	e <- playbackStateMsg(s)
}

func waitForPlaybackEvent(e playbackEvents) tea.Cmd {
	return func() tea.Msg {
		return <-e
	}
}

func newPlayer(client *assistant.Client, events playbackEvents, deps Deps) *playback.Controller {
	var synth playback.Synthesizer
	if client != nil {
		synth = client
	}
	ctrl := playback.NewController(synth, deps.Device,
		playback.WithNotifier(events),
		playback.WithConfig(playback.Config{
			SampleRate: deps.SampleRate,
			Channels:   deps.Channels,
		}),
	)
	ctrl.OnStateChange(events.stateChanged)
	return ctrl
}

// playPrayerCmd reads the prayer's Arabic text aloud.
func playPrayerCmd(ctrl *playback.Controller, p catalog.Prayer, voice assistant.Voice) tea.Cmd {
	return func() tea.Msg {
		log.Debug("play requested", "prayer", p.ID, "voice", voice)
		err := ctrl.Play(context.Background(), playback.Request{Text: p.Arabic, Voice: voice})
		return playbackDoneMsg{err}
	}
}
