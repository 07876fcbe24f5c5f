package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/audio"
	"github.com/dgnsrekt/doa/internal/catalog"
	"github.com/dgnsrekt/doa/internal/chat"
	"github.com/dgnsrekt/doa/internal/playback"
	"github.com/dgnsrekt/doa/utils"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	listCategory string
	listQuery    string
	listJSON     bool
	askJSON      bool
	playVoice    string

	listCmd = &cobra.Command{
		Use:     "list",
		Short:   "List prayers",
		Long:    paragraph(fmt.Sprintf("\n%s the prayers in the collection, optionally narrowed by category or search text.", keyword("List"))),
		Example: paragraph("doa list\ndoa list --category Tidur\ndoa list --query mimpi --json"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openCatalog(catalogPath())
			if err != nil {
				return err
			}
			return writePrayerList(cmd.OutOrStdout(), c.Filter(listQuery, listCategory), listJSON)
		},
	}

	showCmd = &cobra.Command{
		Use:     "show <id|title>",
		Short:   "Show a prayer",
		Long:    paragraph(fmt.Sprintf("\n%s a prayer by its number or the closest matching title.", keyword("Show"))),
		Example: paragraph("doa show 3\ndoa show \"sebelum tidur\""),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := findPrayer(args)
			if err != nil {
				return err
			}
			out, err := renderMarkdown(prayerMarkdown(p))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	playCmd = &cobra.Command{
		Use:     "play <id|title>",
		Short:   "Read a prayer aloud",
		Long:    paragraph(fmt.Sprintf("\n%s a prayer aloud with the AI voice.", keyword("Read"))),
		Example: paragraph("doa play 1\ndoa play bangun --voice Puck"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(viper.GetViper())
			if err != nil {
				return err
			}
			if playVoice != "" {
				s.Voice = playVoice
			}
			voice, err := assistant.ParseVoice(s.Voice)
			if err != nil {
				return err
			}
			p, err := findPrayer(args)
			if err != nil {
				return err
			}
			client, speechCache, err := newAssistant(s)
			if err != nil {
				return err
			}
			defer logCacheStats(speechCache)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			ctrl := newCLIController(ctx, client, audio.NewOtoDevice(audio.DefaultPlayerConfig()), s, cmd.ErrOrStderr())
			return playPrayer(ctx, cmd.OutOrStdout(), ctrl, p, voice)
		},
	}

	askCmd = &cobra.Command{
		Use:     "ask <question...>",
		Short:   "Ask the assistant about prayers and daily etiquette",
		Long:    paragraph(fmt.Sprintf("\n%s the assistant a question about prayers or daily etiquette.", keyword("Ask"))),
		Example: paragraph("doa ask apa doa sebelum makan?\ndoa ask --json adab masuk masjid"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(viper.GetViper())
			if err != nil {
				return err
			}
			client, _, err := newAssistant(s)
			if err != nil {
				return err
			}
			return askQuestion(cmd.Context(), cmd.OutOrStdout(), client, strings.Join(args, " "), askJSON)
		},
	}
)

func catalogPath() string {
	if p := viper.GetString("catalog.path"); p != "" {
		return utils.ExpandPath(p)
	}
	return ""
}

func findPrayer(args []string) (catalog.Prayer, error) {
	c, err := openCatalog(catalogPath())
	if err != nil {
		return catalog.Prayer{}, err
	}
	return c.Find(strings.Join(args, " "))
}

func writePrayerList(w io.Writer, prayers []catalog.Prayer, asJSON bool) error {
	if asJSON {
		if prayers == nil {
			prayers = []catalog.Prayer{}
		}
		b, err := sonic.ConfigStd.MarshalIndent(prayers, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode prayers: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	if len(prayers) == 0 {
		_, err := fmt.Fprintln(w, "Tidak ada doa yang cocok.")
		return err
	}

	titleWidth := 0
	for _, p := range prayers {
		titleWidth = max(titleWidth, runewidth.StringWidth(p.Title))
	}
	for _, p := range prayers {
		if _, err := fmt.Fprintf(w, "%3d  %s  %s\n", p.ID, runewidth.FillRight(p.Title, titleWidth), p.Category); err != nil {
			return err
		}
	}
	return nil
}

// prayerMarkdown lays a prayer out for glamour.
func prayerMarkdown(p catalog.Prayer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)
	fmt.Fprintf(&b, "%s\n\n", p.Arabic)
	fmt.Fprintf(&b, "*%s*\n\n", p.Latin)
	fmt.Fprintf(&b, "**Artinya:** %s\n\n", p.Meaning)
	fmt.Fprintf(&b, "Kategori: %s\n", p.Category)
	return b.String()
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamour.WithStylePath(style),
		glamour.WithWordWrap(int(width)), //nolint:gosec
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

// newCLIController reports failures on errOut, except those caused by ctx
// being cancelled.
func newCLIController(ctx context.Context, synth playback.Synthesizer, device audio.Device, s settings, errOut io.Writer) *playback.Controller {
	return playback.NewController(synth, device,
		playback.WithConfig(playback.Config{SampleRate: s.SampleRate, Channels: s.Channels}),
		playback.WithNotifier(playback.NotifierFunc(func(msg string) {
			if ctx.Err() != nil {
				return
			}
			fmt.Fprintln(errOut, msg)
		})),
	)
}

func playPrayer(ctx context.Context, w io.Writer, ctrl *playback.Controller, p catalog.Prayer, voice assistant.Voice) error {
	ctrl.OnStateChange(func(s playback.State) {
		if s == playback.StateRequesting || s == playback.StatePlaying {
			fmt.Fprintf(w, "%s %s\n", s.Label(), keyword(p.Title))
		}
	})
	err := ctrl.Play(ctx, playback.Request{Text: p.Arabic, Voice: voice})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type askResult struct {
	Session  string      `json:"session"`
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Turns    []chat.Turn `json:"turns"`
}

func askQuestion(ctx context.Context, w io.Writer, answerer chat.Answerer, question string, asJSON bool) error {
	session := chat.NewSession(answerer)
	turns, ok := session.SendUserMessage(ctx, question)
	if !ok {
		return errors.New("question is empty")
	}
	answer := turns[len(turns)-1].Text
	log.Debug("answered question", "session", session.ID, "turns", len(turns))

	if asJSON {
		b, err := sonic.ConfigStd.MarshalIndent(askResult{
			Session:  session.ID,
			Question: strings.TrimSpace(question),
			Answer:   answer,
			Turns:    turns,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to encode answer: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	out, err := renderMarkdown(answer)
	if err != nil {
		out = answer + "\n"
	}
	_, err = fmt.Fprint(w, out)
	return err
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only prayers in this category")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "only prayers whose title or meaning contains this text")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print JSON")
	playCmd.Flags().StringVar(&playVoice, "voice", "", "voice preset (Kore, Puck, Charon, Fenrir, Zephyr)")
}
