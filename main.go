// Package main provides the entry point for the doa CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/doa/internal/assistant"
	"github.com/dgnsrekt/doa/internal/audio"
	"github.com/dgnsrekt/doa/ui"
	"github.com/dgnsrekt/doa/utils"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	style      string
	width      uint
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "doa",
		Short: "Daily prayers in the terminal, read aloud",
		Long: paragraph(
			fmt.Sprintf("\nBrowse daily prayers, %s, and ask the assistant about prayers and etiquette.", keyword("hear them read aloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return runTUI()
		},
	}
)

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if style != "auto" && styles.DefaultStyles[style] == nil {
		style = utils.ExpandPath(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func validateOptions(cmd *cobra.Command) error {
	// A missing file is left for `doa config` to create.
	if cmd.Flags().Changed("config") {
		configFile = utils.ExpandPath(configFile)
		if _, err := os.Stat(configFile); err == nil {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("unable to read config file: %w", err)
			}
			log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		}
	}

	// grab config values from Viper
	width = viper.GetUint("width")
	mouse = viper.GetBool("mouse")
	setLogLevel()

	// validate the glamour style
	style = viper.GetString("style")
	if err := validateStyle(style); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = "notty"
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func runTUI() error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or auto if unset
	if err := validateStyle(cfg.GlamourStyle); err != nil {
		cfg.GlamourStyle = style
	}

	s, err := loadSettings(viper.GetViper())
	if err != nil {
		return err
	}
	cat, err := openCatalog(s.CatalogPath)
	if err != nil {
		return err
	}
	client, speechCache, err := newAssistant(s)
	if err != nil {
		return err
	}
	defer logCacheStats(speechCache)

	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse
	cfg.Voice = s.Voice
	cfg.CatalogPath = s.CatalogPath

	p := ui.NewProgram(cfg, ui.Deps{
		Catalog:    cat,
		Assistant:  client,
		Device:     audio.NewOtoDevice(audio.DefaultPlayerConfig()),
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
	})

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			log.Info("configuration changed", "file", e.Name, "op", e.Op)
			voice, err := assistant.ParseVoice(viper.GetString("voice"))
			if err != nil {
				log.Warn("ignoring voice from configuration", "error", err)
				return
			}
			p.Send(ui.VoiceMsg(voice))
		})
		viper.WatchConfig()
	}

	// Run Bubble Tea program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	// API keys may live in a .env file next to where doa is run.
	_ = godotenv.Load()

	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&style, "style", "s", styles.AutoStyle, "style name or JSON path")
	rootCmd.PersistentFlags().UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to disable)")
	rootCmd.PersistentFlags().Bool("debug", false, "write debug messages to the log file")
	rootCmd.PersistentFlags().String("catalog", "", "prayer file to use instead of the built-in collection")
	rootCmd.PersistentFlags().String("provider", "", "assistant provider (gemini, openai)")
	rootCmd.Flags().String("voice", "", "voice preset (Kore, Puck, Charon, Fenrir, Zephyr)")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("style", rootCmd.PersistentFlags().Lookup("style"))
	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("assistant.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("style", styles.AutoStyle)
	viper.SetDefault("width", 0)
	viper.SetDefault("voice", string(assistant.DefaultVoice))
	viper.SetDefault("assistant.provider", assistant.ProviderGemini)
	viper.SetDefault("audio.sample_rate", audio.DefaultSampleRate)
	viper.SetDefault("audio.channels", audio.DefaultChannels)
	viper.SetDefault("audio.cache.enabled", false)
	viper.SetDefault("audio.cache.max_size", 16)

	rootCmd.AddCommand(configCmd, manCmd, listCmd, showCmd, playCmd, askCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "doa")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "doa")}, dirs...)
	}

	if c := os.Getenv("DOA_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("doa")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("doa")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "doa.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
