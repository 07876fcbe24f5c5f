package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "doa").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "doa.log"), nil
}

// setupLog sends log output to a file so it never draws over the TUI. The
// returned func closes the file.
func setupLog() (func() error, error) {
	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	setLogLevel()
	return f.Close, nil
}

func setLogLevel() {
	if viper.GetBool("debug") || os.Getenv("DOA_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}
