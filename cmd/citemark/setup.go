package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/matsen/citemark/internal/citation"
	"github.com/matsen/citemark/internal/config"
	"github.com/matsen/citemark/internal/mdext"
	"github.com/matsen/citemark/internal/storage"
)

// mustLoadConfig returns the effective configuration: config file, then
// .env and environment, then command-line flags.
func mustLoadConfig() *config.Config {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if bibFlag != "" {
		cfg.Bibliography = config.ExpandPath(bibFlag)
	}
	if rootFlag != "" {
		cfg.Root = config.ExpandPath(rootFlag)
	}
	return cfg
}

func mustLogger(cfg *config.Config) *zap.Logger {
	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "creating logger: %v", err)
	}
	return log
}

func newSession(cfg *config.Config, log *zap.Logger) *citation.Session {
	return citation.NewSession(
		citation.WithLogger(log),
		citation.WithLoader(storage.Loader(cfg.Encoding)),
	)
}

// newConverter builds a converter for the document at docPath. Without a
// configured root, bibliography paths in metadata are relative to the
// document.
func newConverter(cfg *config.Config, log *zap.Logger, docPath string) *mdext.Converter {
	root := cfg.Root
	if root == "" && docPath != "-" {
		root = filepath.Dir(docPath)
	}
	return mdext.NewConverter(newSession(cfg, log), mdext.Options{
		Bibliography: cfg.Bibliography,
		Root:         root,
		Placeholder:  cfg.Placeholder,
		SafeHTML:     cfg.SafeHTML,
		GFM:          cfg.GFM,
		Logger:       log,
	})
}

// mustReadDocument reads path, or stdin for "-".
func mustReadDocument(path string) []byte {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		exitWithError(ExitDataError, "reading document: %v", err)
	}
	return data
}

// mustLoadSession returns a session with the configured bibliography
// loaded, for commands that work on the bibliography alone.
func mustLoadSession(cfg *config.Config, log *zap.Logger) *citation.Session {
	if cfg.Bibliography == "" {
		exitWithError(ExitConfigError, "no bibliography given (use --bib or set %s)", config.EnvBibliography)
	}
	s := newSession(cfg, log)
	s.Configure(cfg.Bibliography)
	s.EnsureLoaded()
	for _, d := range s.Diagnostics() {
		if d.Kind == citation.DiagLoad && s.Store().Len() == 0 {
			exitWithError(ExitDataError, "%s", d.Message)
		}
	}
	return s
}
