package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/stories/internal/config"
	"github.com/idilsaglam/stories/internal/fetch"
	"github.com/idilsaglam/stories/internal/logging"
	"github.com/idilsaglam/stories/internal/store"
	"github.com/idilsaglam/stories/internal/ui"
)

// session bundles what every command needs; close releases the log file and
// the preferences store.
type session struct {
	cfg     config.Config
	log     zerolog.Logger
	kv      store.KV
	closers []io.Closer
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
}

// openSession loads config, applies flag overrides and opens the logger and
// the KV. When toFile is set and no log file is configured, logs go to the
// default log file so they do not draw over the TUI.
func openSession(g *globalFlags, stderr io.Writer, toFile bool) (*session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.theme != "" {
		cfg.UI.Theme = g.theme
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	ui.SetTheme(cfg.UI.Theme)

	s := &session{cfg: cfg}

	logPath := cfg.Log.File
	if logPath == "" && toFile {
		if logPath, err = logging.DefaultFile(); err != nil {
			return nil, err
		}
	}
	w := stderr
	if logPath != "" {
		f, err := logging.OpenFile(logPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, f)
		w = f
	}
	if s.log, err = logging.New(w, cfg.Log.Level); err != nil {
		s.close()
		return nil, err
	}

	kv, closer, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	s.kv = kv
	s.closers = append(s.closers, closer)
	s.log.Debug().Str("driver", cfg.Storage.Driver).Str("source", cfg.Fetch.Source).Msg("session opened")
	return s, nil
}

// source builds the fetch collaborator named by the config.
func (s *session) source() fetch.Source {
	if s.cfg.Fetch.Source == "file" {
		return fetch.NewFileSource(s.cfg.Fetch.File)
	}
	return fetch.NewSeedSource(fetch.DefaultSeed(), s.cfg.Fetch.Delay, s.cfg.Fetch.Fail)
}
