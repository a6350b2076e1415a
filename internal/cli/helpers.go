package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/imkarma/crmboard/internal/config"
	"github.com/imkarma/crmboard/internal/logging"
	"github.com/imkarma/crmboard/internal/store"
	"github.com/sirupsen/logrus"
)

const dirName = ".crmboard"

// projectPath returns the path to a file inside the project directory.
func projectPath(parts ...string) string {
	elems := append([]string{projectDir}, parts...)
	return filepath.Join(elems...)
}

// loadConfig reads config.yaml, returning an error if crmboard is not initialized.
func loadConfig() (*config.Config, error) {
	path := projectPath("config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("crmboard not initialized. Run: crmboard init")
	}
	return config.Load(path)
}

// mustStore opens the store named by the config.
func mustStore(cfg *config.Config) (*store.Store, error) {
	dbPath := config.Resolve(projectPath("config.yaml"), cfg.Database)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database %s missing. Run: crmboard init", dbPath)
	}
	return store.New(dbPath)
}

// newLogger builds the logger from config. When toFile is set and a log
// file is configured, output goes there instead of stderr.
func newLogger(cfg *config.Config, toFile bool) (*logrus.Logger, io.Closer, error) {
	path := ""
	if toFile && cfg.Log.File != "" {
		path = config.Resolve(projectPath("config.yaml"), cfg.Log.File)
	}
	return logging.New(cfg.Log.Level, path)
}

// session bundles what most commands need.
type session struct {
	cfg    *config.Config
	store  *store.Store
	log    *logrus.Logger
	closer io.Closer
}

func openSession(logToFile bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := mustStore(cfg)
	if err != nil {
		return nil, err
	}
	log, closer, err := newLogger(cfg, logToFile)
	if err != nil {
		s.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: s, log: log, closer: closer}, nil
}

func (s *session) Close() {
	s.store.Close()
	s.closer.Close()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
