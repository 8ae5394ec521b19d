package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Settings is the persisted server configuration. API credentials may come
// from the settings file or from the environment; environment wins.
type Settings struct {
	Port    int    `json:"port"`
	DataDir string `json:"dataDir"`

	// External service credentials
	TMDBAPIKey   string `json:"tmdbApiKey"`
	GeminiAPIKey string `json:"geminiApiKey"`

	// Token signing secret for bearer tokens
	JWTSecret string `json:"jwtSecret"`

	// Per-route request cap (requests per minute per client IP)
	RateLimitPerMinute int `json:"rateLimitPerMinute"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		Port:               5000,
		DataDir:            "./data",
		RateLimitPerMinute: 30,
	}
}

// Manager loads and persists settings with atomic writes. Reads are cheap;
// the loaded value is cached until Save.
type Manager struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string

	loaded   bool
	settings Settings
}

// NewManager creates a manager for the settings file at path, backed by the
// OS filesystem.
func NewManager(path string) *Manager {
	return NewManagerWithFs(afero.NewOsFs(), path)
}

// NewManagerWithFs creates a manager on an explicit filesystem. Tests use an
// in-memory fs.
func NewManagerWithFs(fs afero.Fs, path string) *Manager {
	return &Manager{fs: fs, path: path}
}

// Load returns the current settings, reading the file on first use and
// applying environment overrides on every call.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		settings := DefaultSettings()
		data, err := afero.ReadFile(m.fs, m.path)
		switch {
		case os.IsNotExist(err):
			// First run, keep defaults
		case err != nil:
			return Settings{}, fmt.Errorf("read settings: %w", err)
		default:
			if err := json.Unmarshal(data, &settings); err != nil {
				return Settings{}, fmt.Errorf("decode settings: %w", err)
			}
		}
		m.settings = settings
		m.loaded = true
	}

	return applyEnvOverrides(m.settings), nil
}

// Save persists the settings atomically and updates the cached copy.
func (m *Manager) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dir := filepath.Dir(m.path); dir != "" && dir != "." {
		if err := m.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings temp file: %w", err)
	}
	if err := m.fs.Rename(tmp, m.path); err != nil {
		_ = m.fs.Remove(tmp)
		return fmt.Errorf("replace settings file: %w", err)
	}

	m.settings = settings
	m.loaded = true
	return nil
}

func applyEnvOverrides(s Settings) Settings {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("REELOG_DATA_DIR")); v != "" {
		s.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); v != "" {
		s.TMDBAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		s.GeminiAPIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		s.JWTSecret = v
	}
	return s
}
