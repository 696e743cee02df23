package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Research contains orchestrator and collector tuning.
type Research struct {
	WaveSize                int  `toml:"wave_size"`
	CollectorTimeoutSeconds int  `toml:"collector_timeout_seconds"`
	WaveBudgetSeconds       int  `toml:"wave_budget_seconds"`
	MaxResults              int  `toml:"max_results"`
	MaxRetries              int  `toml:"max_retries"`
	RetryBackoffMillis      int  `toml:"retry_backoff_millis"`
	EarlyStop               bool `toml:"early_stop"`
	RecordHistory           bool `toml:"record_history"`
}

// Thresholds contains the quality gates a solved record must clear.
type Thresholds struct {
	MinCompleteness  float64 `toml:"min_completeness"`
	MinConfidence    float64 `toml:"min_confidence"`
	MinSources       int     `toml:"min_sources"`
	MinAudioQuality  string  `toml:"min_audio_quality"`
	TitleSimilarity  float64 `toml:"title_similarity"`
	ArtistSimilarity float64 `toml:"artist_similarity"`
}

// Acquisition contains option-ranking preferences.
type Acquisition struct {
	IncludePhysical    bool    `toml:"include_physical"`
	IncludePeerNetwork bool    `toml:"include_peer_network"`
	MaxPrice           float64 `toml:"max_price"`
	PreferredQuality   string  `toml:"preferred_quality"`
}

// Source contains per-source adapter configuration. Credential fields support
// ${ENV_VAR} expansion so secrets can stay out of the config file.
type Source struct {
	Enabled         bool   `toml:"enabled"`
	ClientID        string `toml:"client_id"`
	ClientSecret    string `toml:"client_secret"`
	Token           string `toml:"token"`
	UserAgent       string `toml:"user_agent"`
	BaseURL         string `toml:"base_url"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
	RateLimitMillis int    `toml:"rate_limit_millis"`
}

// Config is the root configuration object.
type Config struct {
	Paths       Paths             `toml:"paths"`
	Logging     Logging           `toml:"logging"`
	Research    Research          `toml:"research"`
	Thresholds  Thresholds        `toml:"thresholds"`
	Acquisition Acquisition       `toml:"acquisition"`
	Sources     map[string]Source `toml:"sources"`
}

// DefaultConfigPath returns the expanded default config file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trackdig/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and credential fields env-expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trackdig.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Thresholds.MinAudioQuality = strings.ToLower(strings.TrimSpace(c.Thresholds.MinAudioQuality))
	c.Acquisition.PreferredQuality = strings.ToLower(strings.TrimSpace(c.Acquisition.PreferredQuality))
	for name, src := range c.Sources {
		src.ClientID = os.ExpandEnv(src.ClientID)
		src.ClientSecret = os.ExpandEnv(src.ClientSecret)
		src.Token = os.ExpandEnv(src.Token)
		c.Sources[name] = src
	}
	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SourceSettings returns the configuration for a named source, falling back
// to that source's defaults when the config file omits the section.
func (c *Config) SourceSettings(name string) Source {
	if src, ok := c.Sources[name]; ok {
		return src
	}
	return defaultSources()[name]
}

// EnabledSources returns the names of every source enabled in config, in
// deterministic order.
func (c *Config) EnabledSources() []string {
	names := make([]string, 0, len(c.Sources))
	for _, name := range KnownSources {
		if src, ok := c.Sources[name]; ok && src.Enabled {
			names = append(names, name)
		}
	}
	return names
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
