package config

import (
	"errors"
	"fmt"
	"strings"
)

var validQualityNames = map[string]struct{}{
	"low": {}, "medium": {}, "high": {}, "lossless": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateResearch(); err != nil {
		return err
	}
	if err := c.validateThresholds(); err != nil {
		return err
	}
	if err := c.validateAcquisition(); err != nil {
		return err
	}
	return c.validateSources()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateResearch() error {
	if c.Research.WaveSize < 1 {
		return errors.New("research.wave_size must be at least 1")
	}
	if c.Research.CollectorTimeoutSeconds < 1 {
		return errors.New("research.collector_timeout_seconds must be at least 1")
	}
	if c.Research.WaveBudgetSeconds < c.Research.CollectorTimeoutSeconds {
		return errors.New("research.wave_budget_seconds must not be smaller than the collector timeout")
	}
	if c.Research.MaxResults < 1 {
		return errors.New("research.max_results must be at least 1")
	}
	if c.Research.MaxRetries < 1 {
		return errors.New("research.max_retries must be at least 1")
	}
	if c.Research.RetryBackoffMillis < 0 {
		return errors.New("research.retry_backoff_millis must not be negative")
	}
	return nil
}

func (c *Config) validateThresholds() error {
	for name, value := range map[string]float64{
		"thresholds.min_completeness":  c.Thresholds.MinCompleteness,
		"thresholds.min_confidence":    c.Thresholds.MinConfidence,
		"thresholds.title_similarity":  c.Thresholds.TitleSimilarity,
		"thresholds.artist_similarity": c.Thresholds.ArtistSimilarity,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.Thresholds.MinSources < 1 {
		return errors.New("thresholds.min_sources must be at least 1")
	}
	if _, ok := validQualityNames[c.Thresholds.MinAudioQuality]; !ok {
		return fmt.Errorf("thresholds.min_audio_quality must be low, medium, high, or lossless, got %q", c.Thresholds.MinAudioQuality)
	}
	return nil
}

func (c *Config) validateAcquisition() error {
	if c.Acquisition.MaxPrice < 0 {
		return errors.New("acquisition.max_price must not be negative")
	}
	if c.Acquisition.PreferredQuality != "" {
		if _, ok := validQualityNames[c.Acquisition.PreferredQuality]; !ok {
			return fmt.Errorf("acquisition.preferred_quality must be low, medium, high, or lossless, got %q", c.Acquisition.PreferredQuality)
		}
	}
	return nil
}

func (c *Config) validateSources() error {
	known := make(map[string]struct{}, len(KnownSources))
	for _, name := range KnownSources {
		known[name] = struct{}{}
	}
	enabled := 0
	for name, src := range c.Sources {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("sources.%s is not a recognized source (known: %s)", name, strings.Join(KnownSources, ", "))
		}
		if src.Enabled {
			enabled++
		}
		if src.CacheTTLMinutes < 0 {
			return fmt.Errorf("sources.%s.cache_ttl_minutes must not be negative", name)
		}
		if src.RateLimitMillis < 0 {
			return fmt.Errorf("sources.%s.rate_limit_millis must not be negative", name)
		}
	}
	if enabled == 0 {
		return errors.New("at least one source must be enabled")
	}
	if mb, ok := c.Sources["musicbrainz"]; ok && mb.Enabled && strings.TrimSpace(mb.UserAgent) == "" {
		return errors.New("sources.musicbrainz.user_agent is required (MusicBrainz rejects anonymous clients)")
	}
	return nil
}
