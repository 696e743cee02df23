package config

const (
	defaultDataDir                 = "~/.local/share/trackdig"
	defaultLogDir                  = "~/.local/share/trackdig/logs"
	defaultLogLevel                = "info"
	defaultLogFormat               = "console"
	defaultWaveSize                = 3
	defaultCollectorTimeoutSeconds = 30
	defaultWaveBudgetSeconds       = 45
	defaultMaxResults              = 5
	defaultMaxRetries              = 3
	defaultRetryBackoffMillis      = 500
	defaultMinCompleteness         = 0.8
	defaultMinConfidence           = 0.7
	defaultMinSources              = 2
	defaultMinAudioQuality         = "high"
	defaultTitleSimilarity         = 0.85
	defaultArtistSimilarity        = 0.70
	defaultPreferredQuality        = "lossless"
	defaultMusicBrainzUserAgent    = "trackdig/dev (https://github.com/trackdig/trackdig)"
)

// KnownSources lists every source the engine ships an adapter or static
// capability entry for, in default priority order.
var KnownSources = []string{
	"spotify",
	"musicbrainz",
	"discogs",
	"beatport",
	"bandcamp",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Research: Research{
			WaveSize:                defaultWaveSize,
			CollectorTimeoutSeconds: defaultCollectorTimeoutSeconds,
			WaveBudgetSeconds:       defaultWaveBudgetSeconds,
			MaxResults:              defaultMaxResults,
			MaxRetries:              defaultMaxRetries,
			RetryBackoffMillis:      defaultRetryBackoffMillis,
			EarlyStop:               true,
			RecordHistory:           true,
		},
		Thresholds: Thresholds{
			MinCompleteness:  defaultMinCompleteness,
			MinConfidence:    defaultMinConfidence,
			MinSources:       defaultMinSources,
			MinAudioQuality:  defaultMinAudioQuality,
			TitleSimilarity:  defaultTitleSimilarity,
			ArtistSimilarity: defaultArtistSimilarity,
		},
		Acquisition: Acquisition{
			IncludePhysical:    false,
			IncludePeerNetwork: false,
			MaxPrice:           0,
			PreferredQuality:   defaultPreferredQuality,
		},
		Sources: defaultSources(),
	}
}

func defaultSources() map[string]Source {
	return map[string]Source{
		"spotify": {
			Enabled:         true,
			ClientID:        "${SPOTIFY_CLIENT_ID}",
			ClientSecret:    "${SPOTIFY_CLIENT_SECRET}",
			CacheTTLMinutes: 60,
			RateLimitMillis: 250,
		},
		"musicbrainz": {
			Enabled:         true,
			UserAgent:       defaultMusicBrainzUserAgent,
			BaseURL:         "https://musicbrainz.org/ws/2",
			CacheTTLMinutes: 24 * 60,
			RateLimitMillis: 1000,
		},
		"discogs": {
			Enabled:         true,
			Token:           "${DISCOGS_TOKEN}",
			BaseURL:         "https://api.discogs.com",
			CacheTTLMinutes: 24 * 60,
			RateLimitMillis: 1000,
		},
		"beatport": {
			Enabled:         true,
			BaseURL:         "https://api.beatport.com/v4",
			Token:           "${BEATPORT_TOKEN}",
			CacheTTLMinutes: 6 * 60,
			RateLimitMillis: 500,
		},
		"bandcamp": {
			Enabled:         true,
			BaseURL:         "https://bandcamp.com",
			CacheTTLMinutes: 12 * 60,
			RateLimitMillis: 750,
		},
	}
}
