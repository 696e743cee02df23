package sources

import (
	"context"
	"log/slog"

	"trackdig/internal/cache"
	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/services"
	"trackdig/internal/sources/bandcamp"
	"trackdig/internal/sources/beatport"
	"trackdig/internal/sources/discogs"
	"trackdig/internal/sources/musicbrainz"
	"trackdig/internal/sources/spotify"
)

// BuildSearchers constructs an adapter for every source enabled in config.
// A source whose client cannot be constructed (missing credentials) is
// skipped with a warning rather than failing the whole engine.
func BuildSearchers(ctx context.Context, cfg *config.Config, logger *slog.Logger) (map[string]Searcher, error) {
	searchers := make(map[string]Searcher)
	for _, name := range cfg.EnabledSources() {
		settings := cfg.SourceSettings(name)
		searcher, err := buildSearcher(ctx, name, settings)
		if err != nil {
			if logger != nil {
				logger.Warn("source adapter unavailable",
					logging.String(logging.FieldSource, name),
					logging.Error(err))
			}
			continue
		}
		searchers[name] = searcher
	}
	if len(searchers) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "sources", "build", "no source adapter could be constructed", nil)
	}
	return searchers, nil
}

func buildSearcher(ctx context.Context, name string, settings config.Source) (Searcher, error) {
	switch name {
	case "spotify":
		client, err := spotify.New(ctx, settings.ClientID, settings.ClientSecret)
		if err != nil {
			return nil, err
		}
		return NewSpotifyAdapter(client), nil
	case "musicbrainz":
		client, err := musicbrainz.New(settings.BaseURL, settings.UserAgent)
		if err != nil {
			return nil, err
		}
		return NewMusicBrainzAdapter(client), nil
	case "discogs":
		return NewDiscogsAdapter(discogs.New(settings.BaseURL, settings.Token)), nil
	case "beatport":
		return NewBeatportAdapter(beatport.New(settings.BaseURL, settings.Token)), nil
	case "bandcamp":
		return NewBandcampAdapter(bandcamp.New(settings.BaseURL)), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "sources", "build", "unknown source "+name, nil)
	}
}

// BuildCollectors wraps every adapter in a collector sharing one cache store.
func BuildCollectors(cfg *config.Config, store *cache.Store, searchers map[string]Searcher, logger *slog.Logger) map[string]*Collector {
	collectors := make(map[string]*Collector, len(searchers))
	for name, searcher := range searchers {
		collectors[name] = NewCollector(searcher, store, cfg.SourceSettings(name), cfg.Research, logger)
	}
	return collectors
}
