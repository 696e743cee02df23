package acquisition

import (
	"log/slog"
	"sort"

	"trackdig/internal/config"
	"trackdig/internal/logging"
	"trackdig/internal/sources"
	"trackdig/internal/track"
)

// Ranker turns research results into a ranked acquisition option list.
type Ranker struct {
	prefs  config.Acquisition
	logger *slog.Logger
}

func New(prefs config.Acquisition, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ranker{
		prefs:  prefs,
		logger: logger.With(logging.String(logging.FieldComponent, "acquisition")),
	}
}

// Rank synthesizes options for each source that answered, probes unqueried
// catalog sources for likely availability, applies the configured filters,
// and returns the list sorted by quality, type priority, then price.
func (r *Ranker) Rank(record *track.Record, results []sources.Result) []track.AcquisitionOption {
	var options []track.AcquisitionOption

	queried := make(map[string]bool, len(results))
	for i := range results {
		result := &results[i]
		queried[result.Source] = true
		if !result.Usable() {
			continue
		}
		if option, ok := r.optionFromResult(result); ok {
			options = append(options, option)
		}
	}

	options = append(options, r.probeUnqueried(record, queried)...)
	options = r.filter(options)
	track.SortOptions(options)

	r.logger.Debug("acquisition options ranked", logging.Int("options", len(options)))
	return options
}

// optionFromResult builds an option from the static capability row enriched
// with whatever live price and URL the source supplied.
func (r *Ranker) optionFromResult(result *sources.Result) (track.AcquisitionOption, bool) {
	row, ok := catalog[result.Source]
	if !ok {
		return track.AcquisitionOption{}, false
	}
	option := track.AcquisitionOption{
		Source:               result.Source,
		Type:                 row.acquisitionType,
		Quality:              row.quality,
		Formats:              row.formats,
		Price:                row.typicalPrice,
		Currency:             row.currency,
		RequiresSubscription: row.requiresSubscription,
		RegionRestricted:     row.regionRestricted,
		Availability:         track.AvailabilityConfirmed,
	}
	best := result.Best()
	if best.Price > 0 {
		option.Price = best.Price
		if best.Currency != "" {
			option.Currency = best.Currency
		}
	}
	if best.URL != "" {
		option.URL = best.URL
	}
	if best.Quality != track.QualityUnknown && best.Quality < row.quality {
		option.Quality = best.Quality
	}
	return option, true
}

// probeUnqueried adds likely options for catalog sources the research run
// never asked. Without a confirmed hit, availability can only be presumed
// for electronic-only stores when the record reads as electronic music, and
// for peer-network search which is always worth attempting. Streams and
// general marketplaces need a confirmed query result.
func (r *Ranker) probeUnqueried(record *track.Record, queried map[string]bool) []track.AcquisitionOption {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		if !queried[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var options []track.AcquisitionOption
	for _, name := range names {
		row := catalog[name]
		likely := (row.electronicOnly && looksElectronic(record.Genre, record.SubGenres)) ||
			row.acquisitionType == track.AcquisitionPeerNetwork
		if !likely {
			continue
		}
		options = append(options, track.AcquisitionOption{
			Source:               name,
			Type:                 row.acquisitionType,
			Quality:              row.quality,
			Formats:              row.formats,
			Price:                row.typicalPrice,
			Currency:             row.currency,
			RequiresSubscription: row.requiresSubscription,
			RegionRestricted:     row.regionRestricted,
			Availability:         track.AvailabilityLikely,
		})
	}
	return options
}

// filter applies the configured gates: physical and peer-network options are
// opt-in, a price ceiling drops expensive options, and a quality preference
// drops anything below the preferred tier when at least one option meets it.
func (r *Ranker) filter(options []track.AcquisitionOption) []track.AcquisitionOption {
	kept := options[:0]
	for _, option := range options {
		if option.Type == track.AcquisitionPhysical && !r.prefs.IncludePhysical {
			continue
		}
		if option.Type == track.AcquisitionPeerNetwork && !r.prefs.IncludePeerNetwork {
			continue
		}
		if r.prefs.MaxPrice > 0 && option.Price > r.prefs.MaxPrice {
			continue
		}
		kept = append(kept, option)
	}

	preferred := track.ParseQuality(r.prefs.PreferredQuality)
	if preferred == track.QualityUnknown {
		return kept
	}
	meets := false
	for _, option := range kept {
		if option.Quality.AtLeast(preferred) {
			meets = true
			break
		}
	}
	if !meets {
		return kept
	}
	filtered := kept[:0]
	for _, option := range kept {
		if option.Quality.AtLeast(preferred) {
			filtered = append(filtered, option)
		}
	}
	return filtered
}
