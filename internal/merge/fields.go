package merge

import (
	"encoding/json"
	"sort"

	"trackdig/internal/track"
)

// mergeFields builds the merged record from the ordered candidates and then
// overwrites conflicted fields with their resolved values. Candidates arrive
// sorted by collector confidence, so first-non-empty means most-trusted.
func (m *Merger) mergeFields(candidates []candidate, conflicts []track.Conflict) *track.Record {
	record := &track.Record{
		SourceIDs: make(map[string]string),
	}

	featureSums := make(map[string]float64)
	featureCounts := make(map[string]int)

	for i, c := range candidates {
		best := c.best

		setString(&record.Title, best.Title)
		setString(&record.Artist, best.Artist)
		setString(&record.Album, best.Album)
		setString(&record.MixName, best.MixName)
		setString(&record.Label, best.Label)
		setString(&record.CatalogNumber, best.CatalogNumber)
		setString(&record.Genre, best.Genre)
		setString(&record.Format, best.Format)
		setString(&record.ISRC, best.ISRC)
		setString(&record.UPC, best.UPC)

		// Prefer the more detailed date regardless of source order.
		if len(best.ReleaseDate) > len(record.ReleaseDate) {
			record.ReleaseDate = best.ReleaseDate
		}

		if record.TrackNumber == 0 {
			record.TrackNumber = best.TrackNumber
		}
		if record.DurationMS == 0 {
			record.DurationMS = best.DurationMS
		}
		if record.BPM == 0 {
			record.BPM = best.BPM
		}
		if record.Key == "" && best.Key != "" {
			record.SetKey(best.Key)
		}
		if best.Quality > record.Quality {
			record.Quality = best.Quality
		}

		record.FeaturedArtists = mergeList(record.FeaturedArtists, best.FeaturedArtists, m.thresholds.TitleSimilarity)
		record.Remixers = mergeList(record.Remixers, best.Remixers, m.thresholds.TitleSimilarity)
		record.SubGenres = mergeList(record.SubGenres, best.SubGenres, m.thresholds.TitleSimilarity)
		record.Tags = mergeList(record.Tags, best.Tags, m.thresholds.TitleSimilarity)

		for name, score := range best.Features {
			featureSums[name] += score
			featureCounts[name]++
		}

		for _, art := range best.Artwork {
			art.Priority = i
			record.Artwork = append(record.Artwork, art)
		}

		if best.SourceID != "" {
			record.SourceIDs[c.source] = best.SourceID
		}

		raw, _ := json.Marshal(best)
		record.Attributions = append(record.Attributions, track.SourceAttribution{
			Source:     c.source,
			SourceID:   best.SourceID,
			URL:        best.URL,
			FetchedAt:  c.result.FetchedAt,
			Confidence: c.confidence,
			Raw:        raw,
		})
	}

	if len(featureSums) > 0 {
		record.Features = make(map[string]float64, len(featureSums))
		for name, sum := range featureSums {
			record.Features[name] = sum / float64(featureCounts[name])
		}
	}

	sort.SliceStable(record.Artwork, func(i, j int) bool {
		a, b := record.Artwork[i], record.Artwork[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.Width*a.Height > b.Width*b.Height
	})

	applyResolutions(record, conflicts)
	return record
}

// applyResolutions overwrites conflicted fields with the value chosen by the
// reliability-weighted resolution step.
func applyResolutions(record *track.Record, conflicts []track.Conflict) {
	for _, conflict := range conflicts {
		switch conflict.Field {
		case "bpm":
			if bpm := parseBPM(conflict.Resolved); bpm > 0 {
				record.BPM = bpm
			}
		case "key":
			record.SetKey(conflict.Resolved)
		case "duration_ms":
			if ms := parseDuration(conflict.Resolved); ms > 0 {
				record.DurationMS = ms
			}
		case "genre":
			record.Genre = conflict.Resolved
		case "release_date":
			record.ReleaseDate = conflict.Resolved
		}
	}
}

func setString(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

// mergeList unions two string lists with fuzzy de-duplication so that near
// duplicate entries ("Original Mix" vs "original mix") collapse to one.
func mergeList(existing, incoming []string, threshold float64) []string {
	for _, value := range incoming {
		if value == "" {
			continue
		}
		duplicate := false
		for _, have := range existing {
			if similarity(have, value) >= threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			existing = append(existing, value)
		}
	}
	return existing
}
