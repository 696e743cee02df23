package merge

import (
	"fmt"

	"trackdig/internal/services"
)

// validateIdentity checks that every pair of candidates plausibly describes
// the same track. Titles must clear the title similarity threshold and
// artists the artist threshold; an exact normalized match short-circuits the
// fuzzy comparison. Any failing pair rejects the whole set.
func (m *Merger) validateIdentity(candidates []candidate) error {
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]

			if a.best.Title != "" && b.best.Title != "" {
				if score := similarity(a.best.Title, b.best.Title); score < m.thresholds.TitleSimilarity {
					msg := fmt.Sprintf("title %q (%s) vs %q (%s) similarity %.2f below %.2f",
						a.best.Title, a.source, b.best.Title, b.source, score, m.thresholds.TitleSimilarity)
					return services.Wrap(services.ErrIdentityConflict, "merge", "validate_identity", msg, nil)
				}
			}

			if a.best.Artist != "" && b.best.Artist != "" {
				if normalize(a.best.Artist) == normalize(b.best.Artist) {
					continue
				}
				if score := similarity(a.best.Artist, b.best.Artist); score < m.thresholds.ArtistSimilarity {
					msg := fmt.Sprintf("artist %q (%s) vs %q (%s) similarity %.2f below %.2f",
						a.best.Artist, a.source, b.best.Artist, b.source, score, m.thresholds.ArtistSimilarity)
					return services.Wrap(services.ErrIdentityConflict, "merge", "validate_identity", msg, nil)
				}
			}
		}
	}
	return nil
}
