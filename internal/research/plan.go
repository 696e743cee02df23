package research

import "strings"

// Plan is the execution plan for one run: an ordered source priority list
// split into parallel waves.
type Plan struct {
	GenreHint string
	Order     []string
	Waves     [][]string
}

// genrePriorities maps a detected genre hint to the source order that is most
// likely to answer well for it. Sources missing from a row keep their default
// relative order at the tail.
var genrePriorities = map[string][]string{
	"electronic": {"beatport", "spotify", "musicbrainz", "bandcamp", "discogs"},
	"hip hop":    {"spotify", "musicbrainz", "discogs", "bandcamp", "beatport"},
	"rock":       {"musicbrainz", "spotify", "discogs", "bandcamp", "beatport"},
	"classical":  {"musicbrainz", "spotify", "discogs", "bandcamp", "beatport"},
}

// genreKeywords maps lowercase query substrings to a genre hint. First match
// wins, so more specific keywords sit before generic ones.
var genreKeywords = []struct {
	keyword string
	hint    string
}{
	{"drum and bass", "electronic"},
	{"drum & bass", "electronic"},
	{"dnb", "electronic"},
	{"techno", "electronic"},
	{"house", "electronic"},
	{"trance", "electronic"},
	{"dubstep", "electronic"},
	{"hardstyle", "electronic"},
	{"electro", "electronic"},
	{"edm", "electronic"},
	{"remix", "electronic"},
	{"bootleg", "electronic"},
	{"hip hop", "hip hop"},
	{"hip-hop", "hip hop"},
	{"rap", "hip hop"},
	{"metal", "rock"},
	{"punk", "rock"},
	{"rock", "rock"},
	{"symphony", "classical"},
	{"concerto", "classical"},
	{"orchestra", "classical"},
}

// buildPlan detects a genre hint from the raw query, orders the available
// sources accordingly, and splits them into waves of the configured size.
func buildPlan(query string, available []string, waveSize int) Plan {
	plan := Plan{GenreHint: detectGenreHint(query)}
	plan.Order = prioritize(available, genrePriorities[plan.GenreHint])

	if waveSize < 1 {
		waveSize = 1
	}
	for start := 0; start < len(plan.Order); start += waveSize {
		end := start + waveSize
		if end > len(plan.Order) {
			end = len(plan.Order)
		}
		plan.Waves = append(plan.Waves, plan.Order[start:end])
	}
	return plan
}

func detectGenreHint(query string) string {
	lowered := strings.ToLower(query)
	for _, entry := range genreKeywords {
		if strings.Contains(lowered, entry.keyword) {
			return entry.hint
		}
	}
	return ""
}

// prioritize reorders available by the priority row, keeping sources the row
// does not mention in their original relative order at the tail.
func prioritize(available, priority []string) []string {
	if len(priority) == 0 {
		return append([]string(nil), available...)
	}
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}
	ordered := make([]string, 0, len(available))
	placed := make(map[string]bool, len(available))
	for _, name := range priority {
		if have[name] && !placed[name] {
			ordered = append(ordered, name)
			placed[name] = true
		}
	}
	for _, name := range available {
		if !placed[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
