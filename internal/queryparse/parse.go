// Package queryparse turns a free-text track query into a structured intent.
//
// Parsing is best effort and never fails: anything that cannot be extracted
// is simply left empty for source data to fill in later.
package queryparse

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intent is the structured reading of a free-text query.
type Intent struct {
	Raw             string   `json:"raw"`
	Artist          string   `json:"artist,omitempty"`
	Title           string   `json:"title,omitempty"`
	MixName         string   `json:"mix_name,omitempty"`
	Remixer         string   `json:"remixer,omitempty"`
	FeaturedArtists []string `json:"featured_artists,omitempty"`
}

var (
	separators    = []string{" - ", " – ", " — ", ": "}
	parenPattern  = regexp.MustCompile(`\(([^)]+)\)|\[([^\]]+)\]`)
	remixKeywords = []string{"remix", "mix", "edit", "bootleg", "rework", "vip", "dub", "flip", "refix"}
	remixerRegex  = regexp.MustCompile(`(?i)^(.*?)\s+(?:remix|mix|edit|bootleg|rework|flip|refix)$`)
	featRegex     = regexp.MustCompile(`(?i)\(?\b(?:featuring|feat\.?|ft\.?)\s+([^()\[\]]+?)\)?\s*$`)

	titleCaser = cases.Title(language.Und)
)

// Parse analyzes a raw query string.
func Parse(raw string) Intent {
	intent := Intent{Raw: raw}
	text := strings.TrimSpace(raw)
	if text == "" {
		return intent
	}

	// Remix qualifier first so it never pollutes artist or title.
	if mix, remainder := extractMixName(text); mix != "" {
		intent.MixName = mix
		intent.Remixer = extractRemixer(mix)
		text = remainder
	}

	artist, title := splitArtistTitle(text)

	if featured, cleaned := extractFeatured(title); len(featured) > 0 {
		intent.FeaturedArtists = featured
		title = cleaned
	} else if featured, cleaned := extractFeatured(artist); len(featured) > 0 {
		intent.FeaturedArtists = featured
		artist = cleaned
	}

	intent.Artist = canonicalCase(artist)
	intent.Title = canonicalCase(title)
	return intent
}

// SearchTerms renders the intent back into a plain search string.
func (i Intent) SearchTerms() string {
	parts := make([]string, 0, 3)
	if i.Artist != "" {
		parts = append(parts, i.Artist)
	}
	if i.Title != "" {
		parts = append(parts, i.Title)
	}
	if i.MixName != "" {
		parts = append(parts, i.MixName)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(i.Raw)
	}
	return strings.Join(parts, " ")
}

func splitArtistTitle(text string) (artist, title string) {
	for _, sep := range separators {
		if idx := strings.Index(text, sep); idx > 0 {
			return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+len(sep):])
		}
	}
	// No separator: the whole string is a title guess.
	return "", strings.TrimSpace(text)
}

func extractMixName(text string) (mix, remainder string) {
	matches := parenPattern.FindAllStringSubmatchIndex(text, -1)
	for _, loc := range matches {
		inner := text[loc[0]+1 : loc[1]-1]
		lower := strings.ToLower(inner)
		for _, keyword := range remixKeywords {
			if strings.Contains(lower, keyword) {
				remainder = strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
				return strings.TrimSpace(inner), remainder
			}
		}
	}
	return "", text
}

func extractRemixer(mix string) string {
	match := remixerRegex.FindStringSubmatch(strings.TrimSpace(mix))
	if len(match) < 2 {
		return ""
	}
	name := strings.TrimSpace(match[1])
	// "Extended" or "Club" alone are mix qualifiers, not remixer names.
	switch strings.ToLower(name) {
	case "", "extended", "club", "radio", "original", "instrumental", "dirty", "clean":
		return ""
	}
	return name
}

func extractFeatured(text string) (featured []string, cleaned string) {
	match := featRegex.FindStringSubmatchIndex(text)
	if match == nil {
		return nil, text
	}
	names := text[match[2]:match[3]]
	for _, name := range strings.FieldsFunc(names, func(r rune) bool { return r == ',' || r == '&' }) {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "and "))
		if name != "" {
			featured = append(featured, name)
		}
	}
	cleaned = strings.TrimSpace(text[:match[0]])
	return featured, cleaned
}

// canonicalCase title-cases strings typed in all lower or all upper case so
// downstream similarity checks compare like against like. Mixed-case input
// is left alone to preserve stylized artist names.
func canonicalCase(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if trimmed == strings.ToLower(trimmed) || trimmed == strings.ToUpper(trimmed) {
		return titleCaser.String(strings.ToLower(trimmed))
	}
	return trimmed
}
