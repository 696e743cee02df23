package track

import (
	"strconv"
	"strings"
)

// Key is a musical key normalized to sharp spelling ("C#" rather than "Db").
type Key struct {
	Root  string
	Minor bool
}

// enharmonic maps flat and irregular spellings onto the canonical sharp set.
var enharmonic = map[string]string{
	"db": "c#", "eb": "d#", "gb": "f#", "ab": "g#", "bb": "a#",
	"cb": "b", "fb": "e", "e#": "f", "b#": "c",
}

var canonicalRoots = map[string]struct{}{
	"c": {}, "c#": {}, "d": {}, "d#": {}, "e": {}, "f": {},
	"f#": {}, "g": {}, "g#": {}, "a": {}, "a#": {}, "b": {},
}

// camelotMinor and camelotMajor give the wheel position for each root.
var camelotMinor = map[string]int{
	"g#": 1, "d#": 2, "a#": 3, "f": 4, "c": 5, "g": 6,
	"d": 7, "a": 8, "e": 9, "b": 10, "f#": 11, "c#": 12,
}

var camelotMajor = map[string]int{
	"b": 1, "f#": 2, "c#": 3, "g#": 4, "d#": 5, "a#": 6,
	"f": 7, "c": 8, "g": 9, "d": 10, "a": 11, "e": 12,
}

// ParseKey normalizes a raw key string. It accepts sharp and flat spellings,
// several minor suffixes ("m", "min", "minor"), explicit "major"/"maj", and
// spelled-out accidentals ("C sharp minor"). The bool result is false when
// the input does not look like a musical key.
func ParseKey(raw string) (Key, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return Key{}, false
	}
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, " sharp", "#")
	text = strings.ReplaceAll(text, " flat", "b")

	minor := false
	for _, suffix := range []string{" minor", " min", "minor", "min"} {
		if strings.HasSuffix(text, suffix) {
			text = strings.TrimSuffix(text, suffix)
			minor = true
			break
		}
	}
	if !minor {
		for _, suffix := range []string{" major", " maj", "major", "maj"} {
			if strings.HasSuffix(text, suffix) {
				text = strings.TrimSuffix(text, suffix)
				break
			}
		}
	}
	text = strings.TrimSpace(text)
	if !minor && strings.HasSuffix(text, "m") && len(text) > 1 {
		trimmed := strings.TrimSpace(strings.TrimSuffix(text, "m"))
		if _, ok := canonicalRoots[trimmed]; ok {
			text = trimmed
			minor = true
		} else if _, ok := enharmonic[trimmed]; ok {
			text = trimmed
			minor = true
		}
	}

	if mapped, ok := enharmonic[text]; ok {
		text = mapped
	}
	if _, ok := canonicalRoots[text]; !ok {
		return Key{}, false
	}
	return Key{Root: text, Minor: minor}, true
}

// String renders the key in compact notation, e.g. "C#m" or "F".
func (k Key) String() string {
	root := strings.ToUpper(k.Root[:1]) + k.Root[1:]
	if k.Minor {
		return root + "m"
	}
	return root
}

// Camelot renders the key's Camelot wheel position ("12A" for C# minor).
func (k Key) Camelot() string {
	table := camelotMajor
	suffix := "B"
	if k.Minor {
		table = camelotMinor
		suffix = "A"
	}
	pos, ok := table[k.Root]
	if !ok {
		return ""
	}
	return strconv.Itoa(pos) + suffix
}

// OpenKey renders the key's Open Key notation ("5m" for C# minor). The Open
// Key wheel is the Camelot wheel rotated by five positions.
func (k Key) OpenKey() string {
	table := camelotMajor
	suffix := "d"
	if k.Minor {
		table = camelotMinor
		suffix = "m"
	}
	pos, ok := table[k.Root]
	if !ok {
		return ""
	}
	open := pos + 5
	if open > 12 {
		open -= 12
	}
	return strconv.Itoa(open) + suffix
}

// EquivalentKeys reports whether two raw key strings denote the same key
// after enharmonic and notation normalization. Unparseable inputs fall back
// to case-insensitive string equality.
func EquivalentKeys(a, b string) bool {
	ka, okA := ParseKey(a)
	kb, okB := ParseKey(b)
	if okA && okB {
		return ka == kb
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
