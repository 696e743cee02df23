package track

import "testing"

func TestParseKeyNormalizesEnharmonics(t *testing.T) {
	cases := []struct {
		raw  string
		want Key
	}{
		{"C#m", Key{Root: "c#", Minor: true}},
		{"Dbm", Key{Root: "c#", Minor: true}},
		{"Db minor", Key{Root: "c#", Minor: true}},
		{"C# min", Key{Root: "c#", Minor: true}},
		{"C sharp minor", Key{Root: "c#", Minor: true}},
		{"Bb", Key{Root: "a#", Minor: false}},
		{"F major", Key{Root: "f", Minor: false}},
		{"Am", Key{Root: "a", Minor: true}},
		{"E", Key{Root: "e", Minor: false}},
	}
	for _, tc := range cases {
		got, ok := ParseKey(tc.raw)
		if !ok {
			t.Fatalf("ParseKey(%q) failed to parse", tc.raw)
		}
		if got != tc.want {
			t.Fatalf("ParseKey(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseKeyRejectsNonKeys(t *testing.T) {
	for _, raw := range []string{"", "128", "techno", "H major"} {
		if _, ok := ParseKey(raw); ok {
			t.Fatalf("ParseKey(%q) unexpectedly succeeded", raw)
		}
	}
}

func TestEquivalentKeysEnharmonic(t *testing.T) {
	if !EquivalentKeys("C#m", "Dbm") {
		t.Fatal("C#m and Dbm should be equivalent")
	}
	if EquivalentKeys("C major", "A minor") {
		t.Fatal("relative keys are not the same key")
	}
	if EquivalentKeys("C#m", "C#") {
		t.Fatal("parallel minor and major must differ")
	}
}

func TestCamelotAndOpenKeyNotation(t *testing.T) {
	cases := []struct {
		raw     string
		camelot string
		openKey string
	}{
		{"C#m", "12A", "5m"},
		{"Am", "8A", "1m"},
		{"C", "8B", "1d"},
		{"Abm", "1A", "6m"},
		{"E", "12B", "5d"},
	}
	for _, tc := range cases {
		key, ok := ParseKey(tc.raw)
		if !ok {
			t.Fatalf("ParseKey(%q) failed", tc.raw)
		}
		if got := key.Camelot(); got != tc.camelot {
			t.Fatalf("Camelot(%q) = %q, want %q", tc.raw, got, tc.camelot)
		}
		if got := key.OpenKey(); got != tc.openKey {
			t.Fatalf("OpenKey(%q) = %q, want %q", tc.raw, got, tc.openKey)
		}
	}
}

func TestKeyStringRendersCompactNotation(t *testing.T) {
	key, _ := ParseKey("db minor")
	if key.String() != "C#m" {
		t.Fatalf("expected C#m, got %s", key.String())
	}
}
