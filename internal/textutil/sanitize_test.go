package textutil

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chief", "chief"},
		{"armature:chief", "armature_chief"},
		{"a:b:c", "a_b_c"},
		{"  Master Chief  ", "Master_Chief"},
		{"Cortana\tHologram", "Cortana_Hologram"},
		{"élite", "elite"},
		{`props/crate\01`, "props_crate_01"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeNameIsIdempotent(t *testing.T) {
	for _, in := range []string{"a:b", "Ünter Ösen", "x/y z"} {
		once := SanitizeName(in)
		if twice := SanitizeName(once); twice != once {
			t.Errorf("SanitizeName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"intro", "intro"},
		{` intro: part 1? `, "intro__part_1"},
		{`Café <final>*`, "Cafe_final"},
		{"scene...", "scene"},
		{`a\b|c`, "a_b_c"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
