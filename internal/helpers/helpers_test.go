package helpers

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name, location, want string
	}{
		{"Centro Padel Norte", "Valencia", "centro-padel-norte-valencia"},
		{"Club  Tenis!!", "", "club-tenis"},
		{"GYM 24/7", "Av. Sur 12", "gym-24-7-av-sur-12"},
	}
	for _, tc := range cases {
		if got := GenerateSlug(tc.name, tc.location); got != tc.want {
			t.Errorf("GenerateSlug(%q, %q) = %q, want %q", tc.name, tc.location, got, tc.want)
		}
	}
}

func TestNormalizeToken(t *testing.T) {
	cases := []struct{ in, want string }{
		{"abc-123", "abc-123"},
		{"  abc-123  ", "abc-123"},
		{"\"abc-123\"", "abc-123"},
		{" 'abc-123' ", "abc-123"},
	}
	for _, tc := range cases {
		if got := NormalizeToken(tc.in); got != tc.want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
