package release

import "testing"

func TestTypeCanonical(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{"single", TypeNewSingle, true},
		{"album", TypeNewAlbum, true},
		{"ep", TypeNewEP, true},
		{"empty", Type(""), false},
		{"free text", Type("Album + Video"), false},
		{"wrong case", Type("new single"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Canonical(); got != tt.want {
				t.Errorf("Canonical() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordSummary(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"artist and title", Record{PrimaryArtist: "Jane Doe", Title: "Midnight Drive"}, "Jane Doe - Midnight Drive"},
		{"title only", Record{Title: "Midnight Drive"}, "Midnight Drive"},
		{"artist only", Record{PrimaryArtist: "Jane Doe"}, "Jane Doe"},
		{"empty", Record{}, "untitled release"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}
