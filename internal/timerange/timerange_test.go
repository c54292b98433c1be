package timerange

import (
	"testing"
	"time"

	"github.com/christopherklint97/goclockify/clockify"
)

var ref = time.Date(2024, 3, 6, 15, 30, 0, 0, time.UTC)

func TestParse_Absolute(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"now", ref},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01 09:15", time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)},
		{"2024-03-01T09:15:00Z", time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in, ref)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParse_NaturalLanguageLooksBack(t *testing.T) {
	for _, in := range []string{"yesterday", "2 hours ago", "last monday"} {
		got, err := Parse(in, ref)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", in, err)
			continue
		}
		if !got.Before(ref) {
			t.Errorf("Parse(%q) = %v, want before %v", in, got, ref)
		}
		if got.Before(ref.Add(-8 * 24 * time.Hour)) {
			t.Errorf("Parse(%q) = %v, want within a week of %v", in, got, ref)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse("   ", ref); err == nil {
		t.Fatal("Parse of blank expression returned nil error")
	}
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("", "", ref)
	if err != nil {
		t.Fatalf("ParseRange returned error: %v", err)
	}
	if !r.Since.IsZero() || !r.Until.IsZero() {
		t.Fatalf("range = %+v, want open", r)
	}

	if _, err := ParseRange("2024-03-05", "2024-03-01", ref); err == nil {
		t.Fatal("ParseRange with until before since returned nil error")
	}
}

func TestFilter(t *testing.T) {
	at := func(day int) clockify.TimeEntry {
		return clockify.TimeEntry{ID: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("02"), Start: time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)}
	}
	entries := []clockify.TimeEntry{at(1), at(3), at(5), at(7)}

	r, err := ParseRange("2024-03-03", "2024-03-07", ref)
	if err != nil {
		t.Fatalf("ParseRange returned error: %v", err)
	}
	got := Filter(entries, r)
	if len(got) != 2 || got[0].ID != "03" || got[1].ID != "05" {
		t.Fatalf("Filter = %+v, want entries 03 and 05", got)
	}

	if got := Filter(entries, Range{}); len(got) != len(entries) {
		t.Fatalf("open range kept %d entries, want %d", len(got), len(entries))
	}
}
