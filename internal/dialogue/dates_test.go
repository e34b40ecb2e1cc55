package dialogue

import (
	"testing"
	"time"
)

func TestDateParserAnchoredDates(t *testing.T) {
	p := NewDateParser(2025)
	cases := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"month and ordinal day", "december 15th", "2025-12-15", true},
		{"month and plain day", "deliver it on december 15", "2025-12-15", true},
		{"month with explicit year", "december 15 2026", "2026-12-15", true},
		{"month name only as whole word", "maybe on the 15th", "2025-12-15", true},
		{"worded day", "december twentieth", "2025-12-20", true},
		{"early month resolves into anchor year", "january 3rd", "2025-01-03", true},
		{"slash date keeps its year", "12/15/2026", "2026-12-15", true},
		{"dash date keeps its year", "3-7-2026", "2026-03-07", true},
		{"impossible date rejected", "february 30", "", false},
		{"relative weekday resolves against anchor", "next tuesday", "2025-12-02", true},
		{"bare day lands in anchor month", "sometime around the 10th", "2025-12-10", true},
		{"no date", "sometime soon i guess", "", false},
		{"empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := p.Parse(tc.text)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("Parse(%q) = (%q, %v), want (%q, %v)", tc.text, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestDateParserTodayTomorrow(t *testing.T) {
	p := NewDateParser(2025)
	now := time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	got, ok := p.Parse("today works")
	if !ok || got != "2026-03-10" {
		t.Errorf("Parse(today) = (%q, %v), want 2026-03-10", got, ok)
	}
	got, ok = p.Parse("tomorrow please")
	if !ok || got != "2026-03-11" {
		t.Errorf("Parse(tomorrow) = (%q, %v), want 2026-03-11", got, ok)
	}
}

func TestDateParserDefaultAnchor(t *testing.T) {
	p := NewDateParser(0)
	got, ok := p.Parse("july 4th")
	if !ok || got != "2025-07-04" {
		t.Errorf("Parse(july 4th) = (%q, %v), want 2025-07-04", got, ok)
	}
}
