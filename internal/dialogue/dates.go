package dialogue

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// DefaultAnchorYear is the year incomplete spoken dates resolve into when the
// host does not configure one.
const DefaultAnchorYear = 2025

var (
	ordinalRe  = regexp.MustCompile(`\b(\d+)(st|nd|rd|th)\b`)
	todayRe    = regexp.MustCompile(`\btoday\b`)
	tomorrowRe = regexp.MustCompile(`\btomorrow\b`)
	mdyRe      = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	monthDayRe = regexp.MustCompile(`\b(\d{1,2})\b`)
	yearRe     = regexp.MustCompile(`\b(\d{4})\b`)

	// Whole-word so "maybe" never reads as May.
	monthRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// DateParser turns fuzzy spoken dates ("december 15th", "next tuesday",
// "12/15/2025") into YYYY-MM-DD strings. Incomplete dates are resolved
// against a fixed anchor of December 1 of the anchor year, so "the 15th"
// lands in the near future rather than the past. "today" and "tomorrow" are
// the exception and resolve against the real clock.
type DateParser struct {
	parser *when.Parser
	anchor time.Time
	now    func() time.Time
}

// NewDateParser creates a parser anchored at December 1 of anchorYear. A
// non-positive year falls back to DefaultAnchorYear.
func NewDateParser(anchorYear int) *DateParser {
	if anchorYear <= 0 {
		anchorYear = DefaultAnchorYear
	}
	// The common SlashDMY rule reads slash dates day-first; slash dates here
	// are month-first and handled by mdyRe, so only the English rules load.
	w := when.New(nil)
	w.Add(en.All...)
	return &DateParser{
		parser: w,
		anchor: time.Date(anchorYear, time.December, 1, 0, 0, 0, 0, time.UTC),
		now:    time.Now,
	}
}

// Parse extracts a date from the utterance. The second return is false when
// no date could be recognized; failure to parse is an ordinary outcome here,
// never an error.
func (p *DateParser) Parse(text string) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}
	text = ordinalRe.ReplaceAllString(text, "$1")

	if todayRe.MatchString(text) {
		return p.now().Format("2006-01-02"), true
	}
	if tomorrowRe.MatchString(text) {
		return p.now().AddDate(0, 0, 1).Format("2006-01-02"), true
	}

	if m := mdyRe.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if date, ok := validDate(year, time.Month(month), day); ok {
			return date, true
		}
	}

	// A named month with a numeric day is resolved here, not by the fuzzy
	// parser, which ignores an explicit year and normalizes impossible dates
	// like February 30 into March instead of rejecting them. An invalid day
	// next to a named month is a failed parse, not something to reinterpret.
	if m := monthRe.FindStringSubmatch(text); m != nil {
		if d := monthDayRe.FindStringSubmatch(text); d != nil {
			day, _ := strconv.Atoi(d[1])
			year := p.anchor.Year()
			if y := yearRe.FindStringSubmatch(text); y != nil {
				year, _ = strconv.Atoi(y[1])
			}
			return validDate(year, months[m[1]], day)
		}
	}

	// Relative phrases like "next tuesday" and worded days like "december
	// twentieth" resolve against the anchor.
	if r, err := p.parser.Parse(text, p.anchor); err == nil && r != nil {
		return r.Time.Format("2006-01-02"), true
	}

	// A bare day number ("sometime around the 15th") lands in the anchor
	// month, keeping it in the near future.
	if d := monthDayRe.FindStringSubmatch(text); d != nil {
		day, _ := strconv.Atoi(d[1])
		if date, ok := validDate(p.anchor.Year(), p.anchor.Month(), day); ok {
			return date, true
		}
	}

	slog.Debug("DateParser.Parse: no date recognized", "text", text)
	return "", false
}

// validDate rejects impossible calendar dates like February 30 by checking
// that the constructed time round-trips to the same day.
func validDate(year int, month time.Month, day int) (string, bool) {
	if day < 1 || day > 31 || month < time.January || month > time.December {
		return "", false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day), true
}
