// Package temporal resolves relative and clock-time phrases in chat text to
// absolute instants against a reference time.
//
// Every function is pure: the same text and reference time always produce
// the same result. Results are expressed in the reference time's location.
package temporal

import (
	"regexp"
	"strconv"
	"time"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Instant is the resolved point in time. Zero when OK is false.
	Instant time.Time

	// OK reports whether any temporal expression was recognized.
	OK bool

	// Clock reports whether an explicit clock time contributed to Instant.
	Clock bool

	// DateOnly reports that a day phrase matched without a clock time, so
	// Instant carries the reference time-of-day.
	DateOnly bool
}

// dayRule maps a relative-day phrase to a calendar offset.
type dayRule struct {
	name    string
	pattern *regexp.Regexp
	// unless suppresses the rule when it also matches. Used so "tomorrow"
	// does not fire inside "the day after tomorrow".
	unless *regexp.Regexp
	days   int
}

// dayRules are tried in order; the first match wins.
var dayRules = []dayRule{
	{name: "today", pattern: regexp.MustCompile(`(?i)\b(?:hari ini|today)\b`), days: 0},
	{
		name:    "tomorrow",
		pattern: regexp.MustCompile(`(?i)\b(?:besok|tomorrow)\b`),
		unless:  regexp.MustCompile(`(?i)\b(?:besok lusa|day after tomorrow)\b`),
		days:    1,
	},
	{name: "day after tomorrow", pattern: regexp.MustCompile(`(?i)\b(?:lusa|day after tomorrow)\b`), days: 2},
	{name: "next week", pattern: regexp.MustCompile(`(?i)\b(?:minggu depan|next week)\b`), days: 7},
	{name: "next month", pattern: regexp.MustCompile(`(?i)\b(?:bulan depan|next month)\b`), days: 30},
}

var (
	// clockPattern captures an optional "until" lead so end clocks can be
	// skipped, then HH and optional MM.
	clockPattern = regexp.MustCompile(`(?i)(\b(?:sampai|hingga|until|till)\s+)?\b(?:jam|pukul|at)\s+(\d{1,2})(?:[:.](\d{2}))?\b`)

	endClockPattern = regexp.MustCompile(`(?i)\b(?:sampai|hingga|until|till)\s+(?:(?:jam|pukul)\s+)?(\d{1,2})(?:[:.](\d{2}))?\b`)

	hourOffsetPattern = regexp.MustCompile(`(?i)\b(?:dalam|in)\s+(\d{1,3})\s+(?:jam|hours?)\b|\b(\d{1,3})\s+jam\s+lagi\b`)

	durationPattern = regexp.MustCompile(`(?i)\b(?:selama|durasi|for)\s+(?:(\d{1,3})\s*(?:jam|hours?|hrs?|h)\b)?\s*(?:(?:dan|and)\s+)?(?:(\d{1,4})\s*(?:menit|minutes?|mins?)\b)?`)

	// minuteUnit follows the minutes of a bare "2 jam 15 menit" duration.
	minuteUnit = regexp.MustCompile(`(?i)^\s*(?:menit|minutes?|mins?)\b`)

	deadlineCue = regexp.MustCompile(`(?i)\b(?:deadline|tenggat|batas waktu|due)\b`)
)

// Resolve finds the first temporal expression in text relative to now.
//
// A clock time ("jam 14", "pukul 9.30", "at 10") is captured independently
// of the day. The first matching day phrase sets the calendar date; when a
// clock is present the result is that date at HH:MM:00. A clock with no
// day phrase resolves only when the text carries a deadline cue, in which
// case the day defaults to tomorrow. Hour offsets ("dalam 3 jam") resolve
// to now plus the offset.
func Resolve(text string, now time.Time) Resolution {
	hour, minute, hasClock := startClock(text)

	for _, rule := range dayRules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		if rule.unless != nil && rule.unless.MatchString(text) {
			continue
		}
		day := now.AddDate(0, 0, rule.days)
		if hasClock {
			return Resolution{Instant: atClock(day, hour, minute), OK: true, Clock: true}
		}
		return Resolution{Instant: day, OK: true, DateOnly: true}
	}

	if m := hourOffsetPattern.FindStringSubmatch(text); m != nil {
		n := m[1]
		if n == "" {
			n = m[2]
		}
		hours, _ := strconv.Atoi(n)
		return Resolution{Instant: now.Add(time.Duration(hours) * time.Hour), OK: true}
	}

	if hasClock && deadlineCue.MatchString(text) {
		return Resolution{Instant: atClock(now.AddDate(0, 0, 1), hour, minute), OK: true, Clock: true}
	}

	return Resolution{}
}

// EndClock finds an explicit end time such as "sampai jam 12" or
// "until 16:30".
func EndClock(text string) (hour, minute int, ok bool) {
	m := endClockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	return parseClock(m[1], m[2])
}

// Duration finds a duration phrase such as "selama 2 jam",
// "for 45 minutes" or "selama 1 jam 30 menit".
func Duration(text string) (time.Duration, bool) {
	for _, m := range durationPattern.FindAllStringSubmatch(text, -1) {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		d := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
		if d > 0 {
			return d, true
		}
	}
	return 0, false
}

// At places the clock time on the calendar date of day, zeroing seconds.
func At(day time.Time, hour, minute int) time.Time {
	return atClock(day, hour, minute)
}

// startClock returns the first clock that is neither an end clock nor part
// of a duration phrase.
func startClock(text string) (hour, minute int, ok bool) {
	text = durationPattern.ReplaceAllString(text, " ")
	for _, loc := range clockPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] >= 0 {
			continue
		}
		if minuteUnit.MatchString(text[loc[1]:]) {
			continue
		}
		var m string
		if loc[6] >= 0 {
			m = text[loc[6]:loc[7]]
		}
		if h, mm, ok := parseClock(text[loc[4]:loc[5]], m); ok {
			return h, mm, true
		}
	}
	return 0, 0, false
}

func parseClock(h, m string) (int, int, bool) {
	hour, err := strconv.Atoi(h)
	if err != nil || hour > 23 {
		return 0, 0, false
	}
	minute := 0
	if m != "" {
		minute, err = strconv.Atoi(m)
		if err != nil || minute > 59 {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
