// Package extract holds the field extractors that mine chat text for action
// parameters.
//
// Each extractor is a total function over one text fragment and reports a
// miss with a false return. Patterns live in ordered rule tables so the
// message pass and the reply pass always run the same rules in the same
// order.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxTitleRunes caps formatted titles; longer titles are cut and get "...".
const maxTitleRunes = 80

// fallbackTokens is how many leading words of a message become a title
// when no title could be extracted.
const fallbackTokens = 6

// First runs fn over sources in order and returns the first hit.
// Callers pass the user message before the assistant reply, so the
// message wins whenever both yield a value.
func First[T any](sources []string, fn func(string) (T, bool)) (T, bool) {
	for _, src := range sources {
		if src == "" {
			continue
		}
		if v, ok := fn(src); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// rule pairs a pattern with the function that turns its match into a value.
type rule struct {
	pattern *regexp.Regexp
	extract func(m []string) string
}

// group returns an extract func for capture group i.
func group(i int) func([]string) string {
	return func(m []string) string { return m[i] }
}

// firstGroup returns the first non-empty capture group.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// applyRules returns the first non-empty value produced by rules against
// text, with stop applied to the captured value when non-nil.
func applyRules(rules []rule, text string, stop *regexp.Regexp) (string, bool) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := cutAt(r.extract(m), stop)
		if v != "" {
			return v, true
		}
	}
	return "", false
}

// cutAt truncates s at the first match of stop and trims it.
func cutAt(s string, stop *regexp.Regexp) string {
	if stop != nil {
		if loc := stop.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
		}
	}
	return strings.TrimSpace(s)
}

// leadIn is a phrase after which the remainder of the text is a value.
type leadIn struct {
	pattern *regexp.Regexp
}

// leadIns compiles phrases into word-anchored, case-insensitive patterns
// that consume trailing whitespace.
func leadIns(phrases ...string) []leadIn {
	out := make([]leadIn, len(phrases))
	for i, p := range phrases {
		out[i] = leadIn{pattern: regexp.MustCompile(`(?i)(?:^|\s)` + regexp.QuoteMeta(p) + `\s+`)}
	}
	return out
}

// afterLeadIn returns the text following the first phrase (in table order)
// that occurs anywhere in text.
func afterLeadIn(phrases []leadIn, text string) (string, bool) {
	for _, p := range phrases {
		if loc := p.pattern.FindStringIndex(text); loc != nil {
			return text[loc[1]:], true
		}
	}
	return "", false
}

// FormatTitle capitalizes the first letter and caps the length.
func FormatTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(title)
	title = string(unicode.ToUpper(r)) + title[size:]

	if utf8.RuneCountInString(title) > maxTitleRunes {
		runes := []rune(title)
		title = string(runes[:maxTitleRunes-3]) + "..."
	}
	return title
}

var genericLeadIn = regexp.MustCompile(`(?i)^\s*(?:(?:tolong|bisa|bisakah|mohon|please|can you)\s+)?` +
	`(?:(?:buatkan|buat|bikin|tambahkan|tambah|catat|catatkan|jadwalkan|create|add|make|schedule)\s+)?` +
	`(?:(?:sebuah|satu|a|an)\s+)?` +
	`(?:(?:tugas|task|pr|assignment|jadwal|acara|kebiasaan|habit|catatan|note)(?:\s+|$))?`)

// FallbackTitle builds a title from the first words of message after
// stripping generic request verbs ("tolong buatkan tugas ..."). It returns
// "" only for a blank message.
func FallbackTitle(message string) string {
	stripped := genericLeadIn.ReplaceAllString(message, "")
	words := strings.Fields(stripped)
	if len(words) == 0 {
		words = strings.Fields(message)
	}
	if len(words) > fallbackTokens {
		words = words[:fallbackTokens]
	}
	return FormatTitle(strings.Join(words, " "))
}
