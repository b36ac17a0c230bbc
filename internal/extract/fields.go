package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"nathanbeddoewebdev/chatact/internal/domain"
)

const categoryNoun = `(?:mata ?kuliah|mk|course|subject|kategori|category|pelajaran)`

var categoryRules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\b(?:untuk|di|dalam|for|in)\s+` + categoryNoun + `\s+(?:adalah|yaitu|:)?\s*['"]?(\p{L}[^,.!?'"\n]*)`),
		extract: group(1),
	},
	{
		pattern: regexp.MustCompile(`(?i)\b` + categoryNoun + `\s*(?:adalah|yaitu|:)?\s*['"]?(\p{L}[^,.!?'"\n]*)`),
		extract: group(1),
	},
}

var categoryStop = regexp.MustCompile(`(?i)\b(?:dengan|prioritas|priority|deadline|hari ini|today|besok|tomorrow|lusa|minggu depan|bulan depan|jam|pukul)\b`)

// Category extracts a task category such as "untuk mata kuliah Statistik".
func Category(text string) (string, bool) {
	return applyRules(categoryRules, text, categoryStop)
}

var descriptionRules = []rule{
	{pattern: regexp.MustCompile(`(?i)\b(?:deskripsi|description)(?:nya)?\s*(?:adalah|yaitu|is|:)?\s+([^\n]+)`), extract: group(1)},
	{pattern: regexp.MustCompile(`(?i)\b(?:detail|details)(?:nya)?\s*(?:adalah|yaitu|is|:)?\s+([^\n]+)`), extract: group(1)},
	{pattern: regexp.MustCompile(`(?i)\b(?:keterangan|note)(?:nya)?\s*(?:adalah|yaitu|is|:)\s*([^\n]+)`), extract: group(1)},
}

var descriptionOpening = regexp.MustCompile(`(?i)^\s*(?:(?:tolong|mohon|bisa|bisakah|please)\s+)?(?:buatkan|buat|tambahkan|catat|create|add)\s+(?:(?:sebuah|satu|a|an)\s+)?(?:tugas|task|pr|assignment)(?:\s+baru)?`)

var descriptionSplit = regexp.MustCompile(`(?i)\b(?:dengan\s+deadline|pada\s+tanggal|sebelum\s+tanggal|with\s+(?:a\s+)?deadline|untuk\s+kategori|untuk\s+pelajaran|untuk\s+mata\s+kuliah|kategori|category|pelajaran|mata\s+kuliah|mk|prioritas|priority)\b`)

// structuralMinRunes is the length above which a marker-less message is
// split on structural keywords to find a description.
const structuralMinRunes = 50

// Description extracts an explicit description ("deskripsinya: ...").
// Long texts without a marker yield the part before the first structural
// keyword, opening request verbs removed.
func Description(text string) (string, bool) {
	if v, ok := applyRules(descriptionRules, text, nil); ok {
		return v, true
	}
	if utf8.RuneCountInString(text) <= structuralMinRunes {
		return "", false
	}
	cleaned := strings.TrimSpace(descriptionOpening.ReplaceAllString(text, ""))
	loc := descriptionSplit.FindStringIndex(cleaned)
	if loc == nil {
		return "", false
	}
	head := strings.TrimSpace(cleaned[:loc[0]])
	return head, head != ""
}

// priorityBuckets are tested in order. Negated urgency comes first so
// "tidak penting" is not read as "penting".
var priorityBuckets = []struct {
	priority domain.Priority
	pattern  *regexp.Regexp
}{
	{domain.PriorityLow, regexp.MustCompile(`(?i)\b(?:tidak|kurang|gak|nggak|not)\s+(?:penting|urgent|mendesak|important)\b`)},
	{domain.PriorityHigh, regexp.MustCompile(`(?i)\b(?:penting|urgent|segera|high|tinggi|krusial|critical|mendesak|important)\b`)},
	{domain.PriorityMedium, regexp.MustCompile(`(?i)\b(?:sedang|medium|normal)\b`)},
	{domain.PriorityLow, regexp.MustCompile(`(?i)\b(?:rendah|low|santai|relaxed)\b`)},
}

// MatchPriority reports the first priority bucket text falls into.
// An explicit "medium" is a match.
func MatchPriority(text string) (domain.Priority, bool) {
	for _, b := range priorityBuckets {
		if b.pattern.MatchString(text) {
			return b.priority, true
		}
	}
	return "", false
}

// Priority is MatchPriority with the medium default.
func Priority(text string) domain.Priority {
	if p, ok := MatchPriority(text); ok {
		return p
	}
	return domain.PriorityMedium
}

var locationRules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)\b(?:bertempat di|berlokasi di|lokasi|tempat|venue|location)\s*(?::|adalah|yaitu|is)?\s*["']?([\p{L}\d][^,.!?"'\n]*)`),
		extract: group(1),
	},
	{
		pattern: regexp.MustCompile(`(?i)\bdi\s+["']?([\p{L}\d][^,.!?"'\n]*)`),
		extract: group(1),
	},
}

var locationStop = regexp.MustCompile(`(?i)\b(?:pada|untuk|dengan|hari ini|today|besok|tomorrow|lusa|minggu depan|next week|bulan depan|next month|jam|pukul|at|selama|durasi|sampai|hingga|dalam|tanggal)\b`)

// Location extracts an event venue ("di Ruang 301").
func Location(text string) (string, bool) {
	return applyRules(locationRules, text, locationStop)
}

var habitPurpose = []rule{
	{pattern: regexp.MustCompile(`(?i)\b(?:agar|supaya|untuk)\s+([^.?!\n]+)`), extract: group(1)},
	{pattern: regexp.MustCompile(`(?i)\bdengan tujuan\s+([^.?!\n]+)`), extract: group(1)},
}

// HabitPurpose extracts the goal clause of a habit request
// ("... agar lebih sehat").
func HabitPurpose(text string) (string, bool) {
	return applyRules(habitPurpose, text, nil)
}
