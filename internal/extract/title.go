package extract

import (
	"regexp"
	"strings"
)

// timeStop ends a captured value at the first clause word, temporal phrase
// or punctuation mark.
var timeStop = regexp.MustCompile(`(?i)\b(?:dengan\s+deadline|pada\s+tanggal|sebelum\s+tanggal|with\s+(?:a\s+)?deadline|(?:untuk|for|in)\s+(?:kategori|category|course|subject|pelajaran|mata\s+kuliah|mk)|kategori|category|pelajaran|mata\s+kuliah|mk|prioritas|priority|` +
	`hari ini|today|besok|tomorrow|lusa|minggu depan|next week|bulan depan|next month|` +
	`jam|pukul|at|selama|durasi|sampai|hingga|dalam|deadline)\b|[,.!?;\n]`)

// taskLeadIns are tried in order; the first phrase present in the text
// starts the title.
var taskLeadIns = leadIns(
	"buat tugas", "tambahkan tugas", "jadwalkan tugas",
	"ingatkan saya untuk", "ingatkan saya", "bikin task", "catat tugas",
	"ada tugas", "aku ada tugas", "aku punya tugas",
	"buat task", "tambah task", "bikin pr",
	"aku ada pr", "ada deadline", "aku ada deadline",
	"create task", "add task", "remind me to", "remind me", "there's homework",
	"tugas", "deadline", "pr", "assignment",
)

var quotedOrAssigned = regexp.MustCompile(`['"“”‘’]([^'"“”‘’]+)['"“”‘’]|=\s*([^,.!?;]+)`)

// Title extracts a task title from text. The title is whatever follows the
// first lead-in phrase up to a clause word, temporal phrase or punctuation.
// Quoted substrings are the fallback.
func Title(text string) (string, bool) {
	if rest, ok := afterLeadIn(taskLeadIns, text); ok {
		if title := cutAt(rest, timeStop); title != "" {
			return FormatTitle(title), true
		}
	}
	if m := quotedOrAssigned.FindStringSubmatch(text); m != nil {
		if title := strings.TrimSpace(firstGroup(m)); title != "" {
			return FormatTitle(title), true
		}
	}
	return "", false
}

var scheduleTitleRules = []rule{
	{pattern: regexp.MustCompile(`'([^']+)'`), extract: group(1)},
	{pattern: regexp.MustCompile(`"([^"]+)"`), extract: group(1)},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:jadwalkan|buat|buatkan|tambahkan|schedule)\s+((?:meeting|rapat|acara|event|jadwal|kelas|ujian|janji)\s+[\p{L}\d][^,.!?]*)`),
		extract: group(1),
	},
	{pattern: regexp.MustCompile(`(?i)^\s*([\p{L}\d][^,.!?]*?)\s+(?:pada|di|tanggal)\b`), extract: group(1)},
}

// ScheduleTitle extracts an event title: quoted text first, then
// "jadwalkan rapat <title>", then "<title> pada ...".
func ScheduleTitle(text string) (string, bool) {
	title, ok := applyRules(scheduleTitleRules, text, timeStop)
	if !ok {
		return "", false
	}
	return FormatTitle(title), true
}

var habitLeadIns = leadIns(
	"buat kebiasaan", "tambahkan kebiasaan", "catat kebiasaan", "track kebiasaan",
	"kebiasaan baru", "habit baru", "new habit",
	"biasakan", "habit", "kebiasaan", "rutin", "rutinitas",
)

var habitStop = regexp.MustCompile(`(?i)\b(?:setiap|tiap|every|daily|weekly|monthly|harian|mingguan|bulanan|agar|supaya)\b|[.?,\n]`)

// HabitName extracts a habit name following a habit lead-in, up to a
// frequency phrase or punctuation.
func HabitName(text string) (string, bool) {
	rest, ok := afterLeadIn(habitLeadIns, text)
	if !ok {
		return "", false
	}
	name := cutAt(rest, habitStop)
	if name == "" {
		return "", false
	}
	return FormatTitle(name), true
}

var noteLeadIns = leadIns(
	"buat catatan", "tulis catatan", "simpan catatan", "tambah catatan",
	"take a note", "new note", "buat note", "catat", "catatan", "note",
)

// NoteTitle extracts a note title and content. The title runs to the first
// period or line break and the content is what follows. A note with
// nothing after its title uses the whole text as content.
func NoteTitle(text string) (title, content string, ok bool) {
	rest, found := afterLeadIn(noteLeadIns, text)
	if !found {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)
	head := rest
	if i := strings.IndexAny(rest, ".\n"); i >= 0 {
		head = rest[:i]
		content = strings.TrimSpace(rest[i+1:])
	}
	title = FormatTitle(head)
	if title == "" {
		return "", "", false
	}
	if content == "" {
		content = rest
	}
	return title, content, true
}
