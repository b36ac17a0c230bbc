package extract

import (
	"regexp"

	"nathanbeddoewebdev/chatact/internal/domain"
)

func words(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + alternation + `)\b`)
}

var eventTypeBuckets = []struct {
	kind    domain.EventType
	pattern *regexp.Regexp
}{
	{domain.EventMeeting, words(`meeting|rapat|pertemuan`)},
	{domain.EventDeadline, words(`deadline|tenggat waktu|tenggat`)},
	{domain.EventClass, words(`kuliah|kelas|class|lecture`)},
	{domain.EventExam, words(`exam|ujian|tes|test|quiz|kuis`)},
	{domain.EventTask, words(`tugas|task|assignment|project|proyek`)},
}

// EventType classifies a schedule entry by its vocabulary.
func EventType(text string) (domain.EventType, bool) {
	for _, b := range eventTypeBuckets {
		if b.pattern.MatchString(text) {
			return b.kind, true
		}
	}
	return "", false
}

// frequencyBuckets run most specific first: "setiap 2 hari" must not be
// read as "setiap hari" and "hari kerja" must not be read as daily.
var frequencyBuckets = []struct {
	freq    domain.Frequency
	pattern *regexp.Regexp
}{
	{domain.FrequencyEveryOtherDay, words(`setiap 2 hari|setiap dua hari|tiap 2 hari|dua hari sekali|every 2 days|every other day`)},
	{domain.FrequencyWeekdays, words(`setiap weekday|weekdays?|hari kerja|senin sampai jumat|senin-jumat`)},
	{domain.FrequencyWeekends, words(`weekends?|akhir pekan|sabtu minggu|sabtu dan minggu`)},
	{domain.FrequencyDaily, words(`setiap hari|tiap hari|daily|harian|every day|everyday`)},
	{domain.FrequencyWeekly, words(`setiap minggu|tiap minggu|weekly|mingguan|every week`)},
	{domain.FrequencyMonthly, words(`setiap bulan|tiap bulan|monthly|bulanan|every month`)},
}

// Frequency extracts how often a habit repeats.
func Frequency(text string) (domain.Frequency, bool) {
	for _, b := range frequencyBuckets {
		if b.pattern.MatchString(text) {
			return b.freq, true
		}
	}
	return "", false
}

// Theme is the icon and color pair shown for a habit.
type Theme struct {
	Icon  string
	Color string
}

// DefaultHabitTheme applies when no vocabulary bucket matches.
var DefaultHabitTheme = Theme{Icon: "📌", Color: "#10b981"}

var habitThemes = []struct {
	theme   Theme
	pattern *regexp.Regexp
}{
	{Theme{"🏋️", "#ef4444"}, words(`olahraga|fitness|gym|latihan|workout|exercise`)},
	{Theme{"📚", "#f59e0b"}, words(`baca|membaca|reading|read|buku|book|books`)},
	{Theme{"💧", "#3b82f6"}, words(`air|minum|hydrate|hydration|water`)},
	{Theme{"😴", "#8b5cf6"}, words(`tidur|sleep|istirahat|rest`)},
	{Theme{"🍎", "#ef4444"}, words(`makan|makanan|nutrisi|nutrition|food|eat`)},
	{Theme{"🧘", "#8b5cf6"}, words(`meditasi|meditate|meditation|mindfulness`)},
	{Theme{"📝", "#f59e0b"}, words(`belajar|study|pelajaran|learn`)},
	{Theme{"🚶", "#10b981"}, words(`jalan|jalan kaki|walk|walking|jogging`)},
}

// HabitTheme picks the icon and color for a habit from its vocabulary.
func HabitTheme(text string) (Theme, bool) {
	for _, t := range habitThemes {
		if t.pattern.MatchString(text) {
			return t.theme, true
		}
	}
	return DefaultHabitTheme, false
}

// DefaultScheduleColor is used for event types without their own color.
const DefaultScheduleColor = "#3B82F6"

var scheduleColors = map[domain.EventType]string{
	domain.EventMeeting:  "#EF4444",
	domain.EventTask:     "#F59E0B",
	domain.EventDeadline: "#DC2626",
	domain.EventClass:    "#6366F1",
	domain.EventExam:     "#8B5CF6",
}

// ScheduleColor returns the calendar color for an event type.
func ScheduleColor(t domain.EventType) string {
	if c, ok := scheduleColors[t]; ok {
		return c
	}
	return DefaultScheduleColor
}

var frequencyLabels = map[domain.Frequency]string{
	domain.FrequencyDaily:         "harian",
	domain.FrequencyWeekly:        "mingguan",
	domain.FrequencyMonthly:       "bulanan",
	domain.FrequencyEveryOtherDay: "dua hari sekali",
	domain.FrequencyWeekdays:      "hari kerja",
	domain.FrequencyWeekends:      "akhir pekan",
}

// HabitDescription is the default description of a habit,
// e.g. "Kebiasaan harian: Minum air".
func HabitDescription(freq domain.Frequency, name string) string {
	label, ok := frequencyLabels[freq]
	if !ok {
		label = frequencyLabels[domain.FrequencyDaily]
	}
	return "Kebiasaan " + label + ": " + name
}
