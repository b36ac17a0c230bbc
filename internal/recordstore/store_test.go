package recordstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/chatact/internal/domain"
)

func tempStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "chatact.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	s.now = func() time.Time { return time.Date(2026, 10, 14, 1, 25, 42, 0, time.UTC) }
	return s
}

func TestCreate_TaskCategoryBecomesLabel(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	due := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	entity, err := s.Create(ctx, domain.EntityTask, "u1", domain.TaskParams{
		Title:    "Esai Sejarah",
		DueDate:  &due,
		Priority: domain.PriorityHigh,
		Category: "Kuliah",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if entity.ID == "" {
		t.Fatal("expected an entity ID")
	}

	task, err := s.GetTask(ctx, entity.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	want := &Task{
		ID:       entity.ID,
		OwnerID:  "u1",
		Title:    "Esai Sejarah",
		DueDate:  &due,
		Priority: domain.PriorityHigh,
		Labels:   []string{"Kuliah"},
		Status:   "pending",
	}
	if diff := cmp.Diff(want, task); diff != "" {
		t.Errorf("task mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_TaskWithoutCategoryHasNoLabels(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	entity, err := s.Create(ctx, domain.EntityTask, "u1", domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	task, _ := s.GetTask(ctx, entity.ID)
	if len(task.Labels) != 0 {
		t.Errorf("expected no labels, got %v", task.Labels)
	}
	if task.DueDate != nil {
		t.Errorf("expected no due date, got %v", task.DueDate)
	}
}

func TestCreate_ScheduleColorFollowsType(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 15, 7, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		typ  domain.EventType
		want string
	}{
		{domain.EventMeeting, "#EF4444"},
		{domain.EventExam, "#8B5CF6"},
		{domain.EventGeneric, "#3B82F6"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			entity, err := s.Create(ctx, domain.EntitySchedule, "u1", domain.ScheduleParams{
				Title: "Acara", StartTime: &start, EndTime: &end, Type: tt.typ,
			})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			var color, status string
			err = s.db.QueryRow(`SELECT color, status FROM schedules WHERE id = ?`, entity.ID).Scan(&color, &status)
			if err != nil {
				t.Fatalf("query failed: %v", err)
			}
			if color != tt.want {
				t.Errorf("color = %q, want %q", color, tt.want)
			}
			if status != "scheduled" {
				t.Errorf("status = %q, want scheduled", status)
			}
		})
	}
}

func TestCreate_HabitDefaults(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	entity, err := s.Create(ctx, domain.EntityHabit, "u1", domain.HabitParams{
		Name:      "Membaca",
		Frequency: domain.FrequencyWeekly,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var description, icon, color string
	var streak int
	err = s.db.QueryRow(`SELECT description, icon, color, streak FROM habits WHERE id = ?`, entity.ID).
		Scan(&description, &icon, &color, &streak)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if description != "Kebiasaan mingguan: Membaca" {
		t.Errorf("description = %q", description)
	}
	if icon != "📌" || color != "#10b981" {
		t.Errorf("theme = %q/%q, want 📌/#10b981", icon, color)
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0", streak)
	}
}

func TestCreate_NoteColor(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	entity, err := s.Create(ctx, domain.EntityNote, "u1", domain.NoteParams{Title: "Ide", Content: "Aplikasi catatan"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	var color string
	if err := s.db.QueryRow(`SELECT color FROM notes WHERE id = ?`, entity.ID).Scan(&color); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if color != DefaultNoteColor {
		t.Errorf("color = %q, want %q", color, DefaultNoteColor)
	}
}

func TestCreate_RejectsInvalid(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 15, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		kind   domain.EntityKind
		params domain.ParameterSet
	}{
		{"nil parameters", domain.EntityTask, nil},
		{"kind mismatch", domain.EntityNote, domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium}},
		{"empty title", domain.EntityTask, domain.TaskParams{Priority: domain.PriorityMedium}},
		{"end before start", domain.EntitySchedule, domain.ScheduleParams{Title: "Rapat", StartTime: &start, EndTime: &start, Type: domain.EventMeeting}},
		{"empty content", domain.EntityNote, domain.NoteParams{Title: "Ide"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.kind, "u1", tt.params)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	entity, err := s.Create(ctx, domain.EntityHabit, "u1", domain.HabitParams{Name: "Olahraga", Frequency: domain.FrequencyDaily})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get(ctx, domain.EntityHabit, entity.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(entity, got); diff != "" {
		t.Errorf("entity mismatch (-want +got):\n%s", diff)
	}

	missing, err := s.Get(ctx, domain.EntityTask, entity.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a habit id looked up as a task, got %+v", missing)
	}

	if _, err := s.Get(ctx, "reminder", entity.ID); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown kind, got %v", err)
	}
}
