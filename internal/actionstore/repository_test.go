package actionstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/chatact/internal/domain"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "chatact.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func newRecord(owner, conversation string, params domain.ParameterSet) *domain.ActionRecord {
	target, _ := params.Kind().Entity()
	return &domain.ActionRecord{
		OwnerID:        owner,
		ConversationID: conversation,
		Kind:           params.Kind(),
		Target:         target,
		Parameters:     params,
		Status:         domain.StatusRequested,
		SourceMessage:  "buat tugas esai",
	}
}

func TestInsert_AssignsIDAndTimestamps(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()

	record := newRecord("u1", "c1", domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium})
	if err := r.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if record.ID == 0 {
		t.Error("expected ID to be assigned after insert")
	}
	if record.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if !record.UpdatedAt.Equal(record.CreatedAt) {
		t.Errorf("expected UpdatedAt %v to equal CreatedAt %v", record.UpdatedAt, record.CreatedAt)
	}
}

func TestGet_RoundTrip(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()

	due := time.Date(2026, 10, 15, 7, 0, 0, 0, time.UTC)
	record := newRecord("u1", "c1", domain.TaskParams{
		Title:    "Laporan Keuangan",
		DueDate:  &due,
		Priority: domain.PriorityHigh,
		Category: "Kerja",
	})
	record.SourceReply = "Baik!"
	if err := r.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := r.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if diff := cmp.Diff(record, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_NotFound(t *testing.T) {
	r := tempRepo(t)

	got, err := r.Get(context.Background(), 999)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for non-existent ID, got %+v", got)
	}
}

func TestCompareAndSetStatus(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()

	record := newRecord("u1", "c1", domain.NoteParams{Title: "Ide", Content: "Go"})
	if err := r.Insert(ctx, record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	ok, err := r.CompareAndSetStatus(ctx, record.ID, domain.StatusRequested, domain.StatusApproved, nil, "")
	if err != nil || !ok {
		t.Fatalf("first CAS = %v, %v; want true, nil", ok, err)
	}

	ok, err = r.CompareAndSetStatus(ctx, record.ID, domain.StatusRequested, domain.StatusRejected, nil, "")
	if err != nil {
		t.Fatalf("second CAS error: %v", err)
	}
	if ok {
		t.Fatal("second CAS from a stale status should fail")
	}

	result := &domain.ExecutionResult{
		Success: true,
		Message: "Note created successfully",
		Data:    &domain.Entity{ID: "n-1", Kind: domain.EntityNote, Title: "Ide", CreatedAt: time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)},
	}
	ok, err = r.CompareAndSetStatus(ctx, record.ID, domain.StatusApproved, domain.StatusCompleted, result, "n-1")
	if err != nil || !ok {
		t.Fatalf("complete CAS = %v, %v; want true, nil", ok, err)
	}

	got, err := r.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.CreatedResultRef != "n-1" {
		t.Errorf("CreatedResultRef = %q, want n-1", got.CreatedResultRef)
	}
	if diff := cmp.Diff(result, got.Result); diff != "" {
		t.Errorf("Result mismatch (-want +got):\n%s", diff)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, got.CreatedAt)
	}
}

func TestCompareAndSetStatus_UnknownID(t *testing.T) {
	r := tempRepo(t)

	ok, err := r.CompareAndSetStatus(context.Background(), 42, domain.StatusRequested, domain.StatusApproved, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected CAS on a missing record to report false")
	}
}

func TestListByStatus_NewestFirstAndLimited(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 1, 0, 0, 0, time.UTC)

	for i := range 4 {
		rec := newRecord("u1", "c1", domain.NoteParams{Title: "n", Content: "c"})
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := r.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	other := newRecord("u2", "c2", domain.NoteParams{Title: "n", Content: "c"})
	if err := r.Insert(ctx, other); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := r.CompareAndSetStatus(ctx, 4, domain.StatusRequested, domain.StatusRejected, nil, ""); err != nil {
		t.Fatalf("CAS failed: %v", err)
	}

	got, err := r.ListByStatus(ctx, "u1", domain.StatusRequested, 2)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	var ids []int64
	for _, rec := range got {
		ids = append(ids, rec.ID)
	}
	if diff := cmp.Diff([]int64{3, 2}, ids); diff != "" {
		t.Errorf("ListByStatus ids mismatch (-want +got):\n%s", diff)
	}

	all, err := r.ListByStatus(ctx, "u1", domain.StatusRequested, 0)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("unbounded ListByStatus returned %d records, want 3", len(all))
	}
}

func TestListByConversation(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()

	for _, conv := range []string{"c1", "c2", "c1"} {
		if err := r.Insert(ctx, newRecord("u1", conv, domain.HabitParams{Name: "Lari", Frequency: domain.FrequencyDaily})); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := r.ListByConversation(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByConversation failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != 3 || got[1].ID != 1 {
		t.Errorf("expected newest first [3 1], got [%d %d]", got[0].ID, got[1].ID)
	}
	if _, ok := got[0].Parameters.(domain.HabitParams); !ok {
		t.Errorf("Parameters = %T, want domain.HabitParams", got[0].Parameters)
	}
}

func TestDeleteOlderThan_KeepsOpenRecords(t *testing.T) {
	r := tempRepo(t)
	ctx := context.Background()

	open := newRecord("u1", "c1", domain.NoteParams{Title: "n", Content: "c"})
	done := newRecord("u1", "c1", domain.NoteParams{Title: "n", Content: "c"})
	for _, rec := range []*domain.ActionRecord{open, done} {
		if err := r.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if _, err := r.CompareAndSetStatus(ctx, done.ID, domain.StatusRequested, domain.StatusRejected, nil, ""); err != nil {
		t.Fatalf("CAS failed: %v", err)
	}

	n, err := r.DeleteOlderThan(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d records, want 1", n)
	}
	if got, _ := r.Get(ctx, open.ID); got == nil {
		t.Error("requested record should survive pruning")
	}
}

func TestNew_SharedHandleIsNotClosed(t *testing.T) {
	owner := tempRepo(t)

	shared, err := New(owner.db)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := shared.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := owner.db.Ping(); err != nil {
		t.Errorf("shared handle was closed: %v", err)
	}
}
