package lifecycle

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"nathanbeddoewebdev/chatact/internal/actionstore"
	"nathanbeddoewebdev/chatact/internal/auditlog"
	"nathanbeddoewebdev/chatact/internal/database"
	"nathanbeddoewebdev/chatact/internal/domain"
)

type fixture struct {
	manager *Manager
	repo    *actionstore.SQLiteRepository
	audit   *auditlog.SQLiteRepository
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "chatact.db"))
	if err != nil {
		t.Fatalf("database.Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := actionstore.New(db)
	if err != nil {
		t.Fatalf("actionstore.New failed: %v", err)
	}
	audit, err := auditlog.New(db)
	if err != nil {
		t.Fatalf("auditlog.New failed: %v", err)
	}
	return fixture{manager: New(repo, audit, opts...), repo: repo, audit: audit}
}

func taskIntent(title string) domain.ActionIntent {
	return domain.ActionIntent{
		Kind:          domain.ActionCreateTask,
		Target:        domain.EntityTask,
		Parameters:    domain.TaskParams{Title: title, Priority: domain.PriorityMedium},
		SourceMessage: "buat tugas " + title,
	}
}

func created(id string) *domain.ExecutionResult {
	return &domain.ExecutionResult{
		Success: true,
		Message: "Task created successfully",
		Data:    &domain.Entity{ID: id, Kind: domain.EntityTask, Title: "Esai", CreatedAt: time.Now().UTC()},
	}
}

func TestCreate_StartsRequested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if record.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if record.Status != domain.StatusRequested {
		t.Errorf("Status = %q, want %q", record.Status, domain.StatusRequested)
	}
	if record.CreatedResultRef != "" || record.Result != nil {
		t.Errorf("expected no result on a new record, got ref=%q result=%+v", record.CreatedResultRef, record.Result)
	}

	got, err := f.manager.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium}, got.Parameters); diff != "" {
		t.Errorf("Parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_RejectsInconsistentIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		intent domain.ActionIntent
	}{
		{
			name: "target mismatch",
			intent: domain.ActionIntent{
				Kind:       domain.ActionCreateTask,
				Target:     domain.EntityNote,
				Parameters: domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium},
			},
		},
		{
			name: "unknown kind",
			intent: domain.ActionIntent{
				Kind:       "delete_task",
				Target:     domain.EntityTask,
				Parameters: domain.TaskParams{Title: "Esai", Priority: domain.PriorityMedium},
			},
		},
		{
			name: "parameters of another kind",
			intent: domain.ActionIntent{
				Kind:       domain.ActionCreateTask,
				Target:     domain.EntityTask,
				Parameters: domain.NoteParams{Title: "Ide", Content: "isi"},
			},
		},
		{
			name: "missing parameters",
			intent: domain.ActionIntent{
				Kind:   domain.ActionCreateHabit,
				Target: domain.EntityHabit,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.manager.Create(ctx, tt.intent, "u1", "c1")
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	pending, err := f.manager.ListPending(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected nothing persisted, got %d records", len(pending))
	}
}

func TestTransition_CompletedSetsRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")
	if _, err := f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	done, err := f.manager.Transition(ctx, record.ID, domain.StatusCompleted, created("task-1"))
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want completed", done.Status)
	}
	if done.CreatedResultRef != "task-1" {
		t.Errorf("CreatedResultRef = %q, want %q", done.CreatedResultRef, "task-1")
	}
	if done.Result == nil || done.Result.Message != "Task created successfully" {
		t.Errorf("unexpected result: %+v", done.Result)
	}
}

func TestTransition_FailedHasNoRef(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")
	f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil)

	failed, err := f.manager.Transition(ctx, record.ID, domain.StatusFailed,
		&domain.ExecutionResult{Message: "Failed to create task: disk full"})
	if err != nil {
		t.Fatalf("fail transition failed: %v", err)
	}
	if failed.CreatedResultRef != "" {
		t.Errorf("expected empty ref on failure, got %q", failed.CreatedResultRef)
	}
	if !failed.Status.Terminal() {
		t.Error("expected failed to be terminal")
	}
}

func TestTransition_CompletedRequiresEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")
	f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil)

	for _, result := range []*domain.ExecutionResult{
		nil,
		{Success: false, Message: "nope"},
		{Success: true, Message: "no data"},
		{Success: true, Data: &domain.Entity{}},
	} {
		if _, err := f.manager.Transition(ctx, record.ID, domain.StatusCompleted, result); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("result %+v: expected ErrValidation, got %v", result, err)
		}
	}

	got, _ := f.manager.Get(ctx, record.ID)
	if got.Status != domain.StatusApproved {
		t.Errorf("Status = %q, want approved to be unchanged", got.Status)
	}
}

func TestTransition_RejectsDisallowedMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")

	for _, to := range []domain.Status{domain.StatusCompleted, domain.StatusFailed, domain.StatusRequested} {
		if _, err := f.manager.Transition(ctx, record.ID, to, created("x")); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("requested -> %s: expected ErrInvalidTransition, got %v", to, err)
		}
	}

	if _, err := f.manager.Transition(ctx, record.ID, domain.StatusRejected,
		&domain.ExecutionResult{Message: "Action rejected by user"}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	_, err := f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("rejected -> approved: expected ErrInvalidTransition, got %v", err)
	}
	if !errors.Is(err, domain.ErrStateError) {
		t.Errorf("expected the error to be a state error, got %v", err)
	}
}

func TestTransition_UnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Transition(context.Background(), 999, domain.StatusApproved, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransition_ConcurrentClaimHasOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")

	const writers = 8
	var wins, losses atomic.Int32
	var g errgroup.Group
	for range writers {
		g.Go(func() error {
			_, err := f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, domain.ErrInvalidTransition):
				losses.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if wins.Load() != 1 {
		t.Errorf("expected exactly 1 winner, got %d", wins.Load())
	}
	if losses.Load() != writers-1 {
		t.Errorf("expected %d losers, got %d", writers-1, losses.Load())
	}
}

func TestListPending_NewestFirstAndCapped(t *testing.T) {
	f := newFixture(t, WithPageSize(2))
	ctx := context.Background()

	first, _ := f.manager.Create(ctx, taskIntent("Satu"), "u1", "c1")
	second, _ := f.manager.Create(ctx, taskIntent("Dua"), "u1", "c1")
	third, _ := f.manager.Create(ctx, taskIntent("Tiga"), "u1", "c1")
	f.manager.Create(ctx, taskIntent("Lain"), "u2", "c2")
	f.manager.Transition(ctx, first.ID, domain.StatusRejected, &domain.ExecutionResult{Message: "Action rejected by user"})

	pending, err := f.manager.ListPending(ctx, "u1")
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}

	var ids []int64
	for _, r := range pending {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]int64{third.ID, second.ID}, ids); diff != "" {
		t.Errorf("pending IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestListForConversation_Unbounded(t *testing.T) {
	f := newFixture(t, WithPageSize(1))
	ctx := context.Background()

	for _, title := range []string{"Satu", "Dua", "Tiga"} {
		f.manager.Create(ctx, taskIntent(title), "u1", "c1")
	}
	f.manager.Create(ctx, taskIntent("Lain"), "u1", "c2")

	records, err := f.manager.ListForConversation(ctx, "c1")
	if err != nil {
		t.Fatalf("ListForConversation failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].SourceMessage != "buat tugas Tiga" {
		t.Errorf("expected newest first, got %q", records[0].SourceMessage)
	}
}

func TestAudit_RecordsCreateAndTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := auditlog.WithMetadata(context.Background(), auditlog.Metadata{Actor: auditlog.ActorUser, Command: "chatact action approve"})

	record, _ := f.manager.Create(ctx, taskIntent("Esai"), "u1", "c1")
	f.manager.Transition(ctx, record.ID, domain.StatusApproved, nil)
	f.manager.Transition(ctx, record.ID, domain.StatusCompleted, created("task-1"))

	entries, err := f.audit.ListByAction(ctx, record.ID, 10)
	if err != nil {
		t.Fatalf("ListByAction failed: %v", err)
	}

	type step struct{ Event, From, To, Actor, Detail string }
	var got []step
	for _, e := range entries {
		got = append(got, step{e.Event, e.FromStatus, e.ToStatus, e.Actor, e.Detail})
	}
	want := []step{
		{auditlog.EventTransition, "approved", "completed", auditlog.ActorUser, "Task created successfully"},
		{auditlog.EventTransition, "requested", "approved", auditlog.ActorUser, ""},
		{auditlog.EventCreated, "", "requested", auditlog.ActorUser, ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("audit trail mismatch (-want +got):\n%s", diff)
	}
}

type failingAudit struct {
	auditlog.Repository
}

func (failingAudit) Save(context.Context, *auditlog.AuditEntry) error {
	return errors.New("audit disk full")
}

func TestAudit_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	db, err := database.Open(filepath.Join(t.TempDir(), "chatact.db"))
	if err != nil {
		t.Fatalf("database.Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo, err := actionstore.New(db)
	if err != nil {
		t.Fatalf("actionstore.New failed: %v", err)
	}

	m := New(repo, failingAudit{}, WithLogger(zap.New(core)))
	record, err := m.Create(context.Background(), taskIntent("Esai"), "u1", "c1")
	if err != nil {
		t.Fatalf("Create should succeed despite audit failure: %v", err)
	}

	entries := logs.FilterMessage("audit write failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["action_id"]; got != record.ID {
		t.Errorf("action_id field = %v, want %d", got, record.ID)
	}
}
