// Package lifecycle owns ActionRecord state. It is the only writer of the
// status column and appends an audit entry for every create and transition.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nathanbeddoewebdev/chatact/internal/actionstore"
	"nathanbeddoewebdev/chatact/internal/auditlog"
	"nathanbeddoewebdev/chatact/internal/domain"
)

// DefaultPageSize caps ListPending when no page size is configured.
const DefaultPageSize = 10

// Manager creates action records and moves them through their lifecycle.
type Manager struct {
	repo     actionstore.Repository
	audit    auditlog.Repository
	logger   *zap.Logger
	pageSize int
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for audit write failures.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPageSize sets the maximum number of records ListPending returns.
func WithPageSize(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.pageSize = n
		}
	}
}

// New creates a Manager. audit may be nil to disable the audit trail.
func New(repo actionstore.Repository, audit auditlog.Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:     repo,
		audit:    audit,
		logger:   zap.NewNop(),
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create persists intent as a new Requested record.
func (m *Manager) Create(ctx context.Context, intent domain.ActionIntent, ownerID, conversationID string) (*domain.ActionRecord, error) {
	target, ok := intent.Kind.Entity()
	if !ok {
		return nil, fmt.Errorf("lifecycle: unknown action kind %q: %w", intent.Kind, domain.ErrValidation)
	}
	if intent.Target != target {
		return nil, fmt.Errorf("lifecycle: kind %s does not produce %q: %w", intent.Kind, intent.Target, domain.ErrValidation)
	}
	if intent.Parameters == nil || intent.Parameters.Kind() != intent.Kind {
		return nil, fmt.Errorf("lifecycle: parameters do not match kind %s: %w", intent.Kind, domain.ErrValidation)
	}

	record := &domain.ActionRecord{
		OwnerID:        ownerID,
		ConversationID: conversationID,
		Kind:           intent.Kind,
		Target:         intent.Target,
		Parameters:     intent.Parameters,
		Status:         domain.StatusRequested,
		SourceMessage:  intent.SourceMessage,
		SourceReply:    intent.SourceReply,
	}
	if err := m.repo.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("lifecycle: create: %w", err)
	}

	m.record(ctx, record, auditlog.EventCreated, "", "")
	return record, nil
}

// Transition moves record id to status to, attaching result. Completed
// requires a successful result carrying an entity id.
func (m *Manager) Transition(ctx context.Context, id int64, to domain.Status, result *domain.ExecutionResult) (*domain.ActionRecord, error) {
	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := current.Status
	if !domain.CanTransition(from, to) {
		return nil, fmt.Errorf("lifecycle: action %d %s -> %s: %w", id, from, to, domain.ErrInvalidTransition)
	}

	var ref string
	if to == domain.StatusCompleted {
		if result == nil || !result.Success || result.Data == nil || result.Data.ID == "" {
			return nil, fmt.Errorf("lifecycle: action %d: completion requires a created entity: %w", id, domain.ErrValidation)
		}
		ref = result.Data.ID
	}

	moved, err := m.repo.CompareAndSetStatus(ctx, id, from, to, result, ref)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: transition action %d: %w", id, err)
	}
	if !moved {
		return nil, fmt.Errorf("lifecycle: action %d left %s concurrently: %w", id, from, domain.ErrInvalidTransition)
	}

	updated, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := ""
	if result != nil {
		detail = result.Message
	}
	m.record(ctx, updated, auditlog.EventTransition, from, detail)
	return updated, nil
}

// Get returns record id or an error wrapping domain.ErrNotFound.
func (m *Manager) Get(ctx context.Context, id int64) (*domain.ActionRecord, error) {
	record, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: get action %d: %w", id, err)
	}
	if record == nil {
		return nil, fmt.Errorf("lifecycle: action %d: %w", id, domain.ErrNotFound)
	}
	return record, nil
}

// ListPending returns the owner's Requested records, newest first, capped at
// the page size.
func (m *Manager) ListPending(ctx context.Context, ownerID string) ([]domain.ActionRecord, error) {
	records, err := m.repo.ListByStatus(ctx, ownerID, domain.StatusRequested, m.pageSize)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: list pending: %w", err)
	}
	return records, nil
}

// ListForConversation returns every record of a conversation, newest first.
func (m *Manager) ListForConversation(ctx context.Context, conversationID string) ([]domain.ActionRecord, error) {
	records, err := m.repo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: list conversation: %w", err)
	}
	return records, nil
}

// Prune deletes terminal records last updated more than olderThan ago.
func (m *Manager) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := m.repo.DeleteOlderThan(ctx, olderThan)
	if err != nil {
		return 0, fmt.Errorf("lifecycle: prune: %w", err)
	}
	return n, nil
}

// record appends an audit entry. Failures are logged and never returned.
func (m *Manager) record(ctx context.Context, rec *domain.ActionRecord, event string, from domain.Status, detail string) {
	if m.audit == nil {
		return
	}
	meta := auditlog.MetadataFromContext(ctx)
	outcome := auditlog.OutcomeSuccess
	if rec.Status == domain.StatusFailed {
		outcome = auditlog.OutcomeError
	}
	entry := &auditlog.AuditEntry{
		ActionID:       rec.ID,
		OwnerID:        rec.OwnerID,
		ConversationID: rec.ConversationID,
		Event:          event,
		Kind:           string(rec.Kind),
		FromStatus:     string(from),
		ToStatus:       string(rec.Status),
		Actor:          meta.Actor,
		Command:        meta.Command,
		Outcome:        outcome,
		Detail:         detail,
	}
	if err := m.audit.Save(ctx, entry); err != nil {
		m.logger.Warn("audit write failed",
			zap.Int64("action_id", rec.ID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}
