// Package action is the chat pipeline entry point: it turns a chat turn into
// an action record, runs it when policy allows, and applies user decisions.
package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nathanbeddoewebdev/chatact/internal/assemble"
	"nathanbeddoewebdev/chatact/internal/auditlog"
	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/executor"
	"nathanbeddoewebdev/chatact/internal/intent"
	"nathanbeddoewebdev/chatact/internal/lifecycle"
	"nathanbeddoewebdev/chatact/internal/policy"
	"nathanbeddoewebdev/chatact/internal/retry"
)

// ContextStore supplies advisory conversational hints.
type ContextStore interface {
	Hints(ctx context.Context, ownerID string) (*domain.Hints, error)
}

// ContextRecorder is implemented by context stores that learn from chat
// turns.
type ContextRecorder interface {
	RecordConversation(ctx context.Context, ownerID, message string) error
}

// Service encapsulates action detection, auto-execution and decisions.
type Service struct {
	lifecycle *lifecycle.Manager
	executor  *executor.Executor
	policy    *policy.Policy
	hints     ContextStore
	logger    *zap.Logger
	now       func() time.Time
	retry     retry.Config
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy replaces the default auto-execution policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithContextStore sets where hints are read from. Without one, assembly
// runs with no hints.
func WithContextStore(cs ContextStore) Option {
	return func(s *Service) { s.hints = cs }
}

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the reference clock for relative dates. Its location is
// the location parameters are resolved in.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRetry sets the retry policy for hint reads.
func WithRetry(cfg retry.Config) Option {
	return func(s *Service) { s.retry = cfg }
}

// NewService creates a new action service.
func NewService(lc *lifecycle.Manager, exec *executor.Executor, opts ...Option) *Service {
	s := &Service{
		lifecycle: lc,
		executor:  exec,
		policy:    policy.Default(),
		logger:    zap.NewNop(),
		now:       time.Now,
		retry:     retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DetectAndRequestAction classifies one chat turn and, when it asks for an
// action, persists it as a Requested record. Actions the policy allows run
// immediately and the returned record reflects the outcome. It returns
// nil, nil when the turn asks for nothing.
func (s *Service) DetectAndRequestAction(ctx context.Context, message, reply, ownerID, conversationID string) (*domain.ActionRecord, error) {
	kind, ok := intent.Classify(message, reply)
	if !ok {
		return nil, nil
	}

	act := assemble.Intent(kind, assemble.Input{
		Message: message,
		Reply:   reply,
		Now:     s.now(),
		Hints:   s.loadHints(ctx, ownerID),
	})

	ctx = auditlog.WithMetadata(ctx, auditlog.Metadata{Actor: actorOr(ctx, auditlog.ActorUser)})
	record, err := s.lifecycle.Create(ctx, act, ownerID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("action: request %s: %w", kind, err)
	}
	s.logger.Info("action requested",
		zap.Int64("action_id", record.ID),
		zap.String("kind", string(kind)),
		zap.String("owner_id", ownerID),
	)

	if !s.policy.ShouldAutoExecute(kind, act.Parameters) {
		return record, nil
	}

	pctx := auditlog.WithMetadata(ctx, auditlog.Metadata{Actor: auditlog.ActorPolicy})
	if _, err := s.executor.Execute(pctx, record); err != nil {
		return nil, fmt.Errorf("action: auto-execute action %d: %w", record.ID, err)
	}
	return s.lifecycle.Get(ctx, record.ID)
}

// DecideAction approves or rejects a pending action on behalf of its owner.
// A record that is missing or belongs to someone else is reported as
// domain.ErrNotFound. A record no longer awaiting a decision is reported as
// domain.ErrInvalidState.
func (s *Service) DecideAction(ctx context.Context, id int64, ownerID string, approved bool) (*domain.ExecutionResult, error) {
	record, err := s.lifecycle.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("action: decide: %w", err)
	}
	if record.OwnerID != ownerID {
		return nil, fmt.Errorf("action: decide action %d: %w", id, domain.ErrNotFound)
	}
	if record.Status != domain.StatusRequested {
		return nil, fmt.Errorf("action: action %d is %s: %w", id, record.Status, domain.ErrInvalidState)
	}

	ctx = auditlog.WithMetadata(ctx, auditlog.Metadata{Actor: auditlog.ActorUser})
	var result *domain.ExecutionResult
	if approved {
		result, err = s.executor.Execute(ctx, record)
	} else {
		result, err = s.executor.Reject(ctx, record)
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		// Another decision claimed the record between Get and the claim.
		return nil, fmt.Errorf("action: action %d: %w", id, domain.ErrInvalidState)
	}
	if err != nil {
		return nil, fmt.Errorf("action: decide: %w", err)
	}

	s.logger.Info("action decided",
		zap.Int64("action_id", id),
		zap.Bool("approved", approved),
		zap.Bool("success", result.Success),
	)
	return result, nil
}

// ListPendingActions returns the owner's actions awaiting a decision.
func (s *Service) ListPendingActions(ctx context.Context, ownerID string) ([]domain.ActionRecord, error) {
	return s.lifecycle.ListPending(ctx, ownerID)
}

// ListConversationActions returns every action of a conversation.
func (s *Service) ListConversationActions(ctx context.Context, conversationID string) ([]domain.ActionRecord, error) {
	return s.lifecycle.ListForConversation(ctx, conversationID)
}

// Cleanup removes finished action records older than maxAge.
func (s *Service) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	return s.lifecycle.Prune(ctx, maxAge)
}

// RecordConversation feeds message to the context store when it records
// turns. Context is advisory, so failures are logged and swallowed.
func (s *Service) RecordConversation(ctx context.Context, ownerID, message string) {
	rec, ok := s.hints.(ContextRecorder)
	if !ok {
		return
	}
	if err := rec.RecordConversation(ctx, ownerID, message); err != nil {
		s.logger.Warn("context not recorded",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}

// loadHints reads hints with retries on lock contention. Failures only
// degrade extraction, so they are logged and swallowed.
func (s *Service) loadHints(ctx context.Context, ownerID string) *domain.Hints {
	if s.hints == nil {
		return nil
	}
	var h *domain.Hints
	err := retry.Do(ctx, s.retry, retry.IsRetryable, func() error {
		var err error
		h, err = s.hints.Hints(ctx, ownerID)
		return err
	})
	if err != nil {
		s.logger.Warn("context unavailable",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return nil
	}
	return h
}

func actorOr(ctx context.Context, fallback string) string {
	if actor := auditlog.MetadataFromContext(ctx).Actor; actor != "" {
		return actor
	}
	return fallback
}
