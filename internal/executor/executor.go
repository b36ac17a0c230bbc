// Package executor runs approved actions against the domain store.
package executor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nathanbeddoewebdev/chatact/internal/domain"
)

// DomainStore creates the records an action produces.
type DomainStore interface {
	Create(ctx context.Context, kind domain.EntityKind, ownerID string, params domain.ParameterSet) (*domain.Entity, error)
}

// Lifecycle is the subset of the lifecycle manager the executor drives.
type Lifecycle interface {
	Transition(ctx context.Context, id int64, to domain.Status, result *domain.ExecutionResult) (*domain.ActionRecord, error)
}

// RejectedMessage is the result message stored on rejected records.
const RejectedMessage = "Action rejected by user"

// Executor performs approved actions exactly once.
type Executor struct {
	store     DomainStore
	lifecycle Lifecycle
	logger    *zap.Logger
}

// New creates an Executor. A nil logger disables logging.
func New(store DomainStore, lifecycle Lifecycle, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{store: store, lifecycle: lifecycle, logger: logger}
}

// Execute claims a Requested record, creates its entity and records the
// outcome. Only the caller that wins the Requested to Approved move touches
// the store; every other caller gets an error wrapping
// domain.ErrInvalidTransition. A store or validation failure is reported in
// the returned result with the record left Failed, not as an error.
func (e *Executor) Execute(ctx context.Context, record *domain.ActionRecord) (*domain.ExecutionResult, error) {
	if _, err := e.lifecycle.Transition(ctx, record.ID, domain.StatusApproved, nil); err != nil {
		return nil, fmt.Errorf("executor: claim action %d: %w", record.ID, err)
	}

	entity, err := e.create(ctx, record)
	if err != nil {
		result := &domain.ExecutionResult{
			Message: fmt.Sprintf("Failed to create %s: %v", record.Target, err),
		}
		e.logger.Warn("action failed",
			zap.Int64("action_id", record.ID),
			zap.String("kind", string(record.Kind)),
			zap.Error(err),
		)
		if _, terr := e.lifecycle.Transition(ctx, record.ID, domain.StatusFailed, result); terr != nil {
			e.stranded(record, "", terr)
			return nil, fmt.Errorf("executor: record failure of action %d: %w", record.ID, terr)
		}
		return result, nil
	}

	result := &domain.ExecutionResult{
		Success: true,
		Message: record.Target.Label() + " created successfully",
		Data:    entity,
	}
	if _, err := e.lifecycle.Transition(ctx, record.ID, domain.StatusCompleted, result); err != nil {
		e.stranded(record, entity.ID, err)
		return nil, fmt.Errorf("executor: complete action %d: %w", record.ID, err)
	}
	e.logger.Info("action completed",
		zap.Int64("action_id", record.ID),
		zap.String("kind", string(record.Kind)),
		zap.String("entity_id", entity.ID),
	)
	return result, nil
}

// stranded reports a claimed record whose outcome could not be stored. The
// record stays Approved and needs manual repair; entityID is set when the
// entity was already created.
func (e *Executor) stranded(record *domain.ActionRecord, entityID string, err error) {
	e.logger.Error("action stranded in approved",
		zap.Int64("action_id", record.ID),
		zap.String("kind", string(record.Kind)),
		zap.String("entity_id", entityID),
		zap.Error(err),
	)
}

func (e *Executor) create(ctx context.Context, record *domain.ActionRecord) (*domain.Entity, error) {
	if record.Parameters == nil {
		return nil, fmt.Errorf("missing parameters: %w", domain.ErrValidation)
	}
	if err := record.Parameters.Validate(); err != nil {
		return nil, err
	}
	entity, err := e.store.Create(ctx, record.Target, record.OwnerID, record.Parameters)
	if err != nil {
		return nil, err
	}
	if entity == nil || entity.ID == "" {
		return nil, errors.New("store returned no entity id")
	}
	return entity, nil
}

// Reject moves a Requested record to Rejected without touching the store.
func (e *Executor) Reject(ctx context.Context, record *domain.ActionRecord) (*domain.ExecutionResult, error) {
	result := &domain.ExecutionResult{Message: RejectedMessage}
	if _, err := e.lifecycle.Transition(ctx, record.ID, domain.StatusRejected, result); err != nil {
		return nil, fmt.Errorf("executor: reject action %d: %w", record.ID, err)
	}
	return result, nil
}
