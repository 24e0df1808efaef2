// Package workflow composes the risk evaluator, inventory store, movement
// log, ledger and approval queue into the conversational mutation flow: one
// inbound action either executes synchronously or is deferred to a reviewer
// and replayed verbatim on approval.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adamugarba/thanledger/internal/application/inventory"
	"github.com/adamugarba/thanledger/internal/application/ledger"
	"github.com/adamugarba/thanledger/internal/application/stock"
	"github.com/adamugarba/thanledger/internal/domain"
	"github.com/adamugarba/thanledger/internal/domain/action"
	"github.com/adamugarba/thanledger/internal/domain/entity"
	"github.com/adamugarba/thanledger/internal/domain/repository"
	"github.com/adamugarba/thanledger/internal/domain/risk"
	"github.com/adamugarba/thanledger/pkg/logger"
)

// Actor identifies who submitted or resolved an action.
type Actor struct {
	ID   string
	Name string
	Role string
}

// Result statuses.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusRejected  = "rejected"
	StatusDuplicate = "duplicate"
)

// Result is the outcome of a submission or a resolution.
type Result struct {
	Status    string
	RequestID string
	Message   string
	// Warnings carry post-commit effect failures: the inventory mutation
	// stood, but a ledger or movement post did not.
	Warnings []string
	// Items reports per-package outcomes for batch actions; batches are
	// best-effort and never rolled back as a whole.
	Items []ItemResult
}

// ItemResult is one package outcome inside a batch.
type ItemResult struct {
	PackageNo string
	Err       string
}

// Orchestrator is the workflow entry point.
type Orchestrator struct {
	store     *inventory.Store
	approvals repository.ApprovalRepository
	customers repository.CustomerRepository
	posting   *ledger.PostingService
	stockLog  *stock.Log
	notifier  Notifier
	riskCfg   risk.Config
	locks     *KeyedMutex
	dupes     *DuplicateGuard
	log       *logger.Logger
}

// NewOrchestrator wires the workflow.
func NewOrchestrator(
	store *inventory.Store,
	approvals repository.ApprovalRepository,
	customers repository.CustomerRepository,
	posting *ledger.PostingService,
	stockLog *stock.Log,
	notifier Notifier,
	riskCfg risk.Config,
	dupes *DuplicateGuard,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		approvals: approvals,
		customers: customers,
		posting:   posting,
		stockLog:  stockLog,
		notifier:  notifier,
		riskCfg:   riskCfg,
		locks:     NewKeyedMutex(),
		dupes:     dupes,
		log:       log,
	}
}

// Submit classifies the action and either executes it synchronously or
// enqueues it for approval, returning a pending receipt with the request id.
func (o *Orchestrator) Submit(ctx context.Context, a action.Action, actor Actor) (*Result, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	fp := Fingerprint(actor.ID, a)
	if o.dupes.Seen(fp) {
		return &Result{
			Status:  StatusDuplicate,
			Message: "this action was just submitted; ignoring the duplicate",
		}, nil
	}

	verdict := risk.Evaluate(o.riskCfg, a, actor.Role, o.estimateValue(a))
	if !verdict.RequiresApproval {
		res, err := o.execute(ctx, a, actor)
		if err != nil {
			// Failed actions are not remembered: the operator may fix the
			// command and resubmit it verbatim within the window.
			return nil, o.maskUpstream(err, a.Kind)
		}
		o.dupes.Remember(fp)
		return res, nil
	}

	req := &entity.ApprovalRequest{
		ID:            uuid.New().String(),
		RequestedBy:   actor.ID,
		RequesterName: actor.Name,
		Action:        a,
		RiskReason:    verdict.Reason,
		Status:        entity.ApprovalStatusPending,
		CreatedAt:     time.Now(),
	}
	if err := o.approvals.Create(req); err != nil {
		return nil, o.maskUpstream(fmt.Errorf("enqueue approval: %w", err), a.Kind)
	}
	o.dupes.Remember(fp)
	o.log.Info().
		Str("request_id", req.ID).
		Str("actor", actor.Name).
		Str("kind", string(a.Kind)).
		Str("reason", verdict.Reason).
		Msg("action deferred for approval")

	if err := o.notifier.NotifyReviewers(ctx, req); err != nil {
		// The request is durable; reviewers can still find it in the
		// pending list even when the prompt did not go out.
		o.log.Error().Err(err).Str("request_id", req.ID).Msg("reviewer notification failed")
	}
	return &Result{
		Status:    StatusPending,
		RequestID: req.ID,
		Message:   fmt.Sprintf("approval required: %s", verdict.Reason),
	}, nil
}

// ExecuteApproved resolves a pending request as approved and replays the
// originally captured action payload. Resolution happens before execution:
// the pending -> approved flip is the single-winner step, so a second call
// with the same id is a no-op reporting not found and the mutation applies
// exactly once.
func (o *Orchestrator) ExecuteApproved(ctx context.Context, requestID string, approver Actor) (*Result, error) {
	if approver.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may approve requests", domain.ErrPermission)
	}
	req, err := o.approvals.Get(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: approval request %s", domain.ErrNotFound, requestID)
	}
	if err := o.approvals.Resolve(requestID, entity.ApprovalStatusApproved, approver.ID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: request %s is already resolved", domain.ErrNotFound, requestID)
		}
		return nil, err
	}

	requester := Actor{ID: req.RequestedBy, Name: req.RequesterName, Role: entity.RoleOperator}
	res, err := o.execute(ctx, req.Action, requester)
	if err != nil {
		// The request stays approved: the reviewer's decision held, the
		// replay hit a precondition (inventory drifted since enqueue).
		err = o.maskUpstream(err, req.Action.Kind)
		o.notifyRequester(ctx, req.RequestedBy, fmt.Sprintf("your approved request failed: %v", err))
		return nil, fmt.Errorf("replay of request %s: %w", requestID, err)
	}
	o.log.Info().
		Str("request_id", requestID).
		Str("approver", approver.Name).
		Str("kind", string(req.Action.Kind)).
		Msg("approved action replayed")
	o.notifyRequester(ctx, req.RequestedBy, fmt.Sprintf("approved and executed: %s", req.Action.Describe()))
	return res, nil
}

// RejectApproval marks the request rejected with zero inventory or ledger
// side effects.
func (o *Orchestrator) RejectApproval(ctx context.Context, requestID string, approver Actor) (*Result, error) {
	if approver.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may reject requests", domain.ErrPermission)
	}
	req, err := o.approvals.Get(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: approval request %s", domain.ErrNotFound, requestID)
	}
	if err := o.approvals.Resolve(requestID, entity.ApprovalStatusRejected, approver.ID, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: request %s is already resolved", domain.ErrNotFound, requestID)
		}
		return nil, err
	}
	o.notifyRequester(ctx, req.RequestedBy, fmt.Sprintf("rejected by %s: %s", approver.Name, req.Action.Describe()))
	return &Result{
		Status:    StatusRejected,
		RequestID: requestID,
		Message:   fmt.Sprintf("request %s rejected", requestID),
	}, nil
}

// ListPending returns the open approval requests.
func (o *Orchestrator) ListPending() ([]*entity.ApprovalRequest, error) {
	return o.approvals.ListPending()
}

// maskUpstream logs and masks infrastructure failures behind ErrUpstream so
// that raw store or driver errors never reach an operator. Domain errors pass
// through for a corrective prompt.
func (o *Orchestrator) maskUpstream(err error, kind action.Kind) error {
	if domain.IsDomain(err) {
		return err
	}
	o.log.Error().Err(err).Str("kind", string(kind)).Msg("action failed on upstream")
	return domain.ErrUpstream
}

func (o *Orchestrator) notifyRequester(ctx context.Context, recipientID, message string) {
	if err := o.notifier.NotifyRequester(ctx, recipientID, message); err != nil {
		o.log.Error().Err(err).Str("recipient", recipientID).Msg("requester notification failed")
	}
}

// estimateValue computes the monetary size of an action for threshold
// classification. Estimation is best effort; unknown reads as zero.
func (o *Orchestrator) estimateValue(a action.Action) decimal.Decimal {
	switch a.Kind {
	case action.KindSellThan:
		t, err := o.store.FindThan(a.Sell.PackageNo, a.Sell.ThanNo)
		if err != nil {
			return decimal.Zero
		}
		return t.Value()
	case action.KindSellPackage:
		return o.availableValue(a.Sell.PackageNo)
	case action.KindSellBatch:
		total := decimal.Zero
		for _, pkg := range a.Sell.Packages {
			total = total.Add(o.availableValue(pkg))
		}
		return total
	case action.KindRecordPayment:
		return a.Payment.Amount
	}
	return decimal.Zero
}

func (o *Orchestrator) availableValue(packageNo string) decimal.Decimal {
	thans, err := o.store.FindAvailable(entity.ThanFilter{PackageNo: packageNo})
	if err != nil {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, t := range thans {
		total = total.Add(t.Value())
	}
	return total
}
