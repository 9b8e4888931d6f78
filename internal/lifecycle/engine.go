package lifecycle

import (
	"errors"
	"fmt"
	"log"

	"fraud-review-system/internal/models"
	"fraud-review-system/internal/storage"
)

var (
	// ErrNotFound is returned when the transaction id is unknown.
	ErrNotFound = errors.New("transaction not found")

	// ErrInvalidTransition is returned when the requested transition is not
	// reachable from the record's current status. The record is untouched.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Engine applies lifecycle transitions through the repository's
// compare-and-swap, so racing updates resolve to exactly one winner.
type Engine struct {
	repo storage.TransactionRepository
}

func NewEngine(repo storage.TransactionRepository) *Engine {
	return &Engine{repo: repo}
}

// ApplyScoringResult moves a pending transaction to the scorer's decided
// status, setting the risk score and appending the reason codes. Scoring is
// single-shot: the repository guard is pending AND not yet scored, so a
// replayed event is a no-op (applied=false, nil error) even under a
// human-in-the-loop policy whose decided status is pending itself.
func (e *Engine) ApplyScoringResult(transactionID string, result *models.ScoringResult) (bool, error) {
	if result.Status != models.StatusPending && !CanTransition(models.StatusPending, result.Status) {
		return false, fmt.Errorf("%w: pending -> %s", ErrInvalidTransition, result.Status)
	}

	applied, err := e.repo.ApplyScoring(transactionID, result.Status, result.RiskScore, result.ReasonCodes)
	if err != nil {
		return false, err
	}
	if applied {
		return true, nil
	}

	// Lost the precondition: either the id is unknown or the transaction
	// was already scored (replay). Only the former is an error.
	current, err := e.repo.GetTransaction(transactionID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, fmt.Errorf("%w: %s", ErrNotFound, transactionID)
	}

	log.Printf("Scoring for %s skipped: already scored, status %s", transactionID, current.Status)
	return false, nil
}

// ApplyAnalystAction applies an analyst decision. Legal only from flagged or
// escalated; escalate is legal only from flagged. The supplied comment (or
// "analyst:<action>" when empty) is appended to the audit trail. If two
// analysts race on the same record, exactly one wins and the other gets
// ErrInvalidTransition.
func (e *Engine) ApplyAnalystAction(transactionID string, action models.AnalystAction, comment string) (*models.Transaction, error) {
	target, ok := TargetStatus(action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	current, err := e.repo.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, transactionID)
	}

	if !isAnalystSource(current.Status) || !CanTransition(current.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, target)
	}

	reason := comment
	if reason == "" {
		reason = "analyst:" + string(action)
	}

	swapped, err := e.repo.CompareAndSwapStatus(
		transactionID, current.Status, target, nil, []string{reason},
	)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// A concurrent action won the race between our read and the swap.
		return nil, fmt.Errorf("%w: %s -> %s (concurrent update)", ErrInvalidTransition, current.Status, target)
	}

	updated, err := e.repo.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, transactionID)
	}
	return updated, nil
}
