package models

import (
	"time"
)

// Status is the review lifecycle state of a transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFlagged   Status = "flagged"
	StatusApproved  Status = "approved"
	StatusBlocked   Status = "blocked"
	StatusEscalated Status = "escalated"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusBlocked, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Transaction is a payment event moving through the review lifecycle.
// ReasonCodes is an append-only audit trail; insertion order is significant
// and entries are never reordered or deduplicated.
type Transaction struct {
	TransactionID string    `json:"transaction_id" binding:"required"`
	AccountID     string    `json:"account_id"`
	UserID        string    `json:"user_id"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Merchant      string    `json:"merchant"`
	Timestamp     time.Time `json:"timestamp"`
	Status        Status    `json:"status"`
	RiskScore     float64   `json:"risk_score"`
	ReasonCodes   []string  `json:"reason_codes"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// EntityKey returns the key the transaction's history is tracked under:
// the account when present, otherwise the user. Empty means no entity.
func (t *Transaction) EntityKey() string {
	if t.AccountID != "" {
		return t.AccountID
	}
	return t.UserID
}

// EntitySummary is a window entry: the compact record of a past transaction
// kept as behavioral context for an entity.
type EntitySummary struct {
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Merchant  string    `json:"merchant"`
}

// Summary converts the transaction to its window entry form.
func (t *Transaction) Summary() EntitySummary {
	return EntitySummary{
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
		Merchant:  t.Merchant,
	}
}

// FeatureVector holds the behavioral features computed for a single
// transaction against its entity window. Ephemeral, never persisted.
type FeatureVector struct {
	Amount               float64 `json:"amount"`
	AgeMillis            int64   `json:"age_millis"`
	RollingAverageAmount float64 `json:"rolling_average_amount"`
	RollingStdAmount     float64 `json:"rolling_std_amount"`
	GeoConsistency       bool    `json:"geo_consistency"`
	VelocityCount        int     `json:"velocity_count"`
}

// ScoringResult is the scorer's verdict for one transaction.
type ScoringResult struct {
	RiskScore   float64   `json:"risk_score"`
	ReasonCodes []string  `json:"reason_codes"`
	Status      Status    `json:"status"`
	ScoredAt    time.Time `json:"scored_at"`
}

// AnalystAction is a review decision taken from the console.
type AnalystAction string

const (
	ActionApprove  AnalystAction = "approve"
	ActionBlock    AnalystAction = "block"
	ActionEscalate AnalystAction = "escalate"
)

// AnalystActionRequest is the payload of the analyst action endpoint.
type AnalystActionRequest struct {
	TransactionID string        `json:"transaction_id" binding:"required"`
	Action        AnalystAction `json:"action" binding:"required"`
	Comment       string        `json:"comment"`
}

// IngestRequest is the intake payload for a new transaction.
type IngestRequest struct {
	Transaction
}

// IngestResponse acknowledges an accepted transaction.
type IngestResponse struct {
	ProcessingID  string `json:"processing_id"`
	TransactionID string `json:"transaction_id"`
	Status        Status `json:"status"`
	Message       string `json:"message"`
}

// TransactionEvent is the Kafka envelope for an inbound transaction.
// Consumers tolerate and ignore unknown fields.
type TransactionEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      TransactionData `json:"data"`
}

// TransactionData carries the transaction fields inside a Kafka event.
// Timestamp stays a string on the wire; validation parses it and rejects
// the event as malformed when it does not parse.
type TransactionData struct {
	TransactionID string   `json:"transaction_id"`
	AccountID     string   `json:"account_id,omitempty"`
	UserID        string   `json:"user_id,omitempty"`
	Amount        float64  `json:"amount"`
	Merchant      string   `json:"merchant"`
	Timestamp     string   `json:"timestamp"`
	ReasonCodes   []string `json:"reason_codes,omitempty"`
}
