package pipeline

import (
	"fmt"
	"log"
	"time"

	"fraud-review-system/internal/features"
	"fraud-review-system/internal/history"
	"fraud-review-system/internal/lifecycle"
	"fraud-review-system/internal/logger"
	"fraud-review-system/internal/models"
	"fraud-review-system/internal/redis"
	"fraud-review-system/internal/scoring"
	"fraud-review-system/internal/storage"
)

const serviceName = "risk-review-service"

// Processor composes the per-event pipeline: validate, read window, extract
// features, score, apply the lifecycle transition, then append to history.
// One Processor is shared across partitions; per-entity ordering comes from
// Kafka partitioning plus the history store's per-key serialization.
type Processor struct {
	repo      storage.TransactionRepository
	history   *history.Store
	extractor *features.Extractor
	scorer    *scoring.Scorer
	engine    *lifecycle.Engine
	cache     redis.ClientInterface // optional
	now       func() time.Time
}

func NewProcessor(
	repo storage.TransactionRepository,
	historyStore *history.Store,
	extractor *features.Extractor,
	scorer *scoring.Scorer,
	engine *lifecycle.Engine,
	cache redis.ClientInterface,
) *Processor {
	return &Processor{
		repo:      repo,
		history:   historyStore,
		extractor: extractor,
		scorer:    scorer,
		engine:    engine,
		cache:     cache,
		now:       time.Now,
	}
}

// Handle processes one inbound transaction event. A nil return means the
// offset may be committed. ErrMalformedTransaction means drop (dead-letter);
// any other error means the event must be redelivered, which is safe because
// the scoring transition is idempotent via its pending-status precondition.
func (p *Processor) Handle(event *models.TransactionEvent) error {
	tx, err := transactionFromEvent(event)
	if err != nil {
		logger.LogEvent(logger.EventMalformedDropped, serviceName, "pipeline", map[string]interface{}{
			"event_id": event.EventID,
			"error":    err.Error(),
		})
		return err
	}

	logger.LogEvent(logger.EventKafkaReceived, serviceName, "kafka", map[string]interface{}{
		"event_id":       event.EventID,
		"transaction_id": tx.TransactionID,
	})

	// Idempotent: inserting an already-known id is a no-op.
	if err := p.repo.SaveTransaction(tx); err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", tx.TransactionID, err)
	}

	entityKey := tx.EntityKey()
	window := p.history.Window(entityKey)

	fv := p.extractor.Extract(tx, window, p.now())

	logger.LogEvent(logger.EventFeaturesExtracted, serviceName, "pipeline", map[string]interface{}{
		"transaction_id":  tx.TransactionID,
		"entity_key":      entityKey,
		"window_size":     len(window),
		"rolling_average": fv.RollingAverageAmount,
		"velocity_count":  fv.VelocityCount,
		"geo_consistency": fv.GeoConsistency,
	})

	result := p.scorer.Evaluate(fv, p.now())

	logger.LogEvent(logger.EventTransactionScored, serviceName, "pipeline", map[string]interface{}{
		"transaction_id": tx.TransactionID,
		"risk_score":     result.RiskScore,
		"reason_codes":   result.ReasonCodes,
		"status":         result.Status,
	})

	applied, err := p.engine.ApplyScoringResult(tx.TransactionID, result)
	if err != nil {
		return fmt.Errorf("failed to apply scoring result for %s: %w", tx.TransactionID, err)
	}

	if applied {
		// The window records the transaction only after its own extraction
		// completed and the transition won; a replayed event neither
		// transitions nor double-counts history.
		p.history.Append(entityKey, tx.Summary())

		logger.LogEvent(logger.EventStatusChanged, serviceName, "sqlite", map[string]interface{}{
			"transaction_id": tx.TransactionID,
			"status":         result.Status,
			"risk_score":     result.RiskScore,
		})

		p.cacheResult(tx.TransactionID, result)
	}

	log.Printf("Transaction %s processed: score=%.2f status=%s applied=%t",
		tx.TransactionID, result.RiskScore, result.Status, applied)

	return nil
}

func (p *Processor) cacheResult(transactionID string, result *models.ScoringResult) {
	if p.cache == nil {
		return
	}

	if err := p.cache.SaveScoringResult(transactionID, result); err != nil {
		log.Printf("Error caching scoring result for %s: %v", transactionID, err)
	} else {
		logger.LogEvent(logger.EventRedisSaved, serviceName, "redis", map[string]interface{}{
			"transaction_id": transactionID,
			"risk_score":     result.RiskScore,
		})
	}

	if err := p.cache.IncrementStatusStats(result.Status); err != nil {
		log.Printf("Error updating status stats: %v", err)
	}
}

// transactionFromEvent builds and validates the transaction carried by an
// event. Validation happens before any store mutation, so malformed input
// leaves no partial side effects.
func transactionFromEvent(event *models.TransactionEvent) (*models.Transaction, error) {
	tx := &models.Transaction{
		TransactionID: event.Data.TransactionID,
		AccountID:     event.Data.AccountID,
		UserID:        event.Data.UserID,
		Amount:        event.Data.Amount,
		Merchant:      event.Data.Merchant,
		Status:        models.StatusPending,
		ReasonCodes:   event.Data.ReasonCodes,
	}

	if event.Data.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, event.Data.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: unparseable timestamp %q", features.ErrMalformedTransaction, event.Data.Timestamp)
		}
		tx.Timestamp = ts
	}

	if err := features.Validate(tx); err != nil {
		return nil, err
	}

	return tx, nil
}
