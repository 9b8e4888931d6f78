package pipeline

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fraud-review-system/internal/config"
	"fraud-review-system/internal/features"
	"fraud-review-system/internal/history"
	"fraud-review-system/internal/lifecycle"
	"fraud-review-system/internal/models"
	redismocks "fraud-review-system/internal/redis/mocks"
	"fraud-review-system/internal/scoring"
)

type fakeRepo struct {
	mu     sync.Mutex
	txs    map[string]*models.Transaction
	scored map[string]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		txs:    make(map[string]*models.Transaction),
		scored: make(map[string]bool),
	}
}

func (r *fakeRepo) SaveTransaction(tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.txs[tx.TransactionID]; exists {
		return nil
	}
	clone := *tx
	clone.Status = models.StatusPending
	clone.ReasonCodes = append([]string(nil), tx.ReasonCodes...)
	r.txs[tx.TransactionID] = &clone
	return nil
}

func (r *fakeRepo) GetTransaction(transactionID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[transactionID]
	if !ok {
		return nil, nil
	}
	clone := *tx
	clone.ReasonCodes = append([]string(nil), tx.ReasonCodes...)
	return &clone, nil
}

func (r *fakeRepo) CompareAndSwapStatus(transactionID string, expected, next models.Status, riskScore *float64, appendCodes []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[transactionID]
	if !ok || tx.Status != expected {
		return false, nil
	}
	tx.Status = next
	if riskScore != nil {
		tx.RiskScore = *riskScore
	}
	tx.ReasonCodes = append(tx.ReasonCodes, appendCodes...)
	return true, nil
}

func (r *fakeRepo) ApplyScoring(transactionID string, next models.Status, riskScore float64, appendCodes []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[transactionID]
	if !ok || tx.Status != models.StatusPending || r.scored[transactionID] {
		return false, nil
	}
	tx.Status = next
	tx.RiskScore = riskScore
	tx.ReasonCodes = append(tx.ReasonCodes, appendCodes...)
	r.scored[transactionID] = true
	return true, nil
}

func (r *fakeRepo) ListTransactions(limit int) ([]*models.Transaction, error) {
	return nil, nil
}

func (r *fakeRepo) ListByStatus(status models.Status, limit int) ([]*models.Transaction, error) {
	return nil, nil
}

func (r *fakeRepo) ClearAllTransactions() error {
	return nil
}

func testPolicy() config.RiskConfig {
	return config.RiskConfig{
		HighAmountThreshold: 1000,
		AmountWeight:        0.75,
		VelocityThreshold:   5,
		VelocityWeight:      0.35,
		GeoMismatchPenalty:  0.30,
		FlagThreshold:       0.7,
	}
}

func newTestProcessor(repo *fakeRepo, cache *redismocks.MockClientInterface) (*Processor, *history.Store) {
	return newTestProcessorWithPolicy(repo, cache, testPolicy())
}

func newTestProcessorWithPolicy(repo *fakeRepo, cache *redismocks.MockClientInterface, policy config.RiskConfig) (*Processor, *history.Store) {
	historyCfg := config.HistoryConfig{
		MaxEntries:       50,
		VelocityInterval: 5 * time.Minute,
	}

	store := history.NewStore(historyCfg)
	engine := lifecycle.NewEngine(repo)

	p := NewProcessor(
		repo,
		store,
		features.NewExtractor(historyCfg),
		scoring.NewScorer(policy),
		engine,
		nil,
	)
	if cache != nil {
		p.cache = cache
	}
	return p, store
}

func testEvent(txID, accountID string, amount float64, merchant string, ts time.Time) *models.TransactionEvent {
	return &models.TransactionEvent{
		EventID:   "evt_" + txID,
		EventType: "transaction_created",
		Timestamp: ts,
		Data: models.TransactionData{
			TransactionID: txID,
			AccountID:     accountID,
			Amount:        amount,
			Merchant:      merchant,
			Timestamp:     ts.Format(time.RFC3339),
		},
	}
}

func TestHandle_HighAmountFlagged(t *testing.T) {
	repo := newFakeRepo()
	processor, store := newTestProcessor(repo, nil)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := processor.Handle(testEvent("TXN001", "ACC125", 2500, "Unknown Vendor", ts))
	require.NoError(t, err)

	saved, err := repo.GetTransaction("TXN001")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.StatusFlagged, saved.Status)
	assert.Equal(t, 0.75, saved.RiskScore)
	assert.Equal(t, []string{"high_amount"}, saved.ReasonCodes)

	// The transaction entered its own entity window after processing.
	assert.Equal(t, 1, store.Len("ACC125"))
}

func TestHandle_CleanTransactionCompleted(t *testing.T) {
	repo := newFakeRepo()
	processor, _ := newTestProcessor(repo, nil)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := processor.Handle(testEvent("TXN002", "ACC001", 50, "Corner Grocery", ts))
	require.NoError(t, err)

	saved, _ := repo.GetTransaction("TXN002")
	assert.Equal(t, models.StatusCompleted, saved.Status)
	assert.Equal(t, 0.0, saved.RiskScore)
	assert.Empty(t, saved.ReasonCodes)
}

func TestHandle_ReplayIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	processor, store := newTestProcessor(repo, nil)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("TXN003", "ACC125", 2500, "Unknown Vendor", ts)

	require.NoError(t, processor.Handle(event))
	require.NoError(t, processor.Handle(event))

	saved, _ := repo.GetTransaction("TXN003")
	assert.Equal(t, models.StatusFlagged, saved.Status)
	// Codes appended once, not once per delivery.
	assert.Equal(t, []string{"high_amount"}, saved.ReasonCodes)
	// History counted the transaction once.
	assert.Equal(t, 1, store.Len("ACC125"))
}

func TestHandle_ReviewAllReplayIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	policy := testPolicy()
	policy.ReviewAll = true
	processor, store := newTestProcessorWithPolicy(repo, nil, policy)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("TXN-HITL", "ACC300", 50, "Corner Grocery", ts)

	require.NoError(t, processor.Handle(event))
	// Redelivery: the record is still pending, but the scoring pass must
	// not run again.
	require.NoError(t, processor.Handle(event))

	saved, _ := repo.GetTransaction("TXN-HITL")
	assert.Equal(t, models.StatusPending, saved.Status)
	assert.Empty(t, saved.ReasonCodes)
	// The window counted the transaction once.
	assert.Equal(t, 1, store.Len("ACC300"))
}

func TestHandle_MalformedLeavesNoSideEffects(t *testing.T) {
	repo := newFakeRepo()
	processor, store := newTestProcessor(repo, nil)

	event := &models.TransactionEvent{
		EventID:   "evt_bad",
		EventType: "transaction_created",
		Data: models.TransactionData{
			TransactionID: "TXN-BAD",
			AccountID:     "ACC125",
			Amount:        100,
			Merchant:      "Corner Grocery",
			Timestamp:     "not-a-timestamp",
		},
	}

	err := processor.Handle(event)
	require.Error(t, err)
	assert.ErrorIs(t, err, features.ErrMalformedTransaction)

	saved, _ := repo.GetTransaction("TXN-BAD")
	assert.Nil(t, saved)
	assert.Equal(t, 0, store.Len("ACC125"))
}

func TestHandle_NegativeAmountMalformed(t *testing.T) {
	repo := newFakeRepo()
	processor, _ := newTestProcessor(repo, nil)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := processor.Handle(testEvent("TXN-NEG", "ACC125", -50, "Corner Grocery", ts))
	assert.ErrorIs(t, err, features.ErrMalformedTransaction)
}

func TestHandle_VelocityBuildsAcrossEvents(t *testing.T) {
	repo := newFakeRepo()
	processor, _ := newTestProcessor(repo, nil)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		event := testEvent(
			fmt.Sprintf("TXN-V%d", i), "ACC777", 50, "Corner Grocery",
			base.Add(time.Duration(i)*10*time.Second),
		)
		require.NoError(t, processor.Handle(event))
	}

	// Seventh rapid transaction sees six earlier ones inside the interval.
	final := testEvent("TXN-V6", "ACC777", 50, "Corner Grocery", base.Add(time.Minute))
	require.NoError(t, processor.Handle(final))

	saved, _ := repo.GetTransaction("TXN-V6")
	assert.Contains(t, saved.ReasonCodes, scoring.ReasonVelocityCheck)
	assert.Equal(t, models.StatusCompleted, saved.Status)
}

func TestHandle_GeoMismatchAgainstHistory(t *testing.T) {
	repo := newFakeRepo()
	processor, _ := newTestProcessor(repo, nil)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, processor.Handle(testEvent("TXN-G0", "ACC888", 50, "Corner Grocery", base)))

	mismatch := testEvent("TXN-G1", "ACC888", 60, "Unknown Vendor", base.Add(time.Hour))
	require.NoError(t, processor.Handle(mismatch))

	saved, _ := repo.GetTransaction("TXN-G1")
	assert.Equal(t, []string{"geo_mismatch"}, saved.ReasonCodes)
	assert.Equal(t, 0.3, saved.RiskScore)
}

func TestHandle_CachesResultOnApply(t *testing.T) {
	repo := newFakeRepo()
	cache := new(redismocks.MockClientInterface)
	cache.On("SaveScoringResult", "TXN004", mock.AnythingOfType("*models.ScoringResult")).Return(nil)
	cache.On("IncrementStatusStats", models.StatusFlagged).Return(nil)

	processor, _ := newTestProcessor(repo, cache)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	event := testEvent("TXN004", "ACC125", 2500, "Unknown Vendor", ts)

	require.NoError(t, processor.Handle(event))
	// Replay does not re-cache.
	require.NoError(t, processor.Handle(event))

	cache.AssertNumberOfCalls(t, "SaveScoringResult", 1)
	cache.AssertExpectations(t)
}

func TestHandle_DistinctEntitiesIsolated(t *testing.T) {
	repo := newFakeRepo()
	processor, store := newTestProcessor(repo, nil)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, processor.Handle(testEvent("TXN-A", "ACC100", 50, "Corner Grocery", base)))
	require.NoError(t, processor.Handle(testEvent("TXN-B", "ACC200", 50, "Daily Coffee", base)))

	assert.Equal(t, 1, store.Len("ACC100"))
	assert.Equal(t, 1, store.Len("ACC200"))

	// ACC200's merchant history does not bleed into ACC100's geo check.
	next := testEvent("TXN-C", "ACC100", 60, "Corner Grocery", base.Add(time.Minute))
	require.NoError(t, processor.Handle(next))
	saved, _ := repo.GetTransaction("TXN-C")
	assert.Empty(t, saved.ReasonCodes)
}
