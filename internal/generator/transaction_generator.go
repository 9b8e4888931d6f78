package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"fraud-review-system/internal/models"
)

type TransactionGenerator struct {
	rand *rand.Rand
}

func NewTransactionGenerator() *TransactionGenerator {
	return &TransactionGenerator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateTransaction produces a random transaction shaped to land in the
// requested risk band under the default threshold policy.
func (g *TransactionGenerator) GenerateTransaction(riskLevel string) *models.Transaction {
	baseID := time.Now().UnixNano() + g.rand.Int63n(1000000000)

	tx := &models.Transaction{
		TransactionID: fmt.Sprintf("TXN-AUTO-%d", baseID),
		AccountID:     fmt.Sprintf("ACC%03d", g.rand.Intn(500)),
		UserID:        fmt.Sprintf("user%d", g.rand.Intn(100000)),
		Status:        models.StatusPending,
		Timestamp:     time.Now().UTC().Add(time.Duration(g.rand.Intn(1000)) * time.Millisecond),
	}

	switch riskLevel {
	case "high":
		g.generateHighRisk(tx)
	default:
		g.generateLowRisk(tx)
	}

	return tx
}

// generateLowRisk: amount under the default high-amount threshold, familiar
// merchant pool so repeated entities build a consistent window.
func (g *TransactionGenerator) generateLowRisk(tx *models.Transaction) {
	tx.Amount = g.roundToTwoDecimals(5.0 + g.rand.Float64()*900.0)
	tx.Merchant = g.getRandomMerchant()
}

// generateHighRisk: amount above the default threshold and an unfamiliar
// merchant, so the amount and geo checks both fire.
func (g *TransactionGenerator) generateHighRisk(tx *models.Transaction) {
	tx.Amount = g.roundToTwoDecimals(1500.0 + g.rand.Float64()*8500.0)
	tx.Merchant = g.getRandomUnknownMerchant()
}

func (g *TransactionGenerator) getRandomMerchant() string {
	merchants := []string{
		"Corner Grocery", "City Transit", "Daily Coffee", "Book Nook",
		"Green Market", "Pharma Plus", "Stream Media", "Gas & Go",
	}
	return merchants[g.rand.Intn(len(merchants))]
}

func (g *TransactionGenerator) getRandomUnknownMerchant() string {
	merchants := []string{
		"Unknown Vendor", "Offshore Imports Ltd", "QuickCash Exchange",
		"Luxury Resale Co", "NightMarket 24",
	}
	return merchants[g.rand.Intn(len(merchants))]
}

func (g *TransactionGenerator) roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
