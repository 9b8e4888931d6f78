package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fraud-review-system/internal/generator"
	"fraud-review-system/internal/lifecycle"
	"fraud-review-system/internal/logger"
	"fraud-review-system/internal/models"
	"fraud-review-system/internal/redis"
	"fraud-review-system/internal/services"
)

type Handlers struct {
	transactionService services.TransactionService
	engine             *lifecycle.Engine     // nil on the intake service
	cache              redis.ClientInterface // nil when Redis is unavailable
	generator          *generator.TransactionGenerator
}

// NewHandlers creates the REST handlers. engine may be nil for the intake
// service, which has no analyst endpoints; cache may be nil, in which case
// /stats carries only the event-log counters.
func NewHandlers(transactionService services.TransactionService, engine *lifecycle.Engine, cache redis.ClientInterface) *Handlers {
	return &Handlers{
		transactionService: transactionService,
		engine:             engine,
		cache:              cache,
		generator:          generator.NewTransactionGenerator(),
	}
}

// HandleTransaction accepts a transaction for review.
// @Summary Submit a transaction for risk review
// @Description Persists the transaction as pending and publishes it to Kafka for asynchronous scoring by the review service.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body models.IngestRequest true "Transaction payload"
// @Success 201 {object} models.IngestResponse "Transaction accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /transactions [post]
func (h *Handlers) HandleTransaction(c *gin.Context) {
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logger.LogEvent(logger.EventTransactionReceived, "ingestion-service", "api", map[string]interface{}{
		"transaction_id": req.TransactionID,
		"amount":         req.Amount,
		"merchant":       req.Merchant,
	})

	response, err := h.transactionService.ProcessTransaction(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction"})
		return
	}

	logger.LogEvent(logger.EventTransactionSaved, "ingestion-service", "sqlite", map[string]interface{}{
		"transaction_id": response.TransactionID,
		"status":         response.Status,
	})

	c.JSON(http.StatusCreated, response)
}

// GetTransaction returns a transaction by id.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param transaction_id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} map[string]string "Not Found"
// @Router /transactions/{transaction_id} [get]
func (h *Handlers) GetTransaction(c *gin.Context) {
	transactionID := c.Param("transaction_id")

	tx, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get transaction"})
		return
	}
	if tx == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, tx)
}

// GetAllTransactions lists recent transactions.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.Transaction
// @Router /transactions [get]
func (h *Handlers) GetAllTransactions(c *gin.Context) {
	limit := parseLimit(c, 50)

	transactions, err := h.transactionService.ListTransactions(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

// GetAlerts lists recent flagged transactions awaiting review.
// @Summary List flagged transactions
// @Tags transactions
// @Produce json
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.Transaction
// @Router /alerts [get]
func (h *Handlers) GetAlerts(c *gin.Context) {
	limit := parseLimit(c, 50)

	alerts, err := h.transactionService.ListAlerts(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list alerts"})
		return
	}

	if alerts == nil {
		alerts = []*models.Transaction{}
	}
	c.JSON(http.StatusOK, alerts)
}

// HandleAnalystAction applies an approve/block/escalate decision.
// @Summary Apply an analyst action
// @Description Applies an analyst decision to a flagged or escalated transaction. The comment (or "analyst:<action>") is appended to the reason-code audit trail. A conflicting concurrent action yields 409.
// @Tags actions
// @Accept json
// @Produce json
// @Param action body models.AnalystActionRequest true "Action payload"
// @Success 200 {object} map[string]interface{} "Updated transaction"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Invalid Transition"
// @Router /actions [post]
func (h *Handlers) HandleAnalystAction(c *gin.Context) {
	if h.engine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analyst actions are not available on this service"})
		return
	}

	var req models.AnalystActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.engine.ApplyAnalystAction(req.TransactionID, req.Action, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply action"})
		}
		return
	}

	logger.LogEvent(logger.EventAnalystAction, "risk-review-service", "api", map[string]interface{}{
		"transaction_id": req.TransactionID,
		"action":         req.Action,
		"status":         updated.Status,
	})

	c.JSON(http.StatusOK, gin.H{"ok": true, "transaction": updated})
}

// ClearAllTransactions wipes all transactions and cached analysis.
// @Summary Clear all transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /transactions [delete]
func (h *Handlers) ClearAllTransactions(c *gin.Context) {
	if err := h.transactionService.ClearAllTransactions(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear transactions"})
		return
	}

	logger.LogEvent(logger.EventDBUpdated, "ingestion-service", "sqlite", map[string]interface{}{
		"action": "database_cleared",
	})

	c.JSON(http.StatusOK, gin.H{"message": "All transactions cleared successfully"})
}

// GenerateRandomTransaction submits a synthetic transaction.
// @Summary Generate a demo transaction
// @Tags transactions
// @Produce json
// @Param risk query string false "Risk band: low or high (default low)"
// @Success 201 {object} models.IngestResponse
// @Router /transactions/generate [get]
func (h *Handlers) GenerateRandomTransaction(c *gin.Context) {
	riskLevel := c.DefaultQuery("risk", "low")

	tx := h.generator.GenerateTransaction(riskLevel)
	response, err := h.transactionService.ProcessTransaction(&models.IngestRequest{Transaction: *tx})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process generated transaction"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

func parseLimit(c *gin.Context, defaultLimit int) int {
	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	return limit
}
