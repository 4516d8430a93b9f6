package handler

import (
	"context"
	"strconv"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
	"github.com/grinventions/slateboy/pkg/apperror"
	"github.com/grinventions/slateboy/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReportingService aggregates the bank statistics.
type ReportingService interface {
	Stats(ctx context.Context) (*domain.BankStats, error)
}

// Sweeper runs a reconciliation pass on demand.
type Sweeper interface {
	SweepTransactions(ctx context.Context) error
	SweepAccounting(ctx context.Context) error
}

// OpsHandler serves the operator inspection and maintenance routes.
type OpsHandler struct {
	ledger    ports.LedgerRepository
	registry  ports.RegistryRepository
	reporting ReportingService
	sweeper   Sweeper
}

// NewOpsHandler creates an OpsHandler.
func NewOpsHandler(ledger ports.LedgerRepository, registry ports.RegistryRepository, reporting ReportingService, sweeper Sweeper) *OpsHandler {
	return &OpsHandler{
		ledger:    ledger,
		registry:  registry,
		reporting: reporting,
		sweeper:   sweeper,
	}
}

// GetUserBalance handles GET /api/v1/users/:id/balance.
func (h *OpsHandler) GetUserBalance(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, apperror.ErrInvalidUserID(c.Param("id")))
		return
	}

	account, err := h.ledger.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if account == nil {
		response.Error(c, apperror.ErrLedgerNotInitialized(userID))
		return
	}
	response.OK(c, account)
}

// GetStats handles GET /api/v1/bank/stats.
func (h *OpsHandler) GetStats(c *gin.Context) {
	stats, err := h.reporting.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListOpenTransactions handles GET /api/v1/transactions.
func (h *OpsHandler) ListOpenTransactions(c *gin.Context) {
	open, err := h.registry.ListOpen(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"transactions": open, "count": len(open)})
}

// TriggerTransactionSweep handles POST /api/v1/sweeps/transactions.
func (h *OpsHandler) TriggerTransactionSweep(c *gin.Context) {
	if err := h.sweeper.SweepTransactions(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"sweep": "transactions"})
}

// TriggerAccountingSweep handles POST /api/v1/sweeps/accounting.
func (h *OpsHandler) TriggerAccountingSweep(c *gin.Context) {
	if err := h.sweeper.SweepAccounting(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, gin.H{"sweep": "accounting"})
}
