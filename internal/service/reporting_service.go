package service

import (
	"context"
	"fmt"

	"github.com/grinventions/slateboy/internal/core/domain"
	"github.com/grinventions/slateboy/internal/core/ports"
)

// ReportingService aggregates the operator-facing bank statistics.
type ReportingService struct {
	ledger   ports.LedgerRepository
	registry ports.RegistryRepository
	bank     ports.BankRepository
}

// NewReportingService creates a ReportingService.
func NewReportingService(ledger ports.LedgerRepository, registry ports.RegistryRepository, bank ports.BankRepository) *ReportingService {
	return &ReportingService{ledger: ledger, registry: registry, bank: bank}
}

// Stats returns the aggregate view: users held, open transactions and fees
// charged to date.
func (s *ReportingService) Stats(ctx context.Context) (*domain.BankStats, error) {
	users, err := s.ledger.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	open, err := s.registry.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("count open transactions: %w", err)
	}
	charged, err := s.bank.ChargedTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("charged total: %w", err)
	}
	return &domain.BankStats{
		ChargedTotal:     charged,
		OpenTransactions: open,
		Users:            users,
	}, nil
}
