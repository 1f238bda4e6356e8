package service

import (
	"context"

	"shg-backend/internal/chain"
)

type ledgerService struct {
	ledger chain.Ledger
}

func NewLedgerService(ledger chain.Ledger) LedgerService {
	return &ledgerService{ledger: ledger}
}

func (s *ledgerService) ListRepayments(ctx context.Context) ([]chain.Repayment, error) {
	return s.ledger.ListRepayments(ctx)
}
