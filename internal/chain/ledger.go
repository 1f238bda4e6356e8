package chain

import (
	"context"
	"time"
)

type PaymentKind string

const (
	PaymentKindEMI          PaymentKind = "EMI"
	PaymentKindContribution PaymentKind = "CONTRIBUTION"
)

// PaymentRequest describes one value transfer to record on the LoanLedger
// contract. Reference identifies the loan or round being paid.
type PaymentRequest struct {
	Kind      PaymentKind `json:"kind"`
	PayerUID  string      `json:"payer_uid"`
	Reference string      `json:"reference"`
	Amount    int64       `json:"amount"`
}

// Confirmation is the proof handle returned once the relayer has observed the
// transaction mined and not reverted. Local state is only mutated after a
// confirmation is in hand.
type Confirmation struct {
	TxHash      string    `json:"tx_hash"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Repayment is one entry of the contract's append-only repayment log.
type Repayment struct {
	Payer     string    `json:"payer"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
	TxHash    string    `json:"tx_hash"`
	Timestamp time.Time `json:"timestamp"`
}

// Ledger is the external chain ledger consumed by payment flows. The local
// store is a projection of confirmed payments; the chain log is the
// authority and is never mutated or deleted by this system.
type Ledger interface {
	// SubmitPayment records a payment event on chain and returns its
	// confirmation handle. Any signer rejection, network failure or revert
	// surfaces as an error wrapping domain.ErrLedgerConfirmation.
	SubmitPayment(ctx context.Context, req PaymentRequest) (*Confirmation, error)

	// ListRepayments reads the full repayment log for audit listings.
	ListRepayments(ctx context.Context) ([]Repayment, error)
}
