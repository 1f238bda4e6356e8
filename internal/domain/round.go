package domain

import "time"

// MonthlyRound is a recurring fixed-amount savings collection event.
// Name and amount are immutable after creation.
type MonthlyRound struct {
	ID        int64  `json:"id"`
	GroupID   int64  `json:"group_id"`
	RoundName string `json:"round_name"`
	Amount    int64  `json:"amount"` // due per member
	CreatedOn string `json:"created_on"`
}

// Contribution records one member's payment into one round. At most one
// record exists per (round, member); presence means paid. Records are never
// mutated or deleted.
type Contribution struct {
	ID         int64     `json:"id"`
	RoundID    int64     `json:"round_id"`
	MemberID   int64     `json:"member_id"`
	AmountPaid int64     `json:"amount_paid"`
	TxHash     string    `json:"tx_hash"`
	PaidAt     time.Time `json:"paid_at"`
}
