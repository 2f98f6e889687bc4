package model

import "time"

// WithdrawalStatus is the disposition of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	// WithdrawalRejected is reserved; no operation transitions to it yet and
	// refund semantics for a rejection are intentionally undefined.
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}

// WithdrawalRequest snapshots a user's balance at request time. Amount never
// changes after creation; only Status moves, and only out of PENDING.
type WithdrawalRequest struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Amount    Money            `json:"amount"`
	Status    WithdrawalStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
