package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MinWithdrawal is the balance threshold below which a withdrawal request is
// refused: 10 currency units.
const MinWithdrawal = model.Money(1000)

// WithdrawalService runs the withdrawal state machine: a request snapshots
// and zeroes the user's balance, then waits for administrator disposition.
type WithdrawalService struct {
	users       storage.UserStore
	withdrawals storage.WithdrawalStore
}

// NewWithdrawalService constructs a WithdrawalService.
func NewWithdrawalService(users storage.UserStore, withdrawals storage.WithdrawalStore) *WithdrawalService {
	return &WithdrawalService{
		users:       users,
		withdrawals: withdrawals,
	}
}

// RequestWithdrawal claims the user's entire balance into a new PENDING
// request. The claim is a single atomic store operation, so the recorded
// amount is exactly what was zeroed and no concurrent request or visit
// credit can double-spend the same snapshot.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID string) (*model.WithdrawalRequest, error) {
	amount, err := s.users.ClaimBalance(ctx, userID, MinWithdrawal)
	if err != nil {
		return nil, err
	}

	w := &model.WithdrawalRequest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		Status:    model.WithdrawalPending,
		CreatedAt: time.Now(),
	}

	if err := s.withdrawals.CreateWithdrawal(ctx, w); err != nil {
		// Put the claimed amount back so the user does not lose it to a
		// store failure. If the compensation also fails, the journal of
		// errors is all that's left to recover from.
		if creditErr := s.users.CreditBalance(ctx, userID, amount); creditErr != nil {
			log.Error().
				Err(creditErr).
				Str("userID", userID).
				Int64("amountCents", int64(amount)).
				Msg("Failed to restore balance after withdrawal create failure")
		}
		return nil, fmt.Errorf("error creating withdrawal request: %w", err)
	}

	return w, nil
}

// Approve transitions a PENDING request to APPROVED. Approving an already
// APPROVED request is an idempotent no-op returning the request unchanged;
// the amount never changes in either case.
func (s *WithdrawalService) Approve(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	return s.withdrawals.TransitionWithdrawal(ctx, id, model.WithdrawalPending, model.WithdrawalApproved)
}

// Pending lists all withdrawal requests awaiting disposition.
func (s *WithdrawalService) Pending(ctx context.Context) ([]model.WithdrawalRequest, error) {
	return s.withdrawals.GetWithdrawalsByStatus(ctx, model.WithdrawalPending)
}
