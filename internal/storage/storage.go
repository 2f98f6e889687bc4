package storage

import (
	"context"
	"errors"

	"github.com/MikhailRaia/link-rewards/internal/model"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrLinkNotFound        = errors.New("link not found")
	ErrCodeTaken           = errors.New("short code already taken")
	ErrWithdrawalNotFound  = errors.New("withdrawal request not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransition   = errors.New("withdrawal request is in a terminal state")
)

// UserStore persists user records. CreditBalance and ClaimBalance are the
// only balance mutators and must be atomic per record: concurrent credits,
// or a credit racing a claim, must not lose an update.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// CreditBalance atomically adds amount to the user's balance.
	CreditBalance(ctx context.Context, userID string, amount model.Money) error

	// ClaimBalance atomically zeroes the user's balance and returns the
	// amount that was zeroed. It fails with ErrInsufficientBalance, leaving
	// the balance untouched, when the balance is below min.
	ClaimBalance(ctx context.Context, userID string, min model.Money) (model.Money, error)
}

// LinkStore persists short links. Short codes are unique across the store.
type LinkStore interface {
	CreateLink(ctx context.Context, link *model.Link) error
	GetLink(ctx context.Context, shortCode string) (*model.Link, error)

	// IncrementClicks atomically adds n to the link's click counter.
	IncrementClicks(ctx context.Context, shortCode string, n int64) error

	GetUserLinks(ctx context.Context, userID string) ([]model.Link, error)
}

// WithdrawalStore persists withdrawal requests.
type WithdrawalStore interface {
	CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error
	GetWithdrawal(ctx context.Context, id string) (*model.WithdrawalRequest, error)

	// TransitionWithdrawal moves a request from one status to another. The
	// transition is applied only when the current status equals from; when
	// the current status already equals to, the request is returned as-is so
	// repeated transitions are idempotent. Any other current status fails
	// with ErrInvalidTransition.
	TransitionWithdrawal(ctx context.Context, id string, from, to model.WithdrawalStatus) (*model.WithdrawalRequest, error)

	GetWithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error)
}

// Storage is the full persistence surface the application wires up.
type Storage interface {
	UserStore
	LinkStore
	WithdrawalStore
}
