package memory

import (
	"context"
	"sync"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
)

// Storage implements in-memory storage for testing and development. A single
// mutex serializes all mutations, which gives every read-modify-write the
// per-record atomicity the store contract requires.
type Storage struct {
	mutex       sync.RWMutex
	users       map[string]*model.User
	emailIndex  map[string]string
	links       map[string]*model.Link
	withdrawals map[string]*model.WithdrawalRequest
}

// NewStorage creates a new in-memory storage instance.
func NewStorage() *Storage {
	return &Storage{
		users:       make(map[string]*model.User),
		emailIndex:  make(map[string]string),
		links:       make(map[string]*model.Link),
		withdrawals: make(map[string]*model.WithdrawalRequest),
	}
}

// CreateUser stores a new user record.
func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, taken := s.emailIndex[user.Email]; taken {
		return storage.ErrEmailTaken
	}

	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	user, found := s.users[id]
	if !found {
		return nil, storage.ErrUserNotFound
	}

	u := *user
	return &u, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	id, found := s.emailIndex[email]
	if !found {
		return nil, storage.ErrUserNotFound
	}

	u := *s.users[id]
	return &u, nil
}

// CreditBalance atomically adds amount to the user's balance.
func (s *Storage) CreditBalance(ctx context.Context, userID string, amount model.Money) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, found := s.users[userID]
	if !found {
		return storage.ErrUserNotFound
	}

	user.Balance += amount
	return nil
}

// ClaimBalance atomically zeroes the user's balance when it is at least min
// and returns the zeroed amount.
func (s *Storage) ClaimBalance(ctx context.Context, userID string, min model.Money) (model.Money, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	user, found := s.users[userID]
	if !found {
		return 0, storage.ErrUserNotFound
	}

	if user.Balance < min {
		return 0, storage.ErrInsufficientBalance
	}

	amount := user.Balance
	user.Balance = 0
	return amount, nil
}

// CreateLink stores a new link, rejecting duplicate short codes.
func (s *Storage) CreateLink(ctx context.Context, link *model.Link) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, taken := s.links[link.ShortCode]; taken {
		return storage.ErrCodeTaken
	}

	l := *link
	s.links[l.ShortCode] = &l
	return nil
}

// GetLink retrieves a link by short code.
func (s *Storage) GetLink(ctx context.Context, shortCode string) (*model.Link, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	link, found := s.links[shortCode]
	if !found {
		return nil, storage.ErrLinkNotFound
	}

	l := *link
	return &l, nil
}

// IncrementClicks atomically adds n to the link's click counter.
func (s *Storage) IncrementClicks(ctx context.Context, shortCode string, n int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	link, found := s.links[shortCode]
	if !found {
		return storage.ErrLinkNotFound
	}

	link.Clicks += n
	return nil
}

// GetUserLinks retrieves all links owned by a user.
func (s *Storage) GetUserLinks(ctx context.Context, userID string) ([]model.Link, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []model.Link
	for _, link := range s.links {
		if link.OwnerID == userID {
			result = append(result, *link)
		}
	}

	return result, nil
}

// CreateWithdrawal stores a new withdrawal request.
func (s *Storage) CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	req := *w
	s.withdrawals[req.ID] = &req
	return nil
}

// GetWithdrawal retrieves a withdrawal request by ID.
func (s *Storage) GetWithdrawal(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	w, found := s.withdrawals[id]
	if !found {
		return nil, storage.ErrWithdrawalNotFound
	}

	req := *w
	return &req, nil
}

// TransitionWithdrawal applies the status transition under the store lock,
// treating a repeated transition to the same target as a no-op. A terminal
// request never changes again.
func (s *Storage) TransitionWithdrawal(ctx context.Context, id string, from, to model.WithdrawalStatus) (*model.WithdrawalRequest, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	w, found := s.withdrawals[id]
	if !found {
		return nil, storage.ErrWithdrawalNotFound
	}

	switch {
	case w.Status == to:
		// already there, idempotent
	case w.Status.Terminal() || w.Status != from:
		return nil, storage.ErrInvalidTransition
	default:
		w.Status = to
	}

	req := *w
	return &req, nil
}

// GetWithdrawalsByStatus retrieves all withdrawal requests in the given status.
func (s *Storage) GetWithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []model.WithdrawalRequest
	for _, w := range s.withdrawals {
		if w.Status == status {
			result = append(result, *w)
		}
	}

	return result, nil
}
