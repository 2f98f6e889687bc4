package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage/memory"
)

// Record kinds written to the journal.
const (
	kindUser       = "user"
	kindLink       = "link"
	kindClick      = "click"
	kindCredit     = "credit"
	kindClaim      = "claim"
	kindWithdrawal = "withdrawal"
	kindStatus     = "status"
)

// record is a single journal entry. Only the fields relevant to its kind are
// populated.
type record struct {
	Kind string `json:"kind"`

	User       *model.User              `json:"user,omitempty"`
	Link       *model.Link              `json:"link,omitempty"`
	Withdrawal *model.WithdrawalRequest `json:"withdrawal,omitempty"`

	ShortCode string      `json:"short_code,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	Amount    model.Money `json:"amount,omitempty"`
	Clicks    int64       `json:"clicks,omitempty"`

	WithdrawalID string                 `json:"withdrawal_id,omitempty"`
	From         model.WithdrawalStatus `json:"from,omitempty"`
	To           model.WithdrawalStatus `json:"to,omitempty"`

	At time.Time `json:"at"`
}

// Storage persists every mutation to an append-only JSONL journal and keeps
// current state in an in-memory store rebuilt by replaying the journal at
// startup. A crash between a click record and its credit record leaves the
// explainable partial state the store contract allows.
type Storage struct {
	inner       *memory.Storage
	filePath    string
	fileWriteMu sync.Mutex
}

// NewStorage opens (or creates) the journal at filePath and replays it.
func NewStorage(filePath string) (*Storage, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	s := &Storage{
		inner:    memory.NewStorage(),
		filePath: filePath,
	}

	if err := s.loadFromFile(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) loadFromFile() error {
	f, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("failed to parse journal record: %w", err)
		}

		if err := s.apply(ctx, rec); err != nil {
			return fmt.Errorf("failed to replay journal record: %w", err)
		}
	}

	return scanner.Err()
}

func (s *Storage) apply(ctx context.Context, rec record) error {
	switch rec.Kind {
	case kindUser:
		return s.inner.CreateUser(ctx, rec.User)
	case kindLink:
		return s.inner.CreateLink(ctx, rec.Link)
	case kindClick:
		return s.inner.IncrementClicks(ctx, rec.ShortCode, rec.Clicks)
	case kindCredit:
		return s.inner.CreditBalance(ctx, rec.UserID, rec.Amount)
	case kindClaim:
		_, err := s.inner.ClaimBalance(ctx, rec.UserID, 0)
		return err
	case kindWithdrawal:
		return s.inner.CreateWithdrawal(ctx, rec.Withdrawal)
	case kindStatus:
		_, err := s.inner.TransitionWithdrawal(ctx, rec.WithdrawalID, rec.From, rec.To)
		return err
	default:
		return fmt.Errorf("unknown journal record kind %q", rec.Kind)
	}
}

func (s *Storage) appendRecord(rec record) error {
	rec.At = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal journal record: %w", err)
	}

	s.fileWriteMu.Lock()
	defer s.fileWriteMu.Unlock()

	f, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal for append: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append journal record: %w", err)
	}

	return nil
}

// CreateUser stores a user and journals the record.
func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.inner.CreateUser(ctx, user); err != nil {
		return err
	}
	return s.appendRecord(record{Kind: kindUser, User: user})
}

// GetUserByID retrieves a user by ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.inner.GetUserByID(ctx, id)
}

// GetUserByEmail retrieves a user by email address.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.inner.GetUserByEmail(ctx, email)
}

// CreditBalance credits the balance and journals the credit.
func (s *Storage) CreditBalance(ctx context.Context, userID string, amount model.Money) error {
	if err := s.inner.CreditBalance(ctx, userID, amount); err != nil {
		return err
	}
	return s.appendRecord(record{Kind: kindCredit, UserID: userID, Amount: amount})
}

// ClaimBalance zeroes the balance and journals the claim.
func (s *Storage) ClaimBalance(ctx context.Context, userID string, min model.Money) (model.Money, error) {
	amount, err := s.inner.ClaimBalance(ctx, userID, min)
	if err != nil {
		return 0, err
	}
	return amount, s.appendRecord(record{Kind: kindClaim, UserID: userID, Amount: amount})
}

// CreateLink stores a link and journals the record.
func (s *Storage) CreateLink(ctx context.Context, link *model.Link) error {
	if err := s.inner.CreateLink(ctx, link); err != nil {
		return err
	}
	return s.appendRecord(record{Kind: kindLink, Link: link})
}

// GetLink retrieves a link by short code.
func (s *Storage) GetLink(ctx context.Context, shortCode string) (*model.Link, error) {
	return s.inner.GetLink(ctx, shortCode)
}

// IncrementClicks increments the click counter and journals the click.
func (s *Storage) IncrementClicks(ctx context.Context, shortCode string, n int64) error {
	if err := s.inner.IncrementClicks(ctx, shortCode, n); err != nil {
		return err
	}
	return s.appendRecord(record{Kind: kindClick, ShortCode: shortCode, Clicks: n})
}

// GetUserLinks retrieves all links owned by a user.
func (s *Storage) GetUserLinks(ctx context.Context, userID string) ([]model.Link, error) {
	return s.inner.GetUserLinks(ctx, userID)
}

// CreateWithdrawal stores a withdrawal request and journals the record.
func (s *Storage) CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error {
	if err := s.inner.CreateWithdrawal(ctx, w); err != nil {
		return err
	}
	return s.appendRecord(record{Kind: kindWithdrawal, Withdrawal: w})
}

// GetWithdrawal retrieves a withdrawal request by ID.
func (s *Storage) GetWithdrawal(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	return s.inner.GetWithdrawal(ctx, id)
}

// TransitionWithdrawal applies the status transition and journals it.
func (s *Storage) TransitionWithdrawal(ctx context.Context, id string, from, to model.WithdrawalStatus) (*model.WithdrawalRequest, error) {
	w, err := s.inner.TransitionWithdrawal(ctx, id, from, to)
	if err != nil {
		return nil, err
	}
	return w, s.appendRecord(record{Kind: kindStatus, WithdrawalID: id, From: from, To: to})
}

// GetWithdrawalsByStatus retrieves all withdrawal requests in the given status.
func (s *Storage) GetWithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error) {
	return s.inner.GetWithdrawalsByStatus(ctx, status)
}
