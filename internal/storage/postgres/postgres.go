package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/storage"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Storage implements the full storage surface on PostgreSQL. Balances are
// stored as BIGINT cents; credits and claims are single guarded statements so
// concurrent mutations of one user's balance cannot lose updates.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to the database and ensures the schema exists.
func NewStorage(dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	s := &Storage{pool: pool}

	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS links (
			short_code VARCHAR(12) PRIMARY KEY,
			owner_id VARCHAR(36) NOT NULL,
			original_url TEXT NOT NULL,
			clicks BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_links_owner_id ON links(owner_id);`,
		`CREATE TABLE IF NOT EXISTS withdrawals (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			amount BIGINT NOT NULL CHECK (amount > 0),
			status VARCHAR(16) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_status ON withdrawals(status);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// CreateUser inserts a new user record.
func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (id, name, email, password_hash, balance) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Name, user.Email, user.PasswordHash, int64(user.Balance))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("error inserting user: %w", err)
	}

	return nil
}

func (s *Storage) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var user model.User
	var balance int64

	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	user.Balance = model.Money(balance)
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx,
		"SELECT id, name, email, password_hash, balance FROM users WHERE id = $1", id)
}

// GetUserByEmail retrieves a user by email address.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.getUser(ctx,
		"SELECT id, name, email, password_hash, balance FROM users WHERE email = $1", email)
}

// CreditBalance adds amount to the user's balance in a single statement, so
// the increment happens server-side without a read-modify-write race.
func (s *Storage) CreditBalance(ctx context.Context, userID string, amount model.Money) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE users SET balance = balance + $1 WHERE id = $2",
		int64(amount), userID)
	if err != nil {
		return fmt.Errorf("error crediting balance: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// ClaimBalance zeroes the balance inside a transaction, locking the user row
// so the claimed amount is exactly what was zeroed.
func (s *Storage) ClaimBalance(ctx context.Context, userID string, min model.Money) (model.Money, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance int64
	err = tx.QueryRow(ctx,
		"SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, storage.ErrUserNotFound
		}
		return 0, fmt.Errorf("error locking user row: %w", err)
	}

	if model.Money(balance) < min {
		return 0, storage.ErrInsufficientBalance
	}

	if _, err := tx.Exec(ctx, "UPDATE users SET balance = 0 WHERE id = $1", userID); err != nil {
		return 0, fmt.Errorf("error zeroing balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing claim: %w", err)
	}

	return model.Money(balance), nil
}

// CreateLink inserts a new link record.
func (s *Storage) CreateLink(ctx context.Context, link *model.Link) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO links (short_code, owner_id, original_url, clicks) VALUES ($1, $2, $3, $4)",
		link.ShortCode, link.OwnerID, link.OriginalURL, link.Clicks)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrCodeTaken
		}
		return fmt.Errorf("error inserting link: %w", err)
	}

	return nil
}

// GetLink retrieves a link by short code.
func (s *Storage) GetLink(ctx context.Context, shortCode string) (*model.Link, error) {
	var link model.Link

	err := s.pool.QueryRow(ctx,
		"SELECT short_code, owner_id, original_url, clicks FROM links WHERE short_code = $1",
		shortCode).Scan(&link.ShortCode, &link.OwnerID, &link.OriginalURL, &link.Clicks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrLinkNotFound
		}
		return nil, fmt.Errorf("error querying link: %w", err)
	}

	return &link, nil
}

// IncrementClicks adds n to the link's click counter server-side.
func (s *Storage) IncrementClicks(ctx context.Context, shortCode string, n int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE links SET clicks = clicks + $1 WHERE short_code = $2", n, shortCode)
	if err != nil {
		return fmt.Errorf("error incrementing clicks: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrLinkNotFound
	}

	return nil
}

// GetUserLinks retrieves all links owned by a user.
func (s *Storage) GetUserLinks(ctx context.Context, userID string) ([]model.Link, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT short_code, owner_id, original_url, clicks FROM links WHERE owner_id = $1 ORDER BY created_at",
		userID)
	if err != nil {
		return nil, fmt.Errorf("error querying user links: %w", err)
	}
	defer rows.Close()

	var result []model.Link
	for rows.Next() {
		var link model.Link
		if err := rows.Scan(&link.ShortCode, &link.OwnerID, &link.OriginalURL, &link.Clicks); err != nil {
			return nil, fmt.Errorf("error scanning link row: %w", err)
		}
		result = append(result, link)
	}

	return result, rows.Err()
}

// CreateWithdrawal inserts a new withdrawal request.
func (s *Storage) CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO withdrawals (id, user_id, amount, status, created_at) VALUES ($1, $2, $3, $4, $5)",
		w.ID, w.UserID, int64(w.Amount), string(w.Status), w.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting withdrawal: %w", err)
	}

	return nil
}

func scanWithdrawal(row pgx.Row) (*model.WithdrawalRequest, error) {
	var w model.WithdrawalRequest
	var amount int64
	var status string

	if err := row.Scan(&w.ID, &w.UserID, &amount, &status, &w.CreatedAt); err != nil {
		return nil, err
	}

	w.Amount = model.Money(amount)
	w.Status = model.WithdrawalStatus(status)
	return &w, nil
}

// GetWithdrawal retrieves a withdrawal request by ID.
func (s *Storage) GetWithdrawal(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	w, err := scanWithdrawal(s.pool.QueryRow(ctx,
		"SELECT id, user_id, amount, status, created_at FROM withdrawals WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("error querying withdrawal: %w", err)
	}

	return w, nil
}

// TransitionWithdrawal applies the status transition with the row locked, so
// two concurrent approvals resolve to one transition and one no-op. A
// terminal request never changes again.
func (s *Storage) TransitionWithdrawal(ctx context.Context, id string, from, to model.WithdrawalStatus) (*model.WithdrawalRequest, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	w, err := scanWithdrawal(tx.QueryRow(ctx,
		"SELECT id, user_id, amount, status, created_at FROM withdrawals WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("error locking withdrawal row: %w", err)
	}

	switch {
	case w.Status == to:
		// already there, idempotent
	case w.Status.Terminal() || w.Status != from:
		return nil, storage.ErrInvalidTransition
	default:
		if _, err := tx.Exec(ctx,
			"UPDATE withdrawals SET status = $1 WHERE id = $2", string(to), id); err != nil {
			return nil, fmt.Errorf("error updating withdrawal status: %w", err)
		}
		w.Status = to
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing transition: %w", err)
	}

	return w, nil
}

// GetWithdrawalsByStatus retrieves all withdrawal requests in the given status.
func (s *Storage) GetWithdrawalsByStatus(ctx context.Context, status model.WithdrawalStatus) ([]model.WithdrawalRequest, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, amount, status, created_at FROM withdrawals WHERE status = $1 ORDER BY created_at",
		string(status))
	if err != nil {
		return nil, fmt.Errorf("error querying withdrawals: %w", err)
	}
	defer rows.Close()

	var result []model.WithdrawalRequest
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning withdrawal row: %w", err)
		}
		result = append(result, *w)
	}

	return result, rows.Err()
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
