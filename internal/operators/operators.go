// Package operators holds user accounts: field operators and admins.
package operators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned when no operator matches.
var ErrNotFound = errors.New("operator not found")

// Operator is a user account. PasswordHash never leaves the package.
type Operator struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"` // operator | admin
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`

	passwordHash string
}

// CheckPassword compares a candidate against the stored bcrypt hash.
func (o Operator) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.passwordHash), []byte(password)) == nil
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Store persists operator accounts.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts an account with an already-hashed password.
func (s *Store) Create(ctx context.Context, firstName, lastName, phone, role, passwordHash string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO operators (first_name, last_name, phone, role, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, firstName, lastName, phone, role, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("phone already exists")
		}
		return uuid.Nil, fmt.Errorf("create operator: %w", err)
	}
	return id, nil
}

// GetByPhone returns an active account by phone number.
func (s *Store) GetByPhone(ctx context.Context, phone string) (Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Operator
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone, role, active, password_hash, created_at
		FROM operators WHERE phone = $1 AND active
	`, phone).Scan(&o.ID, &o.FirstName, &o.LastName, &o.Phone, &o.Role, &o.Active, &o.passwordHash, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operator{}, ErrNotFound
		}
		return Operator{}, fmt.Errorf("get operator: %w", err)
	}
	return o, nil
}

// Get returns an account by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Operator, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Operator
	err := s.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, phone, role, active, password_hash, created_at
		FROM operators WHERE id = $1
	`, id).Scan(&o.ID, &o.FirstName, &o.LastName, &o.Phone, &o.Role, &o.Active, &o.passwordHash, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Operator{}, ErrNotFound
		}
		return Operator{}, fmt.Errorf("get operator: %w", err)
	}
	return o, nil
}
