// internal/auth/auth.go
// Operator accounts: the narrow "can this caller mutate the schedule"
// question, backing JWT login for the admin API.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"courtsched/internal/utils"
)

// Role gates which mutating endpoints an operator may call.
type Role string

const (
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Operator is one authenticated account.
type Operator struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

var (
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrUsernameTaken      = errors.New("auth: username already registered")
)

// Store is the minimal operator-account persistence this service needs.
// Backed by the same MySQL connection as internal/audit, since both are
// small relational concerns sitting next to the document-shaped schedule
// state.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const Schema = `
CREATE TABLE IF NOT EXISTS operators (
	id VARCHAR(36) PRIMARY KEY,
	username VARCHAR(64) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(16) NOT NULL,
	created_at DATETIME NOT NULL
)`

// Register creates a new operator account with a bcrypt-hashed password.
func (s *Store) Register(ctx context.Context, username, password string, role Role) (*Operator, error) {
	if _, err := s.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if err != ErrInvalidCredentials {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	op := &Operator{
		ID:           utils.GenerateUUID(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO operators (id, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		op.ID, op.Username, op.PasswordHash, string(op.Role), op.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("auth: register: %w", err)
	}
	return op, nil
}

// FindByUsername looks up an operator by username, used during login.
func (s *Store) FindByUsername(ctx context.Context, username string) (*Operator, error) {
	var op Operator
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM operators WHERE username = ?`,
		username,
	).Scan(&op.ID, &op.Username, &op.PasswordHash, &role, &op.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: find operator: %w", err)
	}
	op.Role = Role(role)
	return &op, nil
}

// Service issues and validates JWTs for authenticated operators.
type Service struct {
	store      *Store
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewService(store *Store, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Login verifies credentials and returns a signed JWT on success.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	op, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWT(op.ID, string(op.Role), s.jwtSecret, s.tokenTTL)
}

// Authenticate validates a bearer token and returns the operator ID and role.
func (s *Service) Authenticate(token string) (operatorID string, role Role, err error) {
	id, r, err := utils.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return "", "", fmt.Errorf("auth: %w", err)
	}
	return id, Role(r), nil
}
