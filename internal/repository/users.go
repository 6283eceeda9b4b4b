package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evently-app/evently/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles persistence for user accounts.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateStudent inserts a new user with the Student role.
func (r *UserRepository) CreateStudent(ctx context.Context, req model.SignupRequest, passwordHash string) (*model.User, error) {
	user := &model.User{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      model.RoleStudent,
		CreatedAt: time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, phone, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.FirstName, user.LastName, user.Email, user.Phone, passwordHash, user.Role, user.CreatedAt,
	)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetAccountByEmail returns the account for an email, including the password
// hash and the user's club membership if they have one.
func (r *UserRepository) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.email, COALESCE(u.phone, ''),
		        u.password_hash, u.role, u.created_at,
		        cm.club_id, c.name
		 FROM users u
		 LEFT JOIN club_memberships cm ON u.id = cm.user_id
		 LEFT JOIN clubs c ON cm.club_id = c.id
		 WHERE u.email = $1`,
		email,
	).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
		&a.PasswordHash, &a.Role, &a.CreatedAt,
		&a.ClubID, &a.ClubName,
	)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// GetByID returns a single user or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, COALESCE(phone, ''), role, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.CreatedAt)
	if err != nil {
		if terr := translate(err); errors.Is(terr, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// EnsureAdmin creates the bootstrap admin account if no user with the email
// exists yet. Rerunning at startup is a no-op.
func (r *UserRepository) EnsureAdmin(ctx context.Context, firstName, lastName, email, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New().String(), firstName, lastName, email, passwordHash, model.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}
