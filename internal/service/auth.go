package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evently-app/evently/internal/auth"
	"github.com/evently-app/evently/internal/model"
	"github.com/evently-app/evently/internal/repository"
	"github.com/rs/zerolog"
)

// AuthService handles signup and per-role login. It resolves credentials to
// a (user, role) identity and issues tokens; the engines downstream only
// ever see ids.
type AuthService struct {
	users UserStore
	jwt   *auth.JWTManager
	log   zerolog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, jwt *auth.JWTManager, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

// SignupStudent creates a new student account with a bcrypt-hashed password.
func (s *AuthService) SignupStudent(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateStudent(ctx, req, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("student signed up")
	return user, nil
}

// Login verifies credentials and the required role, then issues a JWT.
// Club-member logins additionally require a club membership, which ends up
// in the token so booking requests can be attributed to the club.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, want model.Role) (*model.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	account, err := s.users.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if account.Role != want {
		return nil, ErrWrongRole
	}

	var clubID string
	if want == model.RoleClubMember {
		if account.ClubID == nil {
			return nil, ErrNoClubMembership
		}
		clubID = *account.ClubID
	}

	token, err := s.jwt.Generate(account.ID, account.Role, clubID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("user_id", account.ID).Str("role", string(account.Role)).Msg("login")
	return &model.LoginResponse{
		Message:  fmt.Sprintf("Welcome, %s!", account.FirstName),
		Token:    token,
		UserID:   account.ID,
		Role:     account.Role,
		ClubID:   account.ClubID,
		ClubName: account.ClubName,
	}, nil
}
