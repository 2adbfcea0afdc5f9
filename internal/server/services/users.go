package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/triptales/internal/common"
	"github.com/dmitrijs2005/triptales/internal/logging"
	"github.com/dmitrijs2005/triptales/internal/server/auth"
	"github.com/dmitrijs2005/triptales/internal/server/metrics"
	"github.com/dmitrijs2005/triptales/internal/server/models"
	"github.com/dmitrijs2005/triptales/internal/server/repositories/repomanager"
)

const adminFullName = "TripTales Admin"

// AuthResult is returned by signup and login.
type AuthResult struct {
	User  *models.User
	Token string
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenCodec
	metrics     metrics.MetricsCollector
	log         logging.Logger

	// dummyHash is verified against when the email is unknown, so both
	// failure paths cost one key derivation.
	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenCodec,
	mc metrics.MetricsCollector, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		metrics:     mc,
		log:         log.With("module", "users"),
	}
}

func (s *UserService) Signup(ctx context.Context, fullName, email, password string) (*AuthResult, error) {
	fullName = plainText(fullName)
	if err := requireLength("full_name", fullName, 2, 80); err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := requireLength("password", password, 6, 100); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error(ctx, "hash password", "error", err)
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         common.RoleUser,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email is already registered", common.ErrAlreadyExists)
		}
		s.log.Error(ctx, "create user", "error", err)
		return nil, common.ErrInternal
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return s.issue(ctx, user)
}

// Login never reveals whether the email exists: an unknown user and a wrong
// password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := requireLength("password", password, 1, 100); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.VerifyPassword(password, s.dummy())
			s.metrics.RecordLoginFailure()
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "load user", "error", err)
		return nil, common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.metrics.RecordLoginFailure()
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Authenticate turns a bearer token into claims. Any codec failure is
// reported as common.ErrUnauthenticated wrapping the codec error.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthenticated, err)
	}
	return claims, nil
}

// EnsureAdmin creates the bootstrap admin unless a user with that email
// already exists.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	email, err := NormalizeEmail(email)
	if err != nil {
		return fmt.Errorf("admin email: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, &models.User{
		FullName:     adminFullName,
		Email:        email,
		PasswordHash: hash,
		Role:         common.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil
		}
		return err
	}

	s.log.Info(ctx, "bootstrap admin created", "email", email)
	return nil
}

func (s *UserService) issue(ctx context.Context, user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		s.log.Error(ctx, "issue token", "error", err)
		return nil, common.ErrInternal
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := auth.HashPassword("triptales-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
