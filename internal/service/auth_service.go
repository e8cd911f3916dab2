package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "neurochat/internal/errors"
	"neurochat/internal/logger"
	"neurochat/internal/metrics"
	"neurochat/internal/model"
	"neurochat/internal/repository"
)

const bcryptCost = 10

// bcrypt rejects longer inputs.
const maxPasswordBytes = 72

// SignupInput carries the signup form fields.
type SignupInput struct {
	FirstName string
	Email     string
	Password  string
}

// AuthService handles account creation and credential checks. Binding the
// result to a browser session is the caller's job.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	metrics  metrics.Recorder
	policy   *bluemonday.Policy
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, rec metrics.Recorder) AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &authService{
		userRepo: userRepo,
		metrics:  rec,
		policy:   bluemonday.StrictPolicy(),
	}
}

// Signup creates an account with a hashed password in a single transaction.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	user, err := s.signup(ctx, in)
	s.metrics.RecordSignup(err == nil)
	return user, err
}

func (s *authService) signup(ctx context.Context, in SignupInput) (*model.User, error) {
	firstName := strings.TrimSpace(s.policy.Sanitize(in.FirstName))
	email := strings.TrimSpace(in.Email)

	switch {
	case firstName == "":
		return nil, apperrors.ErrFirstNameRequired
	case email == "":
		return nil, apperrors.ErrEmailRequired
	case in.Password == "":
		return nil, apperrors.ErrPasswordRequired
	case len(in.Password) > maxPasswordBytes:
		return nil, apperrors.ErrPasswordTooLong
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    firstName,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		existing, err := repo.FindByEmail(ctx, email)
		if err == nil && existing != nil {
			return apperrors.ErrEmailInUse
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check email: %w", err)
		}

		if err := repo.Create(ctx, user); err != nil {
			// lost a race with a concurrent signup for the same email
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrEmailInUse
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrEmailInUse) {
			logger.Error("signup failed", "email", email, "err", err)
		}
		return nil, err
	}

	logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.login(ctx, strings.TrimSpace(email), password)
	s.metrics.RecordLogin(err == nil)
	return user, err
}

func (s *authService) login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrCredentialsRequired
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		logger.Error("login lookup failed", "err", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
