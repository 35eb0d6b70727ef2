package service

import (
	"context"
	"net/mail"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"voteguard/internal/domain"
	apperrors "voteguard/pkg/errors"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// UserService forwards account registration after validating the form
type UserService struct {
	backend UserBackend
	logger  *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(backend UserBackend, logger *zap.Logger) *UserService {
	return &UserService{backend: backend, logger: logger}
}

// Register validates reg and creates the account
func (s *UserService) Register(ctx context.Context, reg domain.Registration) error {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	if err := ValidateRegistration(reg); err != nil {
		return err
	}

	if err := s.backend.Register(ctx, reg); err != nil {
		s.logger.Info("Registration refused", zap.Error(err))
		return err
	}

	s.logger.Info("User registered", zap.String("username", reg.Username))
	return nil
}

// ValidateRegistration checks required fields, the email address, password confirmation
// and password composition.
func ValidateRegistration(reg domain.Registration) error {
	details := map[string]interface{}{}

	if reg.FirstName == "" {
		details["first_name"] = "first name is required"
	}
	if reg.LastName == "" {
		details["last_name"] = "last name is required"
	}
	if reg.Username == "" {
		details["username"] = "username is required"
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		details["email"] = "a valid email address is required"
	}
	if msg := passwordProblem(reg.Password); msg != "" {
		details["password"] = msg
	} else if reg.Password != reg.RepeatPassword {
		details["repeat_password"] = "passwords do not match"
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func passwordProblem(password string) string {
	if len([]rune(password)) < MinPasswordLength {
		return "password must be at least 8 characters"
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return "password must contain an uppercase letter, a lowercase letter and a digit"
	}
	return ""
}
