// Package auth validates the session token the UI presents on every request.
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"voteguard/internal/domain"
	"voteguard/pkg/errors"
	"voteguard/pkg/logger"
)

// Service validates HS256 session tokens issued by the election API
type Service struct {
	secret []byte
	logger *logger.Logger
}

// NewService creates a new session validator. An empty secret rejects every token.
func NewService(secret string, logger *logger.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		logger: logger,
	}
}

// ValidateSession verifies the token signature and expiry and returns the session it carries
func (s *Service) ValidateSession(ctx context.Context, tokenString string) (*domain.Session, error) {
	if len(s.secret) == 0 {
		s.logger.Error("SESSION_JWT_SECRET not configured")
		return nil, errors.NewAuthenticationError("Session validation not configured")
	}

	if !isJWTToken(tokenString) {
		return nil, errors.NewAuthenticationError("Unrecognized token format")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		s.logger.WithError(err).Info("Failed to parse/validate session token")
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.NewAuthenticationError("Session has expired")
		}
		return nil, errors.NewAuthenticationError("Invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid session token")
	}

	userID := subject(claims)
	if userID == "" {
		s.logger.Info("No user identifier found in session token")
		return nil, errors.NewAuthenticationError("Invalid session token: no user identifier")
	}

	s.logger.WithField("user_id", userID).Debug("Session validated")
	return &domain.Session{UserID: userID, Token: tokenString}, nil
}

// subject reads the user id from sub, falling back to user_id and id, which the election
// API may emit as numbers.
func subject(claims jwt.MapClaims) string {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub
	}
	for _, key := range []string{"user_id", "id"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// isJWTToken checks for three non-empty dot-separated segments
func isJWTToken(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
