// Package services contains server-side business logic. This file implements
// AuthService, which orchestrates registration, login, token verification,
// and profile lookup over the user store, the credential codec, and the
// token service.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/avilov/authgate/internal/common"
	"github.com/avilov/authgate/internal/logging"
	"github.com/avilov/authgate/internal/server/auth"
	"github.com/avilov/authgate/internal/server/models"
	"github.com/avilov/authgate/internal/server/ratelimit"
	"github.com/avilov/authgate/internal/server/repositories/users"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// RegisterRequest is a credential submission for a new account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// LoginRequest is a credential submission for an existing account.
type LoginRequest struct {
	Username string
	Password string
}

// ValidationError aggregates every violated input rule so the caller can
// surface them all at once instead of fixing one at a time.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// AuthService implements the register/login/verify flows. All shared mutable
// state (the attempt limiter, the signing secret inside the token service)
// is injected at construction; the service itself holds no ambient globals.
type AuthService struct {
	users   users.Repository
	tokens  *auth.Service
	limiter *ratelimit.Limiter
	logger  logging.Logger
}

// NewAuthService constructs an AuthService from its collaborators.
func NewAuthService(repo users.Repository, tokens *auth.Service, limiter *ratelimit.Limiter, logger logging.Logger) *AuthService {
	return &AuthService{
		users:   repo,
		tokens:  tokens,
		limiter: limiter,
		logger:  logger.With("module", "auth_service"),
	}
}

func validateRegistration(req RegisterRequest) *ValidationError {
	var violations []string

	if len(req.Username) < 3 || len(req.Username) > 30 {
		violations = append(violations, "username must be between 3 and 30 characters")
	}
	if !usernamePattern.MatchString(req.Username) {
		violations = append(violations, "username may only contain letters, digits and underscores")
	}
	if !emailPattern.MatchString(req.Email) {
		violations = append(violations, "email must be a valid address")
	}
	if len(req.Password) < 8 {
		violations = append(violations, "password must be at least 8 characters")
	}
	if !hasRequiredClasses(req.Password) {
		violations = append(violations, "password must contain at least one lowercase letter, one uppercase letter and one digit")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func hasRequiredClasses(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return lower && upper && digit
}

func validateLogin(req LoginRequest) *ValidationError {
	var violations []string

	if strings.TrimSpace(req.Username) == "" {
		violations = append(violations, "username is required")
	}
	if req.Password == "" {
		violations = append(violations, "password is required")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Register creates a new account and returns its outward projection together
// with a freshly issued token. The attempt limiter runs before validation
// and before any store access; identity is the caller identity the throttle
// is keyed by (typically the client address).
func (s *AuthService) Register(ctx context.Context, identity string, req RegisterRequest) (*models.Profile, string, error) {
	if !s.limiter.Allow(identity) {
		return nil, "", common.ErrRateLimited
	}

	if verr := validateRegistration(req); verr != nil {
		return nil, "", verr
	}

	profile, err := s.users.Create(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) || errors.Is(err, common.ErrEmailTaken) {
			return nil, "", err
		}
		s.logger.Error(ctx, "creating user", "error", err)
		return nil, "", common.ErrInternal
	}

	token, err := s.tokens.Issue(profile.ID, profile.Username, profile.Email)
	if err != nil {
		s.logger.Error(ctx, "issuing token", "error", err)
		return nil, "", common.ErrInternal
	}

	s.logger.Info(ctx, "user registered", "username", profile.Username)
	return profile, token, nil
}

// Login authenticates an existing account, stamps its last-login time, and
// returns the refreshed projection with a token.
//
// An unknown username and a wrong password are reported as distinct errors
// (ErrUserNotFound vs ErrInvalidCredentials). That distinction leaks account
// existence and is preserved deliberately as part of the public API
// contract; see DESIGN.md.
func (s *AuthService) Login(ctx context.Context, identity string, req LoginRequest) (*models.Profile, string, error) {
	if !s.limiter.Allow(identity) {
		return nil, "", common.ErrRateLimited
	}

	if verr := validateLogin(req); verr != nil {
		return nil, "", verr
	}

	matched, user, err := s.users.VerifyPassword(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Error(ctx, "verifying password", "error", err)
		return nil, "", common.ErrInternal
	}
	if user == nil {
		return nil, "", common.ErrUserNotFound
	}
	if !matched {
		return nil, "", common.ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Error(ctx, "updating last login", "error", err)
		return nil, "", common.ErrInternal
	}

	profile, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		s.logger.Error(ctx, "reloading user", "error", err)
		return nil, "", common.ErrInternal
	}

	token, err := s.tokens.Issue(profile.ID, profile.Username, profile.Email)
	if err != nil {
		s.logger.Error(ctx, "issuing token", "error", err)
		return nil, "", common.ErrInternal
	}

	s.logger.Info(ctx, "user logged in", "username", profile.Username)
	return profile, token, nil
}

// Verify checks a bearer token and returns its claims. Every failure kind
// surfaces as common.ErrInvalidToken.
func (s *AuthService) Verify(tokenString string) (*auth.Claims, error) {
	return s.tokens.Verify(tokenString)
}

// Profile returns the outward projection for the given user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.logger.Error(ctx, "loading profile", "error", err)
		return nil, common.ErrInternal
	}
	return profile, nil
}
