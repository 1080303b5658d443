package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	minPasswordLen = 8
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	CompanyID *uuid.UUID
}

// TokenPair is the response to a successful login or refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	UserID       uuid.UUID `json:"user_id"`
}

// Identity is the verified caller extracted from an access token.
type Identity struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// authClaims is the JWT payload. Subject holds the user id; Type
// distinguishes access tokens from refresh tokens so one cannot stand in
// for the other.
type authClaims struct {
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// AuthService handles registration, credential checks, and JWT issuance.
// Tokens are HS256-signed; passwords are stored as bcrypt hashes.
type AuthService struct {
	users      repo.UserRepo
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewAuthService constructs an AuthService with an injected clock.
func NewAuthService(users repo.UserRepo, secret []byte, accessTTL, refreshTTL time.Duration, now func() time.Time) *AuthService {
	return &AuthService{users: users, secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL, now: now}
}

// Register creates a new account with the default user role.
// Returns domain.ErrValidation for malformed input or a taken username/email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CompanyID:    in.CompanyID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues an access/refresh token pair.
// Wrong username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: incorrect username or password", domain.ErrUnauthorized)
		}
		return TokenPair{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, fmt.Errorf("%w: incorrect username or password", domain.ErrUnauthorized)
	}

	return s.issuePair(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: invalid refresh token", domain.ErrUnauthorized)
	}

	// Re-load the user so a deleted account cannot refresh its way back in.
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return TokenPair{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}

	return s.issuePair(user)
}

// Verify checks an access token and returns the caller's identity.
func (s *AuthService) Verify(tokenString string) (Identity, error) {
	claims, err := s.parse(tokenString, tokenTypeAccess)
	if err != nil {
		return Identity{}, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: invalid token subject", domain.ErrUnauthorized)
	}

	return Identity{UserID: userID, Role: domain.UserRole(claims.Role)}, nil
}

// issuePair signs an access token and a refresh token for the user.
func (s *AuthService) issuePair(user domain.User) (TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.issuePair: %w", err)
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("service.AuthService.issuePair: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		UserID:       user.ID,
	}, nil
}

func (s *AuthService) sign(user domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := authClaims{
		Role: string(user.Role),
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse validates the signature, expiry, and token type.
func (s *AuthService) parse(tokenString, expectedType string) (*authClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &authClaims{},
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*authClaims)
	if !ok || claims.Type != expectedType {
		return nil, fmt.Errorf("%w: wrong token type", domain.ErrUnauthorized)
	}
	return claims, nil
}

// validateRegistration enforces the account rules shared with the original
// product: usernames 1–50 chars, a plausible email, passwords of at least
// eight characters.
func validateRegistration(in RegisterInput) error {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(username) > 50 {
		return fmt.Errorf("%w: username must be 1-50 characters", domain.ErrValidation)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || strings.Count(email, "@") != 1 {
		return fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	return nil
}
