package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenExpiry bounds how long a browser may present the same session cookie.
const SessionTokenExpiry = 30 * 24 * time.Hour

// ErrInvalidToken is returned for malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Claims identify a server-side session and, after login, its user.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    uint   `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticated reports whether the token belongs to a logged-in user.
func (c *Claims) Authenticated() bool {
	return c != nil && c.UserID != 0
}

// JWTService signs and validates session cookie tokens.
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		expiry: SessionTokenExpiry,
		now:    time.Now,
	}
}

// SigningKey exposes the HMAC key for middleware that validates tokens itself.
func (s *JWTService) SigningKey() []byte {
	return s.secret
}

// NewSessionID returns a fresh random session identifier.
func (s *JWTService) NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token for sessionID. userID and email are zero for anonymous sessions.
func (s *JWTService) Issue(sessionID string, userID uint, email string) (string, error) {
	now := s.now()
	claims := &Claims{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses a token and returns its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
