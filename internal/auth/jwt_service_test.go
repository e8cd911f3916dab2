package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")
	sid := svc.NewSessionID()

	tests := []struct {
		name    string
		userID  uint
		email   string
		authned bool
	}{
		{name: "anonymous session", authned: false},
		{name: "logged in session", userID: 7, email: "ada@example.com", authned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Issue(sid, tt.userID, tt.email)
			require.NoError(t, err)

			claims, err := svc.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, sid, claims.SessionID)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.authned, claims.Authenticated())
		})
	}
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService("test-secret")
	other := NewJWTService("other-secret")

	foreign, err := other.Issue("sid", 0, "")
	require.NoError(t, err)
	_, err = svc.Validate(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := time.Now().Add(-2 * SessionTokenExpiry)
	svc.now = func() time.Time { return past }
	stale, err := svc.Issue("sid", 0, "")
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.Validate(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsMissingSessionID(t *testing.T) {
	svc := NewJWTService("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 3})
	signed, err := token.SignedString(svc.SigningKey())
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
