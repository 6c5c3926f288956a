package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestParse_ValidHS256(t *testing.T) {
	token, err := Issue(testSecret, "user-1", Claims{Email: "a@example.com"}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Workspace(), "workspace defaults to the subject")
}

func TestParse_WorkspaceClaim(t *testing.T) {
	token, err := Issue(testSecret, "user-1", Claims{WorkspaceID: "team-9"}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "team-9", claims.Workspace())
}

func TestParse_RejectsUnexpectedAlgorithm(t *testing.T) {
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "user-1",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = Parse(testSecret, token)
	assert.Error(t, err)
}

func TestParse_Rejections(t *testing.T) {
	expired, err := Issue(testSecret, "user-1", Claims{}, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(testSecret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := Issue([]byte("other-secret"), "user-1", Claims{}, time.Hour)
	require.NoError(t, err)
	_, err = Parse(testSecret, other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSubject, err := Issue(testSecret, "", Claims{}, time.Hour)
	require.NoError(t, err)
	_, err = Parse(testSecret, noSubject)
	assert.Error(t, err)

	_, err = Parse(testSecret, "not-a-token")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractBearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, "header %q", tt.header)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
