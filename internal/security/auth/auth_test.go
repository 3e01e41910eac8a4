package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "")
	token, err := tm.GenerateToken("mia@corp.io", true, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "mia@corp.io", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	token, err := NewTokenManager("one", "").GenerateToken("mia@corp.io", false, time.Hour)
	require.NoError(t, err)
	_, err = NewTokenManager("two", "").ValidateToken(token)
	assert.Error(t, err)

	tm := NewTokenManager("secret", "")
	expired, err := tm.GenerateToken("mia@corp.io", false, -time.Minute)
	require.NoError(t, err)
	_, err = tm.ValidateToken(expired)
	assert.Error(t, err)

	_, err = tm.GenerateToken("", false, time.Hour)
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/details", nil)
	_, err := TokenFromRequest(r, "token")
	assert.ErrorIs(t, err, ErrNoToken)

	r.Header.Set("Authorization", "Bearer abc")
	tok, err := TokenFromRequest(r, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	r.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	tok, err = TokenFromRequest(r, "token")
	require.NoError(t, err)
	assert.Equal(t, "from-cookie", tok)

	r = httptest.NewRequest(http.MethodGet, "/details", nil)
	r.Header.Set("Authorization", "Basic abc")
	_, err = TokenFromRequest(r, "token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	_, err := HashPassword("abc")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3cret!"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}
