package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("test-secret", time.Hour, "campus-events")
}

func TestGenerateAndValidate(t *testing.T) {
	manager := newTestManager()

	token, err := manager.Generate("user-123", "student")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, "student", claims.Role)
	require.Equal(t, "campus-events", claims.Issuer)
}

func TestGenerateRequiresSubjectAndRole(t *testing.T) {
	manager := newTestManager()

	_, err := manager.Generate("", "student")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Generate("user-123", "")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Generate("user-123", "superuser")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	manager := newTestManager()

	// Same secret, different issuer.
	other := NewJWTManager("test-secret", time.Hour, "some-other-service")
	token, err := other.Generate("user-123", "student")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	manager := newTestManager()

	_, err := manager.Validate("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = manager.Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)

	// Token signed with a different secret
	other := NewJWTManager("other-secret", time.Hour, "campus-events")
	token, err := other.Generate("user-123", "club")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, "campus-events")

	token, err := manager.Generate("user-123", "admin")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	token, err = TokenFromHeader("bearer abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", token)

	_, err = TokenFromHeader("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenFromHeader("Basic abc123")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenFromHeader("Bearer")
	require.ErrorIs(t, err, ErrMissingToken)
}
