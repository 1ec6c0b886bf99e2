package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/palsuhanapp/hanapp-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpire: 1}
}

func TestGenerateAndValidateJWT(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWT("64f000000000000000000001", cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := ValidateJWT(token, cfg)
	require.NoError(t, err)
	require.Equal(t, "64f000000000000000000001", sub)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("64f000000000000000000001", testConfig())
	require.NoError(t, err)

	_, err = ValidateJWT(token, &config.Config{JWTSecret: "other-secret", JWTExpire: 1})
	require.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.token", testConfig())
	require.ErrorIs(t, err, ErrInvalidToken)
}
