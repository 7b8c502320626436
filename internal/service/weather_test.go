package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/genghao161-arch/anyue-lemon-project/internal/cache"
	"github.com/genghao161-arch/anyue-lemon-project/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWeatherKey(t *testing.T) (string, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return string(pemBytes), pub
}

func TestWeatherServiceNotConfigured(t *testing.T) {
	svc, err := NewWeatherService(&config.Config{}, cache.NewMemory())
	require.NoError(t, err)

	_, err = svc.Now(context.Background())
	assert.ErrorIs(t, err, ErrWeatherNotConfigured)
	_, err = svc.Daily(context.Background())
	assert.ErrorIs(t, err, ErrWeatherNotConfigured)
}

func TestWeatherServiceRejectsBadKey(t *testing.T) {
	_, err := NewWeatherService(&config.Config{QWeatherPrivateKey: "not a pem"}, cache.NewMemory())
	assert.Error(t, err)
}

func TestWeatherTokenSigning(t *testing.T) {
	pemKey, pub := testWeatherKey(t)
	svc, err := NewWeatherService(&config.Config{
		QWeatherHost:         "api.example.qweather.com",
		QWeatherProjectID:    "proj-1",
		QWeatherCredentialID: "cred-1",
		QWeatherPrivateKey:   pemKey,
		QWeatherLocation:     "101271302",
	}, cache.NewMemory())
	require.NoError(t, err)

	signed, err := svc.token(context.Background())
	require.NoError(t, err)

	token, err := jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		assert.Equal(t, "cred-1", tk.Header["kid"])
		return pub, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	require.NoError(t, err)
	require.True(t, token.Valid)

	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "proj-1", sub)
}

func TestWeatherTokenCached(t *testing.T) {
	pemKey, _ := testWeatherKey(t)
	svc, err := NewWeatherService(&config.Config{
		QWeatherHost:         "api.example.qweather.com",
		QWeatherProjectID:    "proj-1",
		QWeatherCredentialID: "cred-1",
		QWeatherPrivateKey:   pemKey,
	}, cache.NewMemory())
	require.NoError(t, err)

	first, err := svc.token(context.Background())
	require.NoError(t, err)
	second, err := svc.token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
