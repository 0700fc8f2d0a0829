// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sectest provides in-process RSA keys and token services for tests.
package sectest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/signup/internal/platform/sec"
)

// Issuer is the issuer used by [TokenService].
const Issuer = "signup.test"

// KeyPair returns a freshly generated PEM-encoded RSA key pair.
func KeyPair(t testing.TB) (privatePEM, publicPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	return privatePEM, publicPEM
}

// TokenService returns a service with a 15 minute access and 30 day refresh lifetime.
func TokenService(t testing.TB) *sec.TokenService {
	t.Helper()

	privatePEM, publicPEM := KeyPair(t)
	service, err := sec.NewTokenService(privatePEM, publicPEM, sec.TokenOptions{
		Issuer:     Issuer,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return service
}
