package api

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	keyAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	prefixLength = 8
	secretLength = 16
)

// newAPIKey mints a key of the form prefix.secret. The prefix is stored in
// clear for lookup; the secret exists only in the returned key.
func newAPIKey() (prefix, key string, err error) {
	prefix, err = randomToken(prefixLength)
	if err != nil {
		return "", "", err
	}
	secret, err := randomToken(secretLength)
	if err != nil {
		return "", "", err
	}
	return prefix, fmt.Sprintf("%s.%s", prefix, secret), nil
}

func randomToken(n int) (string, error) {
	max := big.NewInt(int64(len(keyAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b), nil
}
