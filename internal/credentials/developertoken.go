package credentials

import (
	"context"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeveloperTokenConfig holds the Apple Developer key material used to
// generate Apple Music developer tokens locally instead of shipping a
// long-lived static token.
type DeveloperTokenConfig struct {
	TeamID         string
	KeyID          string
	PrivateKeyPath string // .p8 PKCS#8 PEM file
	Expiry         time.Duration
}

// NewAppleDeveloperToken returns a cached token source that signs ES256
// JWTs with the configured key. Returns an error if the key cannot be
// loaded or parsed.
func NewAppleDeveloperToken(cfg DeveloperTokenConfig) (*Cache, error) {
	if cfg.TeamID == "" {
		return nil, fmt.Errorf("apple developer token requires a team ID")
	}
	if cfg.KeyID == "" {
		return nil, fmt.Errorf("apple developer token requires a key ID")
	}
	if cfg.PrivateKeyPath == "" {
		return nil, fmt.Errorf("apple developer token requires a private key path")
	}

	privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	return NewCache("apple", func(ctx context.Context) (string, time.Duration, error) {
		now := time.Now()
		claims := jwt.MapClaims{
			"iss": cfg.TeamID,
			"iat": now.Unix(),
			"exp": now.Add(expiry).Unix(),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
		token.Header["kid"] = cfg.KeyID

		signed, err := token.SignedString(privateKey)
		if err != nil {
			return "", 0, fmt.Errorf("sign token: %w", err)
		}
		return signed, expiry, nil
	}), nil
}

// loadPrivateKey reads and parses an ECDSA private key from a .p8 file.
func loadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in file")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS8 key: %w", err)
	}

	ecdsaKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not ECDSA (got %T)", key)
	}

	return ecdsaKey, nil
}
