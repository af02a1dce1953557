package auth

import (
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haguru/tracker/internal/apperrors"
	"github.com/haguru/tracker/internal/models"
)

const (
	ISSUER  = "github.com/haguru/tracker"
	SUBJECT = "AUTHENTICATION"
)

type CustomClaims struct {
	UserID string `json:"userid"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// Signer signs and parses session tokens with a single key.
// A zero ttl issues tokens without an expiry.
type Signer struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	ttl       time.Duration
	now       func() time.Time
}

// NewHMACSigner signs with HS256 and the shared secret.
func NewHMACSigner(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token secret cannot be empty")
	}
	return &Signer{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// NewECDSASigner signs with ES256 and verifies with the key's public half.
func NewECDSASigner(privateKey *ecdsa.PrivateKey, ttl time.Duration) (*Signer, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	return &Signer{
		method:    jwt.SigningMethodES256,
		signKey:   privateKey,
		verifyKey: &privateKey.PublicKey,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// Sign returns a token for userID with the "auth" access kind.
func (s *Signer) Sign(userID string) (string, error) {
	now := s.now()
	claims := CustomClaims{
		UserID: userID,
		Access: models.AccessAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ISSUER,
			Subject:   SUBJECT,
			ID:        uuid.NewString(),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(s.method, claims)

	signToken, err := token.SignedString(s.signKey)
	if err != nil {
		return "", err
	}

	return signToken, nil
}

// Parse validates the signature, algorithm, issuer and expiry of tokenString.
// Every failure wraps apperrors.ErrInvalidToken.
func (s *Signer) Parse(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.verifyKey, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(ISSUER),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: invalid claims", apperrors.ErrInvalidToken)
	}

	return claims, nil
}
