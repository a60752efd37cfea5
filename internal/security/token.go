package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a session token asserts about its holder.
type Identity struct {
	UserID  uint
	Phone   string
	Consent bool
}

type sessionClaims struct {
	UserID  uint   `json:"uid"`
	Phone   string `json:"phone"`
	Consent bool   `json:"consent"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: secret, ttl: ttl, now: time.Now}
}

func (manager *TokenManager) TTL() time.Duration {
	return manager.ttl
}

func (manager *TokenManager) Issue(identity Identity) (string, error) {
	if identity.UserID == 0 {
		return "", errors.New("token subject is required")
	}
	now := manager.now()

	claims := sessionClaims{
		UserID:  identity.UserID,
		Phone:   identity.Phone,
		Consent: identity.Consent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(identity.UserID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(manager.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(manager.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify fails closed: any parse, signature, algorithm or expiry problem
// yields ErrInvalidToken.
func (manager *TokenManager) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrInvalidToken
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return manager.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(manager.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Phone: claims.Phone, Consent: claims.Consent}, nil
}
