package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrMissingSecret = errors.New("secret key is required")
)

type AuthClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenIssuer(secretKey string, ttl time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{secretKey: []byte(secretKey), ttl: ttl}, nil
}

func (issuer *TokenIssuer) Issue(userID uint, now time.Time) (string, error) {
	claims := AuthClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(issuer.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(issuer.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies an HS256 token and returns the user id it was issued for.
func (issuer *TokenIssuer) Parse(tokenValue string) (uint, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return issuer.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return 0, ErrTokenExpired
	}
	return claims.UserID, nil
}
