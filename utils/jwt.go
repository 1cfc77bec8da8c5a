package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "CateringService"

var ErrInvalidToken = errors.New("invalid or expired token")

type CustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 bearer tokens. Revoked tokens are
// rejected through the blacklist.
type JWTManager struct {
	secret    []byte
	ttl       time.Duration
	blacklist *TokenBlacklist
	now       func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration, blacklist *TokenBlacklist) *JWTManager {
	if blacklist == nil {
		blacklist = NewTokenBlacklist()
	}
	return &JWTManager{
		secret:    []byte(secret),
		ttl:       ttl,
		blacklist: blacklist,
		now:       time.Now,
	}
}

func (m *JWTManager) Blacklist() *TokenBlacklist {
	return m.blacklist
}

func (m *JWTManager) GenerateToken(userID uint, email, role string) (string, error) {
	now := m.now()
	claims := &CustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *JWTManager) ParseToken(tokenString string) (*CustomClaims, error) {
	if tokenString == "" || m.blacklist.IsBlacklisted(tokenString) {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RevokeToken blacklists a token until it would have expired anyway.
func (m *JWTManager) RevokeToken(tokenString string, claims *CustomClaims) {
	expiry := m.now().Add(m.ttl)
	if claims != nil && claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	m.blacklist.Add(tokenString, expiry)
}
