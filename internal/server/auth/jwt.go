// Package auth issues and verifies the HS256 tokens that carry a caller's
// address. The address in a verified token is the only identity the
// server authorizes against.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskledger/internal/common"
	"github.com/dmitrijs2005/taskledger/internal/identity"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "taskledger"

// Claims are the registered claims plus the caller's address.
type Claims struct {
	jwt.RegisteredClaims
	Address string `json:"addr"`
}

// GenerateToken signs a token for addr. A non-positive validity yields a
// token without expiry.
func GenerateToken(addr identity.Address, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Subject:  addr.Hex(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		Address: addr.Hex(),
	}
	if validityDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validityDuration))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// AddressFromToken verifies tokenString and returns its address. Expired
// tokens fail with common.ErrTokenExpired, everything else that does not
// verify with common.ErrInvalidToken.
func AddressFromToken(tokenString string, secretKey []byte) (identity.Address, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Zero, common.ErrTokenExpired
		}
		return identity.Zero, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return identity.Zero, common.ErrInvalidToken
	}

	addr, err := identity.ParseMember(claims.Address)
	if err != nil {
		return identity.Zero, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return addr, nil
}
