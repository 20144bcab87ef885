// Package auth issues bearer tokens and resolves them back to users.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode covers every way a token can fail verification: malformed
// structure, bad signature or an unexpected algorithm.
var ErrDecode = errors.New("auth: token cannot be decoded")

const claimEmail = "email"

var signingMethod = jwt.SigningMethodHS256

// TokenCodec signs and verifies tokens with a single shared secret. It is
// immutable after construction and safe for concurrent use.
type TokenCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenCodec returns a codec bound to secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{signingMethod.Alg()})),
	}
}

// Encode returns a signed token carrying {"email": email}. Tokens have no
// expiry claim.
func (c *TokenCodec) Encode(email string) (string, error) {
	token := jwt.NewWithClaims(signingMethod, jwt.MapClaims{claimEmail: email})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies tokenString and returns its claims.
func (c *TokenCodec) Decode(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrDecode
	}
	return claims, nil
}
