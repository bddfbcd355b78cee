package userservice

import (
	"errors"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

const AccessTokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload carried by a bearer token. The identity fields are
// trusted downstream without a database round-trip.
type Claims struct {
	UserID    int    `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	jwt.Claims
}

// TokenManager signs and verifies stateless bearer tokens with a single
// shared HMAC secret.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

func (tm *TokenManager) Issue(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Claims: jwt.Claims{
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	return tm.sign(claims)
}

func (tm *TokenManager) sign(claims Claims) (string, error) {
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: tm.secret}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", err
	}

	return jwt.Signed(signer).Claims(claims).Serialize()
}

// Verify checks the signature and expiry of a token and returns its claims.
// Every failure mode collapses into ErrInvalidToken; callers have no reason
// to distinguish a forged token from an expired one.
func (tm *TokenManager) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := parsed.Claims(tm.secret, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if err := claims.Validate(jwt.Expected{Time: time.Now()}); err != nil {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}
