package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or fails
	// signature verification.
	ErrInvalidToken = errors.New("invalid token")
)

// SessionClaims holds JWT claims for the session token.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenAuthority issues and validates HMAC-SHA256 (HS256) session tokens.
// The scheme is stateless: no per-token state is held anywhere; a token is
// reconstructible only by verifying its signature. The signing key lives for
// the lifetime of the authority.
type TokenAuthority struct {
	key    []byte
	issuer string
	ttl    time.Duration
	nowF   func() time.Time
}

// NewTokenAuthority returns a TokenAuthority that signs with the given
// symmetric key. issuer is set as the iss claim and checked on validation.
func NewTokenAuthority(key []byte, issuer string, ttl time.Duration) *TokenAuthority {
	return &TokenAuthority{
		key:    key,
		issuer: issuer,
		ttl:    ttl,
		nowF:   time.Now().UTC,
	}
}

// Issue issues a session token for username with claims {sub, iat, exp},
// exp = now + TTL. Returns the signed token and its expiration time.
func (a *TokenAuthority) Issue(username string) (token string, expiresAt time.Time, err error) {
	now := a.nowF()
	expiresAt = now.Add(a.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(a.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Subject parses and validates tokenString (signature, exp, iss) and returns
// the sub claim. Any failure collapses to ErrInvalidToken; callers get no
// partial trust from a token that fails any check.
func (a *TokenAuthority) Subject(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return a.nowF() }),
		// exp is inclusive: a token presented at exactly iat+TTL must still
		// verify. jwt/v5 checks now < exp, so give it the smallest leeway.
		jwt.WithLeeway(time.Nanosecond))
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Issuer != a.issuer {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
