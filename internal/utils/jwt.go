package utils // package utils provides helpers for session token creation and parsing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidSessionToken is returned when a presented token fails
// signature, expiry or claim checks.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionToken represents a signed JWT that correlates wizard requests
// with their booking session.  The Token field contains the JWT string
// and Exp its UTC expiration.  This is session correlation only: the
// token carries no user identity, because authentication is handled by
// a separate service.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a booking session.
// The claims are the session id (sub), the bus being booked (bus),
// expiration (exp) and issued at (iat).  The TTL bounds how long an
// abandoned wizard tab can come back to its session.
func NewSessionToken(secret, sessionID, busID string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub": sessionID,
		"bus": busID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session token string and returns the
// session id it names.  Only HS256 signatures are accepted.
func ParseSessionToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidSessionToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSessionToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidSessionToken
	}
	return sub, nil
}
