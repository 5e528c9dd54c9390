// Package auth implements the authentication protocol: a signed, time-bound
// token codec and the service that verifies credentials, issues tokens, and
// resolves the principal behind a request.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskdeck/taskdeck/internal/common"
)

// IssueToken produces an HS256-signed token whose subject claim identifies
// the user (their email) and whose expiry is now + ttl.
func IssueToken(subject string, now time.Time, secretKey []byte, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SubjectFromToken validates tokenString as of now and returns its subject.
// Signature mismatch, expiry, malformed claims, and a missing subject all
// collapse to common.ErrorInvalidToken so callers cannot distinguish which
// check failed.
func SubjectFromToken(tokenString string, now time.Time, secretKey []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return "", common.ErrorInvalidToken
	}

	if claims.Subject == "" {
		return "", common.ErrorInvalidToken
	}

	return claims.Subject, nil
}
