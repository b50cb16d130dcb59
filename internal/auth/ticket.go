// Package auth issues and validates session tickets. A ticket is a signed
// JWT bound to one game session; whoever holds it may act in that session.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims holds the session ticket payload.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// ErrInvalidTicket is returned when a ticket cannot be parsed or has expired.
var ErrInvalidTicket = errors.New("auth: invalid or expired ticket")

// IssueSessionTicket creates a signed ticket for one session.
func IssueSessionTicket(secret string, sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "gavel",
		},
		SessionID: sessionID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth.IssueSessionTicket: %w", err)
	}

	return signed, nil
}

// ValidateTicket parses and validates a ticket and returns the session it is
// bound to.
func ValidateTicket(secret, tokenString string) (uuid.UUID, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.ValidateTicket: %w", ErrInvalidTicket)
	}

	if !token.Valid {
		return uuid.Nil, fmt.Errorf("auth.ValidateTicket: %w", ErrInvalidTicket)
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.ValidateTicket: %w", ErrInvalidTicket)
	}

	return sessionID, nil
}
