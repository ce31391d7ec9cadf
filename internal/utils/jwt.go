// Package utils provides general-purpose helper utilities
// used across different parts of the engine.
// Includes tools for identity token claim extraction, UUID generation
// and HTTP client initialization.
package utils

import (
	"errors"
	"fmt"

	"github.com/avdeyev/go-note-sync/models"
	"github.com/golang-jwt/jwt/v5"
)

// ParseIDTokenClaims extracts identity claims from a platform-issued ID
// token and returns them as a session skeleton (UserID, Email, ExpiresAt).
//
// The token signature is NOT verified here: verification happens inside the
// platform sign-in flow before the token ever reaches the engine, and the
// engine has no access to the issuer's keys. The claims are used only to
// label the local session, never for authorization decisions.
//
// Parameters:
//
//	tokenString - the raw compact JWS string produced by the sign-in flow
//
// Returns:
//
//	models.Session - with UserID, Email and ExpiresAt populated from claims;
//	                 the bearer Token field is left empty for the caller
//	error          - non-nil if the token cannot be decoded or has no subject
//
// Example usage:
//
//	session, err := utils.ParseIDTokenClaims(rawIDToken)
//	if err != nil {
//	    // handle malformed identity token
//	}
func ParseIDTokenClaims(tokenString string) (models.Session, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred during parsing identity token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if sub == "" {
		return models.Session{}, errors.New("empty subject error")
	}

	session := models.Session{UserID: sub}

	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}

	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		expiry := exp.Time
		session.ExpiresAt = &expiry
	}

	return session, nil
}
