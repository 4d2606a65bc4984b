// Package middleware provides authentication, logging, rate limiting,
// metrics, and tracing middleware for the application.
package middleware

import (
	"strconv"
	"time"

	"lumen/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer is the expected `iss` claim on every token.
	TokenIssuer = "lumen-api"
	// TokenAudience is the expected `aud` claim on every token.
	TokenAudience = "lumen-client"
)

// TokenClaims is the validated subset of claims the rest of the app
// cares about.
type TokenClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

// ParseUserToken validates a signed token and returns its claims. This
// is the single place token claims are checked.
func ParseUserToken(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, models.NewUnauthorizedError("Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return nil, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return nil, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid user ID in token")
	}

	out := &TokenClaims{UserID: uint(userID)}
	if jti, exists := claims["jti"].(string); exists {
		out.JTI = jti
	}
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
