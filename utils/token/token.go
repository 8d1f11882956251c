package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// HeaderName is the header the web client sends its session token in.
const HeaderName = "auth-token"

// Common auth errors
var (
	ErrAuthHeaderMissing = errors.New("Authentication required")
	ErrInvalidAuthFormat = errors.New("Authorization header format must be Bearer {token}")
	ErrInvalidToken      = errors.New("Invalid or expired token")
)

// JWTClaims holds the standard JWT claims plus our custom claims
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ValidateToken validates a JWT token string and returns the claims
func ValidateToken(tokenString string, secret []byte) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(userID string, email string, secret []byte, expiration time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ExpiresAt reads the expiry of a token without checking its signature. The
// client uses it to drop a session before making a doomed request; the server
// always validates properly.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's expiry has passed at now. Tokens that
// cannot be read count as expired; tokens without an expiry never do.
func IsExpired(tokenString string, now time.Time) bool {
	expiresAt, err := ExpiresAt(tokenString)
	if err != nil {
		return true
	}
	return !expiresAt.IsZero() && !now.Before(expiresAt)
}

// ExtractToken extracts a token from the query, the auth-token header or a
// Bearer authorization header, in that order.
func ExtractToken(c *gin.Context) (string, error) {
	// WebSocket connections can only pass it in the query
	if token := c.Query("token"); token != "" {
		return token, nil
	}

	if token := c.GetHeader(HeaderName); token != "" {
		return token, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrAuthHeaderMissing
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidAuthFormat
	}
	return parts[1], nil
}

// ExtractAndValidateToken combines extraction and validation
func ExtractAndValidateToken(c *gin.Context, secret []byte) (*JWTClaims, error) {
	tokenString, err := ExtractToken(c)
	if err != nil {
		return nil, err
	}

	return ValidateToken(tokenString, secret)
}
