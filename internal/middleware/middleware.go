package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jaffery572/allergen-matrix-api/internal/models"
	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

var jwtSecret []byte

// SetJWTSecret configures the secret used to sign and verify edit-session tokens
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// EditSessionTTL is how long a PIN unlock stays valid
const EditSessionTTL = 24 * time.Hour

// IssueEditToken creates the bearer token handed out by the PIN unlock
// endpoint
func IssueEditToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"scope": "owner",
		"iat":   now.Unix(),
		"exp":   now.Add(EditSessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// PINGate protects owner endpoints behind the optional edit lock. While the
// lock is disabled every request passes straight through; once a PIN is set,
// callers need the bearer token issued by the unlock endpoint. The lock
// guards edits, not data visibility.
func PINGate(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !st.Document().PIN.Enabled {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondUnauthorized(c, "Missing Authorization header. Unlock with the PIN first.")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respondUnauthorized(c, "Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			respondUnauthorized(c, "Bearer token is empty")
			return
		}

		if err := validateEditToken(tokenString); err != nil {
			respondUnauthorized(c, err.Error())
			return
		}
		c.Next()
	}
}

// validateEditToken parses the session token with HMAC-only validation
func validateEditToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method to prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return fmt.Errorf("token parsing failed: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims format")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp != nil && exp.Before(time.Now()) {
		return fmt.Errorf("edit session has expired")
	}
	if scope, _ := claims["scope"].(string); scope != "owner" {
		return fmt.Errorf("token is not an edit-session token")
	}
	return nil
}

func respondUnauthorized(c *gin.Context, description string) {
	c.JSON(http.StatusUnauthorized, models.NewAPIError(models.ErrCodeUnauthorized, description))
	c.Abort()
}
