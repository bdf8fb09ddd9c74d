package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/meinhoongagan/amigos-app/apperrors"
)

const (
	localUserID  = "userID"
	localIsAmigo = "isAmigo"
)

// Protected verifies the bearer access token and stores the caller's id and
// account kind in the request locals.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return apperrors.NewUnauthorizedError("Invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperrors.NewUnauthorizedError("Invalid token claims")
			}
			if typ, _ := claims["typ"].(string); typ == "refresh" {
				return apperrors.NewUnauthorizedError("Refresh tokens cannot be used for API access")
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return apperrors.NewUnauthorizedError("Invalid user ID in token")
			}
			isAmigo, _ := claims["isAmigo"].(bool)

			c.Locals(localUserID, userID)
			c.Locals(localIsAmigo, isAmigo)
			return c.Next()
		},
	})
}

// UserID returns the authenticated caller set by Protected.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(localUserID).(uint)
	return id, ok && id != 0
}

// IsAmigo reports the account kind carried by the caller's token.
func IsAmigo(c *fiber.Ctx) bool {
	v, _ := c.Locals(localIsAmigo).(bool)
	return v
}

// extractUserID handles multiple potential formats of user ID in token
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		if v <= 0 {
			return 0, fmt.Errorf("invalid ID %v", v)
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "missing or malformed JWT") {
		return apperrors.NewUnauthorizedError("Missing or malformed token")
	}
	return apperrors.NewUnauthorizedError("Invalid or expired token")
}
