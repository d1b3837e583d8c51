package owner

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKey is the fiber Locals key holding the verified *jwt.Token.
const TokenKey = "user"

var ErrForbidden = errors.New("not allowed to access another user's board")

// GetUserID returns the authenticated owner from the JWT in context, or ""
// when the request carries no valid token.
func GetUserID(c *fiber.Ctx) string {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	sub, _ := claims["sub"].(string)
	return sub
}

// Resolve picks the owner a request acts for. With a token, a differing
// requested id is rejected; without one, the requested id is trusted.
func Resolve(c *fiber.Ctx, requested string) (string, error) {
	authed := GetUserID(c)
	if authed == "" {
		return requested, nil
	}
	if requested != "" && requested != authed {
		return "", ErrForbidden
	}
	return authed, nil
}
