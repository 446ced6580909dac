package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func claimsFrom(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// UserID extracts the user UUID from JWT claims in context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}
	return uuid.Parse(sub)
}

// Wallet extracts the wallet address from JWT claims in context.
func Wallet(c *fiber.Ctx) (string, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return "", err
	}
	wallet, ok := claims["wallet"].(string)
	if !ok || wallet == "" {
		return "", errors.New("missing wallet claim")
	}
	return wallet, nil
}

// UserType extracts the account type from JWT claims in context.
func UserType(c *fiber.Ctx) (string, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return "", err
	}
	t, ok := claims["user_type"].(string)
	if !ok || t == "" {
		return "", errors.New("missing user_type claim")
	}
	return t, nil
}
