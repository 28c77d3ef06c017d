package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
	"github.com/jhoicas/Pedidos-api/pkg/jwt"
)

// Locals key para el SellerID en Fiber.
const LocalSellerID = "seller_id"

// AuthMiddleware valida el Bearer Token JWT, guarda el SellerID en c.Locals y adjunta
// la identidad del llamador al context que reciben los casos de uso.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSellerID, claims.SellerID)
		c.SetUserContext(identity.WithCaller(c.UserContext(), identity.Caller{
			SellerID: claims.SellerID,
			Email:    claims.Email,
			Name:     claims.Name,
		}))
		return c.Next()
	}
}

// GetSellerID devuelve el SellerID del contexto (después del middleware de auth).
func GetSellerID(c *fiber.Ctx) string {
	v := c.Locals(LocalSellerID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
