package auth

import (
	"fmt"
	"strings"

	"almoxarifado-backend/internal/config"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxMatriculaKey = "matricula"
	CtxCargoKey     = "cargo"
)

// JWTMiddleware valida o token do header Authorization ou, na falta dele, do
// query param ?token= (clientes websocket não enviam headers customizados).
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenStr string

		authHeader := c.Get("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return fiber.NewError(fiber.StatusUnauthorized, "Formato do Authorization deve ser 'Bearer <token>'")
			}
			tokenStr = parts[1]
		} else {
			tokenStr = c.Query("token")
			if tokenStr == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "Token de autorização não encontrado")
			}
		}

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de assinatura inesperado")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Claims do token inválidas")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxMatriculaKey, claims.Matricula)
		c.Locals(CtxCargoKey, claims.Cargo)

		return c.Next()
	}
}

// RequireRole: guarda de rota por cargo. Sessão sem cargo permitido é
// redirecionada pelo cliente para a home (403 aqui). A checagem usa somente
// as claims já validadas, sem ida ao banco.
func RequireRole(allowed ...models.Cargo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cargoVal := c.Locals(CtxCargoKey)
		cargo, ok := cargoVal.(models.Cargo)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Cargo não identificado na sessão")
		}

		for _, a := range allowed {
			if a == cargo {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Você não tem permissão para acessar este recurso")
	}
}

// CargoFromCtx: helper para handlers que variam o comportamento por cargo.
func CargoFromCtx(c *fiber.Ctx) (models.Cargo, error) {
	cargo, ok := c.Locals(CtxCargoKey).(models.Cargo)
	if !ok {
		return "", fiber.NewError(fiber.StatusForbidden, "Cargo não identificado na sessão")
	}
	return cargo, nil
}

func MatriculaFromCtx(c *fiber.Ctx) (string, error) {
	m, ok := c.Locals(CtxMatriculaKey).(string)
	if !ok || m == "" {
		return "", fiber.NewError(fiber.StatusForbidden, "Matrícula não identificada na sessão")
	}
	return m, nil
}

// UsuarioAtual carrega o usuário da sessão a partir do banco (para trilha de
// auditoria e preenchimento de solicitações).
func UsuarioAtual(c *fiber.Ctx) (*models.Usuario, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
	}
	var u models.Usuario
	if err := database.DB.First(&u, userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Usuário não encontrado")
	}
	return &u, nil
}
