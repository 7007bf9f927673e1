package auth

import (
	"log"
	"strings"

	"almoxarifado-backend/internal/config"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Matricula string `json:"matricula"`
	Nome      string `json:"nome"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	Setor     string `json:"setor"`
	Senha     string `json:"senha"`
}

type LoginRequest struct {
	// Matrícula ou e-mail
	Identificador string `json:"identificador"`
	Senha         string `json:"senha"`
}

type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Telefone *string `json:"telefone"`
	Unidade  *string `json:"unidade"`
	Setor    *string `json:"setor"`
}

type ChangePasswordRequest struct {
	Senha          string `json:"senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
}

func perfilJSON(u *models.Usuario) fiber.Map {
	return fiber.Map{
		"id":        u.ID,
		"matricula": u.Matricula,
		"nome":      u.Nome,
		"email":     u.Email,
		"telefone":  u.Telefone,
		"setor":     u.Setor,
		"unidade":   u.Unidade,
		"cargo":     u.Cargo,
	}
}

// POST /api/auth/register: cadastro público, sempre com cargo "funcionario".
// Promoção de cargo é feita depois por um admin.
func RegisterHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Matricula = strings.TrimSpace(body.Matricula)

		if body.Matricula == "" || body.Nome == "" || body.Email == "" ||
			body.Telefone == "" || body.Setor == "" || body.Senha == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Preencha todos os campos")
		}

		var count int64
		database.DB.Model(&models.Usuario{}).
			Where("matricula = ? OR email = ?", body.Matricula, body.Email).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Usuário já existe. Faça login.")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao criar usuário")
		}

		u := models.Usuario{
			Matricula: body.Matricula,
			Nome:      body.Nome,
			Email:     body.Email,
			Telefone:  body.Telefone,
			Setor:     body.Setor,
			Cargo:     models.CargoFuncionario,
			SenhaHash: string(hash),
		}

		if err := database.DB.Create(&u).Error; err != nil {
			log.Println("Erro ao salvar usuário:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar dados no banco")
		}

		return c.Status(fiber.StatusCreated).JSON(perfilJSON(&u))
	}
}

// POST /api/auth/login: identificador sem "@" é tratado como matrícula e
// resolvido para o e-mail correspondente antes da checagem de senha.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Identificador = strings.TrimSpace(body.Identificador)
		if body.Identificador == "" || body.Senha == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Preencha matrícula/e-mail e senha")
		}

		var u models.Usuario
		var err error
		if strings.Contains(body.Identificador, "@") {
			err = database.DB.Where("email = ?", strings.ToLower(body.Identificador)).First(&u).Error
		} else {
			err = database.DB.Where("matricula = ?", body.Identificador).First(&u).Error
		}
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Matrícula/e-mail ou senha incorretos")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(body.Senha)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Matrícula/e-mail ou senha incorretos")
		}

		token, err := GenerateToken(cfg.JWTSecret, &u)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar o token")
		}

		return c.JSON(fiber.Map{
			"token":   token,
			"usuario": perfilJSON(&u),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var u models.Usuario
		if err := database.DB.First(&u, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Usuário não encontrado")
		}
		return c.JSON(perfilJSON(&u))
	}
}

// PUT /api/auth/profile: campos de contato/localização do próprio usuário.
// Cargo e matrícula não passam por aqui.
func UpdateProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var body UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var u models.Usuario
		if err := database.DB.First(&u, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "E-mail não pode ficar vazio")
			}
			u.Email = email
		}
		if body.Telefone != nil {
			u.Telefone = *body.Telefone
		}
		if body.Unidade != nil {
			u.Unidade = *body.Unidade
		}
		if body.Setor != nil {
			u.Setor = *body.Setor
		}

		if err := database.DB.Save(&u).Error; err != nil {
			log.Println("Erro ao atualizar perfil:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar dados")
		}

		return c.JSON(perfilJSON(&u))
	}
}

// PUT /api/auth/password: senhas divergentes são erro de validação local,
// nada é gravado.
func ChangePasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Sessão inválida")
		}

		var body ChangePasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Senha == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Informe a nova senha")
		}
		if body.Senha != body.ConfirmarSenha {
			return fiber.NewError(fiber.StatusBadRequest, "As senhas não coincidem")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Senha), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar a senha")
		}

		if err := database.DB.Model(&models.Usuario{}).
			Where("id = ?", userID).
			Update("senha_hash", string(hash)).Error; err != nil {
			log.Println("Erro ao atualizar senha:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar a senha")
		}

		return c.JSON(fiber.Map{"mensagem": "Senha atualizada com sucesso"})
	}
}
