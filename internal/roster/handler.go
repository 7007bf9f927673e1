package roster

import (
	"log"

	"almoxarifado-backend/internal/audit"
	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type UpdateCargoRequest struct {
	Cargo models.Cargo `json:"cargo"`
}

type UsuarioResponse struct {
	ID        uint         `json:"id"`
	Matricula string       `json:"matricula"`
	Nome      string       `json:"nome"`
	Email     string       `json:"email"`
	Telefone  string       `json:"telefone"`
	Setor     string       `json:"setor"`
	Unidade   string       `json:"unidade"`
	Cargo     models.Cargo `json:"cargo"`
}

func usuarioToResponse(u *models.Usuario) UsuarioResponse {
	return UsuarioResponse{
		ID:        u.ID,
		Matricula: u.Matricula,
		Nome:      u.Nome,
		Email:     u.Email,
		Telefone:  u.Telefone,
		Setor:     u.Setor,
		Unidade:   u.Unidade,
		Cargo:     u.Cargo,
	}
}

// GET /api/usuarios (somente admin), ordenado por nome.
func ListUsuariosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var usuarios []models.Usuario
		if err := database.DB.Order("nome asc").Find(&usuarios).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao carregar funcionários.")
		}

		res := make([]UsuarioResponse, 0, len(usuarios))
		for i := range usuarios {
			res = append(res, usuarioToResponse(&usuarios[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/usuarios/:id/cargo (somente admin)
func UpdateCargoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body UpdateCargoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		if !models.CargoValido(body.Cargo) {
			return fiber.NewError(fiber.StatusBadRequest, "Cargo inválido")
		}

		var u models.Usuario
		if err := database.DB.First(&u, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		if err := database.DB.Model(&u).Update("cargo", body.Cargo).Error; err != nil {
			log.Println("Erro ao atualizar cargo:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar cargo.")
		}

		u.Cargo = body.Cargo
		return c.JSON(usuarioToResponse(&u))
	}
}

// DELETE /api/usuarios/:id (somente admin): exclusão definitiva, com
// snapshot na auditoria. O admin não pode excluir a própria conta.
func DeleteUsuarioHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		atual, err := auth.UsuarioAtual(c)
		if err != nil {
			return err
		}
		if atual.ID == uint(id) {
			return fiber.NewError(fiber.StatusBadRequest, "Você não pode excluir a própria conta")
		}

		var u models.Usuario
		if err := database.DB.First(&u, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		if err := database.DB.Delete(&u).Error; err != nil {
			log.Println("Erro ao excluir usuário:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao excluir funcionário.")
		}

		if err := audit.WriteLog(audit.LogOptions{
			UsuarioID:   atual.ID,
			UsuarioNome: atual.Nome,
			EntityType:  "usuario",
			EntityID:    u.ID,
			Action:      models.AuditActionDelete,
			Description: "Usuário excluído",
			Before:      usuarioToResponse(&u),
		}); err != nil {
			log.Println(err)
		}

		return c.JSON(fiber.Map{"mensagem": "Funcionário excluído com sucesso!"})
	}
}
