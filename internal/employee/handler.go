package employee

import (
	"log"
	"strings"

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

type CreateFuncionarioRequest struct {
	Matricula string `json:"matricula"`
	Nome      string `json:"nome"`
	Setor     string `json:"setor"`
}

type SetAtivoRequest struct {
	Ativo bool `json:"ativo"`
}

// GET /api/funcionarios/:matricula. Resolução usada pelo formulário de
// saída. 404 é o gatilho do "cadastrar novo" no cliente.
func GetFuncionarioHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		matricula := strings.TrimSpace(c.Params("matricula"))
		if matricula == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Matrícula é obrigatória")
		}

		var f models.Funcionario
		if err := database.DB.Where("matricula = ?", matricula).First(&f).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Funcionário não encontrado")
		}
		return c.JSON(f)
	}
}

// GET /api/funcionarios (admin, estoquista)
func ListFuncionariosHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fs []models.Funcionario
		if err := database.DB.Order("nome asc").Find(&fs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar funcionários")
		}
		return c.JSON(fs)
	}
}

// POST /api/funcionarios (admin, estoquista): inserção avulsa feita no meio
// do fluxo de saída quando a matrícula não existe ainda.
func CreateFuncionarioHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFuncionarioRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Matricula = strings.TrimSpace(body.Matricula)
		body.Nome = strings.TrimSpace(body.Nome)
		body.Setor = strings.TrimSpace(body.Setor)
		if body.Matricula == "" || body.Nome == "" || body.Setor == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Preencha todos os campos!")
		}

		var count int64
		database.DB.Model(&models.Funcionario{}).
			Where("matricula = ?", body.Matricula).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Já existe funcionário com esta matrícula")
		}

		f := models.Funcionario{
			Matricula: body.Matricula,
			Nome:      body.Nome,
			Setor:     body.Setor,
			Ativo:     true,
		}

		if err := database.DB.Create(&f).Error; err != nil {
			log.Println("Erro ao cadastrar funcionário:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao cadastrar funcionário!")
		}

		realtime.Notify("funcionarios", "INSERT")
		return c.Status(fiber.StatusCreated).JSON(f)
	}
}

// PATCH /api/funcionarios/:matricula/ativo (admin, estoquista)
func SetAtivoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		matricula := strings.TrimSpace(c.Params("matricula"))
		if matricula == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Matrícula é obrigatória")
		}

		var body SetAtivoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var f models.Funcionario
		if err := database.DB.Where("matricula = ?", matricula).First(&f).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Funcionário não encontrado")
		}

		if err := database.DB.Model(&f).Update("ativo", body.Ativo).Error; err != nil {
			log.Println("Erro ao atualizar funcionário:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar funcionário")
		}

		realtime.Notify("funcionarios", "UPDATE")
		f.Ativo = body.Ativo
		return c.JSON(f)
	}
}
