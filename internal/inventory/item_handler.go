package inventory

import (
	"log"
	"strings"

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

type CreateItemRequest struct {
	Codigo        string  `json:"codigo"`
	Nome          string  `json:"nome"`
	Categoria     string  `json:"categoria"`
	EstoqueMinimo float64 `json:"estoque_minimo"`
	Unidade       string  `json:"unidade"`
	Local         string  `json:"local"`
}

type UpdateItemRequest struct {
	Codigo        *string  `json:"codigo"`
	Nome          *string  `json:"nome"`
	Categoria     *string  `json:"categoria"`
	EstoqueMinimo *float64 `json:"estoque_minimo"`
	Unidade       *string  `json:"unidade"`
	Local         *string  `json:"local"`
}

// GET /api/itens: todos os cargos leem (a tela de solicitações usa a lista
// para montar as linhas). Ordenado por nome.
func ListItensHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var itens []models.Item
		if err := database.DB.Order("nome asc").Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar itens")
		}
		return c.JSON(itens)
	}
}

// POST /api/itens (admin, estoquista). Quantidade inicial é sempre zero: o
// saldo só se move por entrada/saída.
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Nome = strings.TrimSpace(body.Nome)
		if body.Nome == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do item é obrigatório")
		}
		if body.EstoqueMinimo < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Estoque mínimo não pode ser negativo")
		}

		item := models.Item{
			Codigo:        body.Codigo,
			Nome:          body.Nome,
			Categoria:     body.Categoria,
			EstoqueMinimo: body.EstoqueMinimo,
			Unidade:       body.Unidade,
			Local:         body.Local,
		}

		if err := database.DB.Create(&item).Error; err != nil {
			log.Println("Erro ao criar item:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar o item")
		}

		realtime.Notify("itens", "INSERT")
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/itens/:id (admin, estoquista). quantidade_atual não é editável
// por aqui.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var item models.Item
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if body.Codigo != nil {
			item.Codigo = *body.Codigo
		}
		if body.Nome != nil {
			nome := strings.TrimSpace(*body.Nome)
			if nome == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome do item não pode ficar vazio")
			}
			item.Nome = nome
		}
		if body.Categoria != nil {
			item.Categoria = *body.Categoria
		}
		if body.EstoqueMinimo != nil {
			if *body.EstoqueMinimo < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Estoque mínimo não pode ser negativo")
			}
			item.EstoqueMinimo = *body.EstoqueMinimo
		}
		if body.Unidade != nil {
			item.Unidade = *body.Unidade
		}
		if body.Local != nil {
			item.Local = *body.Local
		}

		if err := database.DB.Save(&item).Error; err != nil {
			log.Println("Erro ao atualizar item:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar o item")
		}

		realtime.Notify("itens", "UPDATE")
		return c.JSON(item)
	}
}

// DELETE /api/itens/:id (admin, estoquista)
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var item models.Item
		if err := database.DB.First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Item não encontrado")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			log.Println("Erro ao excluir item:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao excluir o item")
		}

		realtime.Notify("itens", "DELETE")
		return c.JSON(fiber.Map{"mensagem": "Item excluído com sucesso"})
	}
}
