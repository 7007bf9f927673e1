package inventory

import (
	"log"
	"strings"
	"time"

	"almoxarifado-backend/internal/audit"
	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CreateEntradaRequest struct {
	ItemID        uint            `json:"item_id"`
	Quantidade    float64         `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	NotaFiscal    string          `json:"nota_fiscal"`
	DataEntrada   string          `json:"data_entrada"` // "2025-11-03"
	Responsavel   string          `json:"responsavel"`
	Observacoes   string          `json:"observacoes"`
}

type EntradaResponse struct {
	ID            uint    `json:"id"`
	ItemID        uint    `json:"item_id"`
	ItemNome      string  `json:"item_nome"`
	Quantidade    float64 `json:"quantidade"`
	PrecoUnitario string  `json:"preco_unitario"`
	PrecoTotal    string  `json:"preco_total"`
	NotaFiscal    string  `json:"nota_fiscal"`
	DataEntrada   string  `json:"data_entrada"`
	Responsavel   string  `json:"responsavel"`
	Observacoes   string  `json:"observacoes"`
}

func entradaToResponse(e *models.Entrada) EntradaResponse {
	return EntradaResponse{
		ID:            e.ID,
		ItemID:        e.ItemID,
		ItemNome:      e.ItemNome,
		Quantidade:    e.Quantidade,
		PrecoUnitario: e.PrecoUnitario.StringFixed(2),
		PrecoTotal:    e.PrecoTotal.StringFixed(2),
		NotaFiscal:    e.NotaFiscal,
		DataEntrada:   e.DataEntrada.Format("2006-01-02"),
		Responsavel:   e.Responsavel,
		Observacoes:   e.Observacoes,
	}
}

// PrecoTotalEntrada: quantidade × preço unitário, sempre recalculado no
// servidor (o campo exibido no formulário é somente leitura).
func PrecoTotalEntrada(quantidade float64, precoUnitario decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(quantidade).Mul(precoUnitario).Round(2)
}

// POST /api/entradas (admin, estoquista)
//
// Sequência: (1) insere a entrada, (2) lê a
// quantidade do item, (3) grava quantidade + entrada. Os passos não são
// atômicos: falha após o insert deixa ledger e saldo divergentes; o
// handler devolve 201 com um aviso distinto em vez de desfazer.
func CreateEntradaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEntradaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Selecione o item")
		}
		if body.Quantidade <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}
		if body.PrecoUnitario.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "Preço unitário não pode ser negativo")
		}
		if strings.TrimSpace(body.Responsavel) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Informe o responsável")
		}

		dataEntrada, err := time.Parse("2006-01-02", body.DataEntrada)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data da entrada deve estar no formato 'YYYY-MM-DD'")
		}

		var item models.Item
		if err := database.DB.First(&item, body.ItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Item não encontrado")
		}

		entrada := models.Entrada{
			ItemID:        body.ItemID,
			ItemNome:      item.Nome,
			Quantidade:    body.Quantidade,
			PrecoUnitario: body.PrecoUnitario.Round(2),
			PrecoTotal:    PrecoTotalEntrada(body.Quantidade, body.PrecoUnitario),
			NotaFiscal:    body.NotaFiscal,
			DataEntrada:   dataEntrada,
			Responsavel:   body.Responsavel,
			Observacoes:   body.Observacoes,
		}

		// Passo 1: ledger
		if err := database.DB.Create(&entrada).Error; err != nil {
			log.Println("Erro ao registrar entrada:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar a entrada")
		}
		realtime.Notify("entradas", "INSERT")

		// Passos 2 e 3: releitura e atualização do saldo
		var atual models.Item
		if err := database.DB.First(&atual, body.ItemID).Error; err != nil {
			log.Println("Entrada gravada mas releitura do item falhou:", err)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"entrada": entradaToResponse(&entrada),
				"aviso":   "Entrada registrada, mas erro ao atualizar o estoque.",
			})
		}

		novaQuantidade := atual.QuantidadeAtual + body.Quantidade
		if err := database.DB.Model(&models.Item{}).
			Where("id = ?", body.ItemID).
			Update("quantidade_atual", novaQuantidade).Error; err != nil {
			log.Println("Entrada gravada mas atualização do saldo falhou:", err)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"entrada": entradaToResponse(&entrada),
				"aviso":   "Entrada salva, mas erro ao atualizar o estoque.",
			})
		}
		realtime.Notify("itens", "UPDATE")

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"entrada":  entradaToResponse(&entrada),
			"mensagem": "Entrada registrada e estoque atualizado com sucesso!",
		})
	}
}

// GET /api/entradas (admin, estoquista), mais recentes primeiro
func ListEntradasHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var entradas []models.Entrada
		if err := database.DB.Order("data_entrada desc").Find(&entradas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar entradas")
		}

		res := make([]EntradaResponse, 0, len(entradas))
		for i := range entradas {
			res = append(res, entradaToResponse(&entradas[i]))
		}
		return c.JSON(res)
	}
}

// DELETE /api/entradas/:id (admin, estoquista)
//
// Excluir a entrada não reverte o incremento aplicado ao item; o estado
// anterior fica na trilha de auditoria.
func DeleteEntradaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var entrada models.Entrada
		if err := database.DB.First(&entrada, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Entrada não encontrada")
		}

		if err := database.DB.Delete(&entrada).Error; err != nil {
			log.Println("Erro ao excluir entrada:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao excluir a entrada")
		}

		if u, uerr := auth.UsuarioAtual(c); uerr == nil {
			if err := audit.WriteLog(audit.LogOptions{
				UsuarioID:   u.ID,
				UsuarioNome: u.Nome,
				EntityType:  "entrada",
				EntityID:    entrada.ID,
				Action:      models.AuditActionDelete,
				Description: "Entrada excluída (saldo do item não foi revertido)",
				Before:      entrada,
			}); err != nil {
				log.Println(err)
			}
		}

		realtime.Notify("entradas", "DELETE")
		return c.JSON(fiber.Map{"mensagem": "Entrada excluída com sucesso"})
	}
}
