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
)

type CreateSaidaRequest struct {
	ItemID             uint    `json:"item_id"`
	Quantidade         float64 `json:"quantidade"`
	FuncionarioID      string  `json:"funcionario_id"` // matrícula
	Unidade            string  `json:"unidade"`
	ResponsavelEntrega string  `json:"responsavel_entrega"`
	DataSaida          string  `json:"data_saida"`
	Observacoes        string  `json:"observacoes"`
}

// POST /api/saidas (admin, estoquista)
//
// Invariante: novaQtd = atual − pedida nunca pode ser negativa; estoque
// insuficiente é rejeitado antes de qualquer escrita. A ordem é decremento
// primeiro, insert do ledger depois; falha no insert deixa o saldo já
// reduzido e é reportada como aviso, sem compensação.
func CreateSaidaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaidaRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Selecione o item")
		}
		if body.Quantidade <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}
		if !models.UnidadeSaidaValida(body.Unidade) {
			return fiber.NewError(fiber.StatusBadRequest, "Unidade de destino inválida")
		}
		if strings.TrimSpace(body.ResponsavelEntrega) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Informe o responsável pela entrega")
		}

		dataSaida, err := time.Parse("2006-01-02", body.DataSaida)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data da saída deve estar no formato 'YYYY-MM-DD'")
		}

		var item models.Item
		if err := database.DB.First(&item, body.ItemID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Erro ao buscar o item")
		}

		novaQtd := item.QuantidadeAtual - body.Quantidade
		if novaQtd < 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Estoque insuficiente!")
		}

		// Matrícula é opcional, mas quando informada resolve nome/setor no
		// diretório de funcionários.
		var funcionarioNome, setor string
		if body.FuncionarioID != "" {
			var f models.Funcionario
			if err := database.DB.Where("matricula = ?", body.FuncionarioID).First(&f).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Funcionário não encontrado. Cadastre-o antes de registrar a saída.")
			}
			funcionarioNome = f.Nome
			setor = f.Setor
		}

		// Passo 1: decrementa o saldo
		if err := database.DB.Model(&models.Item{}).
			Where("id = ?", body.ItemID).
			Update("quantidade_atual", novaQtd).Error; err != nil {
			log.Println("Erro ao atualizar saldo na saída:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar o estoque")
		}
		realtime.Notify("itens", "UPDATE")

		saida := models.Saida{
			ItemID:             body.ItemID,
			ItemNome:           item.Nome,
			Quantidade:         body.Quantidade,
			FuncionarioID:      body.FuncionarioID,
			FuncionarioNome:    funcionarioNome,
			Setor:              setor,
			Unidade:            body.Unidade,
			ResponsavelEntrega: body.ResponsavelEntrega,
			DataSaida:          dataSaida,
			Observacoes:        body.Observacoes,
		}

		// Passo 2: ledger
		if err := database.DB.Create(&saida).Error; err != nil {
			log.Println("Saldo decrementado mas insert da saída falhou:", err)
			return c.JSON(fiber.Map{
				"aviso": "Estoque atualizado, mas erro ao salvar a saída.",
			})
		}
		realtime.Notify("saidas", "INSERT")

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"saida":    saida,
			"mensagem": "Saída registrada e estoque atualizado!",
		})
	}
}

// GET /api/saidas (admin, estoquista)
func ListSaidasHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var saidas []models.Saida
		if err := database.DB.Order("data_saida desc").Find(&saidas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar saídas")
		}
		return c.JSON(saidas)
	}
}

// DELETE /api/saidas/:id (admin, estoquista), sem reversão de saldo.
func DeleteSaidaHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var saida models.Saida
		if err := database.DB.First(&saida, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Saída não encontrada")
		}

		if err := database.DB.Delete(&saida).Error; err != nil {
			log.Println("Erro ao excluir saída:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao excluir a saída")
		}

		if u, uerr := auth.UsuarioAtual(c); uerr == nil {
			if err := audit.WriteLog(audit.LogOptions{
				UsuarioID:   u.ID,
				UsuarioNome: u.Nome,
				EntityType:  "saida",
				EntityID:    saida.ID,
				Action:      models.AuditActionDelete,
				Description: "Saída excluída (saldo do item não foi revertido)",
				Before:      saida,
			}); err != nil {
				log.Println(err)
			}
		}

		realtime.Notify("saidas", "DELETE")
		return c.JSON(fiber.Map{"mensagem": "Saída excluída com sucesso"})
	}
}
