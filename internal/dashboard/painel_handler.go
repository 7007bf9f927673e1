package dashboard

import (
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PainelIndicadores struct {
	TotalItens int64 `json:"total_itens"`
	Pendentes  int64 `json:"pendentes"`
	Separados  int64 `json:"separados"`
	Enviados   int64 `json:"enviados"`
}

type SolicitacaoRecente struct {
	ID         uint                     `json:"id"`
	DataPedido string                   `json:"data_pedido"`
	Nome       string                   `json:"nome"`
	Matricula  string                   `json:"matricula"`
	Separado   bool                     `json:"separado"`
	Enviado    bool                     `json:"enviado"`
	Status     models.SolicitacaoStatus `json:"status"`
	Itens      models.SolicitacaoItens  `json:"itens"`
}

type PainelResponse struct {
	Indicadores  PainelIndicadores    `json:"indicadores"`
	Recentes     []SolicitacaoRecente `json:"solicitacoes_recentes"`
	EstoqueBaixo []models.Item        `json:"estoque_baixo"`
}

// GET /api/relatorios/painel (admin, estoquista): indicadores do
// almoxarifado: contagens por status, cinco solicitações mais recentes e
// itens abaixo do mínimo. As duas assinaturas realtime do cliente
// (solicitacoes, itens) redisparam exatamente esta leitura.
func PainelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ind PainelIndicadores

		if err := database.DB.Model(&models.Item{}).Count(&ind.TotalItens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao contar itens")
		}
		database.DB.Model(&models.Solicitacao{}).
			Where("separado = ? AND enviado = ?", false, false).
			Count(&ind.Pendentes)
		database.DB.Model(&models.Solicitacao{}).
			Where("separado = ? AND enviado = ?", true, false).
			Count(&ind.Separados)
		database.DB.Model(&models.Solicitacao{}).
			Where("enviado = ?", true).
			Count(&ind.Enviados)

		var recentes []models.Solicitacao
		if err := database.DB.Order("data_pedido desc").Limit(5).Find(&recentes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar solicitações")
		}

		rec := make([]SolicitacaoRecente, 0, len(recentes))
		for i := range recentes {
			s := &recentes[i]
			itens := s.Itens
			if itens == nil {
				itens = models.SolicitacaoItens{}
			}
			rec = append(rec, SolicitacaoRecente{
				ID:         s.ID,
				DataPedido: s.DataPedido.Format("2006-01-02"),
				Nome:       s.Nome,
				Matricula:  s.Matricula,
				Separado:   s.Separado,
				Enviado:    s.Enviado,
				Status:     s.Status(),
				Itens:      itens,
			})
		}

		var itens []models.Item
		if err := database.DB.Order("quantidade_atual asc").Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar estoque baixo")
		}

		return c.JSON(PainelResponse{
			Indicadores:  ind,
			Recentes:     rec,
			EstoqueBaixo: ItensEstoqueBaixo(itens),
		})
	}
}
