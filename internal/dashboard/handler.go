package dashboard

import (
	"time"

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ResumoResponse struct {
	TotalItens        int            `json:"total_itens"`
	TotalSaidasMes    float64        `json:"total_saidas_mes"`
	CustoMensal       float64        `json:"custo_mensal"`
	VariacaoCustoPct  float64        `json:"variacao_custo_percentual"`
	ConsumoPorSetor   []ConsumoGrupo `json:"consumo_por_setor"`
	ConsumoPorUnidade []ConsumoGrupo `json:"consumo_por_unidade"`
	HistoricoCustos   []PontoMensal  `json:"historico_custos"`  // 6 meses
	ConsumoMensal     []PontoMensal  `json:"consumo_mensal"`    // 12 meses
	EstoqueBaixo      []models.Item  `json:"estoque_baixo"`
	AtualizadoEm      string         `json:"atualizado_em"`
}

// GET /api/dashboard/resumo: todos os cargos. Carrega as três coleções e
// deriva tudo em memória.
func ResumoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var itens []models.Item
		if err := database.DB.Find(&itens).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar itens")
		}
		var saidas []models.Saida
		if err := database.DB.Find(&saidas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar saídas")
		}
		var entradas []models.Entrada
		if err := database.DB.Find(&entradas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar entradas")
		}

		agora := time.Now()
		mesAtual := agora.Month()
		mesAnterior := MesAnterior(mesAtual)

		custoAtual := CustoDoMes(saidas, entradas, mesAtual)
		custoAnterior := CustoDoMes(saidas, entradas, mesAnterior)

		resp := ResumoResponse{
			TotalItens:        len(itens),
			TotalSaidasMes:    TotalSaidasDoMes(saidas, mesAtual),
			CustoMensal:       custoAtual,
			VariacaoCustoPct:  CalcPercentChange(custoAtual, custoAnterior),
			ConsumoPorSetor:   ConsumoPorSetor(saidas, entradas, mesAtual),
			ConsumoPorUnidade: ConsumoPorUnidade(saidas, entradas, mesAtual),
			HistoricoCustos:   SerieMensal(saidas, entradas, agora, 6),
			ConsumoMensal:     SerieMensal(saidas, entradas, agora, 12),
			EstoqueBaixo:      ItensEstoqueBaixo(itens),
			AtualizadoEm:      agora.Format("2006-01-02"),
		}

		return c.JSON(resp)
	}
}
