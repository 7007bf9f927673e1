package report

import (
	"fmt"
	"log"
	"time"

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/relatorios/movimentacoes?year=2026&month=8 (admin, estoquista)
//
// Gera uma planilha com duas abas (Entradas e Saídas) do período. Sem
// parâmetros, usa o mês corrente.
func ExportMovimentacoesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		agora := time.Now()
		year := c.QueryInt("year", agora.Year())
		month := c.QueryInt("month", int(agora.Month()))
		if month < 1 || month > 12 || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "Período inválido")
		}

		inicio := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		fim := inicio.AddDate(0, 1, 0)

		var entradas []models.Entrada
		if err := database.DB.
			Where("data_entrada >= ? AND data_entrada < ?", inicio, fim).
			Order("data_entrada asc").
			Find(&entradas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar entradas")
		}

		var saidas []models.Saida
		if err := database.DB.
			Where("data_saida >= ? AND data_saida < ?", inicio, fim).
			Order("data_saida asc").
			Find(&saidas).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar saídas")
		}

		f := excelize.NewFile()
		defer f.Close()

		f.SetSheetName("Sheet1", "Entradas")
		cabecalhoEntradas := []string{"Item", "Qtd", "Preço Unitário", "Preço Total", "NF", "Data", "Responsável", "Observações"}
		for i, h := range cabecalhoEntradas {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue("Entradas", cell, h)
		}
		for row, e := range entradas {
			valores := []any{
				e.ItemNome,
				e.Quantidade,
				e.PrecoUnitario.StringFixed(2),
				e.PrecoTotal.StringFixed(2),
				e.NotaFiscal,
				e.DataEntrada.Format("02/01/2006"),
				e.Responsavel,
				e.Observacoes,
			}
			for col, v := range valores {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue("Entradas", cell, v)
			}
		}

		if _, err := f.NewSheet("Saidas"); err != nil {
			log.Println("Erro ao criar aba de saídas:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar a planilha")
		}
		cabecalhoSaidas := []string{"Item", "Qtd", "Funcionário", "Setor", "Unidade", "Resp. Entrega", "Data", "Observações"}
		for i, h := range cabecalhoSaidas {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue("Saidas", cell, h)
		}
		for row, s := range saidas {
			valores := []any{
				s.ItemNome,
				s.Quantidade,
				s.FuncionarioNome,
				s.Setor,
				s.Unidade,
				s.ResponsavelEntrega,
				s.DataSaida.Format("02/01/2006"),
				s.Observacoes,
			}
			for col, v := range valores {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue("Saidas", cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			log.Println("Erro ao serializar planilha:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao gerar a planilha")
		}

		nome := fmt.Sprintf("movimentacoes-%04d-%02d.xlsx", year, month)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
		return c.Send(buf.Bytes())
	}
}
