package dashboard

import (
	"sort"
	"time"

	"almoxarifado-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Derivações puras sobre as coleções já carregadas (itens, saídas,
// entradas): conjuntos pequenos, agregação em memória.

var mesesAbrev = []string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

type ConsumoGrupo struct {
	Nome  string  `json:"nome"`
	Valor float64 `json:"valor"`
}

type PontoMensal struct {
	Mes   string  `json:"mes"`
	Valor float64 `json:"valor"`
}

// ItensEstoqueBaixo: quantidade_atual ≤ estoque_minimo. Todo item abaixo do
// mínimo aparece sempre na lista.
func ItensEstoqueBaixo(itens []models.Item) []models.Item {
	baixo := make([]models.Item, 0)
	for _, it := range itens {
		if it.QuantidadeAtual <= it.EstoqueMinimo {
			baixo = append(baixo, it)
		}
	}
	return baixo
}

// CustoDaSaida: quantidade × preço unitário da PRIMEIRA entrada com o mesmo
// item. Não é FIFO nem custo médio; sem entrada correspondente o custo é
// zero.
func CustoDaSaida(s *models.Saida, entradas []models.Entrada) decimal.Decimal {
	for i := range entradas {
		if entradas[i].ItemID == s.ItemID {
			return decimal.NewFromFloat(s.Quantidade).Mul(entradas[i].PrecoUnitario)
		}
	}
	return decimal.Zero
}

// CustoDoMes soma o custo das saídas do mês informado. O filtro olha apenas
// o número do mês, em qualquer ano.
func CustoDoMes(saidas []models.Saida, entradas []models.Entrada, mes time.Month) float64 {
	total := decimal.Zero
	for i := range saidas {
		if saidas[i].DataSaida.Month() != mes {
			continue
		}
		total = total.Add(CustoDaSaida(&saidas[i], entradas))
	}
	f, _ := total.Float64()
	return f
}

// TotalSaidasDoMes soma as quantidades retiradas no mês informado.
func TotalSaidasDoMes(saidas []models.Saida, mes time.Month) float64 {
	var total float64
	for i := range saidas {
		if saidas[i].DataSaida.Month() == mes {
			total += saidas[i].Quantidade
		}
	}
	return total
}

func agruparCusto(saidas []models.Saida, entradas []models.Entrada, mes time.Month, chave func(*models.Saida) string) []ConsumoGrupo {
	acc := make(map[string]decimal.Decimal)
	for i := range saidas {
		if saidas[i].DataSaida.Month() != mes {
			continue
		}
		k := chave(&saidas[i])
		acc[k] = acc[k].Add(CustoDaSaida(&saidas[i], entradas))
	}

	grupos := make([]ConsumoGrupo, 0, len(acc))
	for nome, valor := range acc {
		f, _ := valor.Float64()
		grupos = append(grupos, ConsumoGrupo{Nome: nome, Valor: f})
	}
	sort.Slice(grupos, func(i, j int) bool {
		if grupos[i].Valor != grupos[j].Valor {
			return grupos[i].Valor > grupos[j].Valor
		}
		return grupos[i].Nome < grupos[j].Nome // desempate estável
	})
	return grupos
}

// ConsumoPorSetor: custo do mês agrupado por setor, decrescente por valor.
func ConsumoPorSetor(saidas []models.Saida, entradas []models.Entrada, mes time.Month) []ConsumoGrupo {
	return agruparCusto(saidas, entradas, mes, func(s *models.Saida) string { return s.Setor })
}

// ConsumoPorUnidade: custo do mês agrupado por unidade de destino.
func ConsumoPorUnidade(saidas []models.Saida, entradas []models.Entrada, mes time.Month) []ConsumoGrupo {
	return agruparCusto(saidas, entradas, mes, func(s *models.Saida) string { return s.Unidade })
}

// SerieMensal monta a série dos últimos n meses terminando em ref, com o
// rótulo abreviado pt-BR do mês.
func SerieMensal(saidas []models.Saida, entradas []models.Entrada, ref time.Time, n int) []PontoMensal {
	serie := make([]PontoMensal, 0, n)
	for i := n - 1; i >= 0; i-- {
		mes := ref.AddDate(0, -i, 0).Month()
		serie = append(serie, PontoMensal{
			Mes:   mesesAbrev[int(mes)-1],
			Valor: CustoDoMes(saidas, entradas, mes),
		})
	}
	return serie
}

// MesAnterior: mês anterior no calendário, com dezembro antes de janeiro.
// Aritmética sobre o número do mês; AddDate normalizaria os dias 29-31 após
// um mês mais curto e devolveria o próprio mês.
func MesAnterior(m time.Month) time.Month {
	if m == time.January {
		return time.December
	}
	return m - 1
}

// CalcPercentChange: variação percentual entre o valor atual e o anterior.
// Casos especiais: (0,0) → 0; anterior zero com atual não-zero → 100.
func CalcPercentChange(atual, anterior float64) float64 {
	if anterior == 0 {
		if atual == 0 {
			return 0
		}
		return 100
	}
	diff := atual - anterior
	if anterior < 0 {
		anterior = -anterior
	}
	return (diff / anterior) * 100
}
