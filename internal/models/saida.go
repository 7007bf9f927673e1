package models

import "time"

// Unidades de destino aceitas numa saída (lista fixa do formulário).
var UnidadesSaida = []string{
	"Bandeirantes",
	"Vitorino",
	"São Francisco",
	"Manoel Honório",
	"ASTRANSP",
	"Tráfego",
	"Externo",
}

func UnidadeSaidaValida(u string) bool {
	for _, v := range UnidadesSaida {
		if v == u {
			return true
		}
	}
	return false
}

// Saida: registro de retirada de material. Mesma propriedade da Entrada:
// excluir a saída não devolve a quantidade ao item.
type Saida struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	ItemID             uint      `gorm:"index;not null" json:"item_id"`
	ItemNome           string    `gorm:"size:100" json:"item_nome"`
	Quantidade         float64   `gorm:"not null" json:"quantidade"`
	FuncionarioID      string    `gorm:"size:30;index" json:"funcionario_id"` // matrícula
	FuncionarioNome    string    `gorm:"size:100" json:"funcionario_nome"`
	Setor              string    `gorm:"size:60" json:"setor"`
	Unidade            string    `gorm:"size:60;not null" json:"unidade"`
	ResponsavelEntrega string    `gorm:"size:100;not null" json:"responsavel_entrega"`
	DataSaida          time.Time `gorm:"index;not null" json:"data_saida"`
	Observacoes        string    `gorm:"size:500" json:"observacoes"`
	CreatedAt          time.Time `json:"created_at"`
}
