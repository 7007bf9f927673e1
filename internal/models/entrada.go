package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entrada: registro imutável de compra/reposição. Excluir uma entrada NÃO
// desfaz o incremento aplicado ao item (ledger é histórico, não comanda o
// saldo retroativamente).
type Entrada struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ItemID        uint            `gorm:"index;not null" json:"item_id"`
	ItemNome      string          `gorm:"size:100" json:"item_nome"` // denormalizado
	Quantidade    float64         `gorm:"not null" json:"quantidade"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"preco_unitario"`
	PrecoTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"preco_total"`
	NotaFiscal    string          `gorm:"size:60" json:"nota_fiscal"`
	DataEntrada   time.Time       `gorm:"index;not null" json:"data_entrada"`
	Responsavel   string          `gorm:"size:100;not null" json:"responsavel"`
	Observacoes   string          `gorm:"size:500" json:"observacoes"`
	CreatedAt     time.Time       `json:"created_at"`
}
