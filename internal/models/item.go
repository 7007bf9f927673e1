package models

import "time"

// Item: snapshot do estoque atual. A quantidade só muda via entrada
// (incremento) ou saída (decremento, nunca abaixo de zero).
type Item struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Codigo          string    `gorm:"size:50;index" json:"codigo"`
	Nome            string    `gorm:"size:100;not null;unique" json:"nome"`
	Categoria       string    `gorm:"size:60" json:"categoria"`
	QuantidadeAtual float64   `gorm:"not null;default:0" json:"quantidade_atual"`
	EstoqueMinimo   float64   `gorm:"not null;default:0" json:"estoque_minimo"`
	Unidade         string    `gorm:"size:20" json:"unidade"` // kg, un, cx etc.
	Local           string    `gorm:"size:60" json:"local"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
