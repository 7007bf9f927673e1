package models

import "time"

// Funcionario: diretório leve consultado na saída para resolver matrícula em
// nome/setor. Independente de Usuario: funcionário não precisa ter login.
type Funcionario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Matricula string    `gorm:"size:30;uniqueIndex;not null" json:"matricula"`
	Nome      string    `gorm:"size:100;not null" json:"nome"`
	Setor     string    `gorm:"size:60;not null" json:"setor"`
	Ativo     bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
