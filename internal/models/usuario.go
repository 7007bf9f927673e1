package models

import "time"

type Cargo string

const (
	CargoAdmin       Cargo = "admin"
	CargoEstoquista  Cargo = "estoquista"
	CargoFuncionario Cargo = "funcionario"
)

// CargoValido: apenas os três cargos conhecidos podem ser gravados
func CargoValido(c Cargo) bool {
	switch c {
	case CargoAdmin, CargoEstoquista, CargoFuncionario:
		return true
	}
	return false
}

type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Matricula string    `gorm:"size:30;uniqueIndex;not null" json:"matricula"`
	Nome      string    `gorm:"size:100;not null" json:"nome"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Telefone  string    `gorm:"size:30" json:"telefone"`
	Setor     string    `gorm:"size:60" json:"setor"`
	Unidade   string    `gorm:"size:60" json:"unidade"`
	Cargo     Cargo     `gorm:"size:20;not null" json:"cargo"`
	SenhaHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
