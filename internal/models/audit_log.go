package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditLog: trilha das operações destrutivas. Excluir entrada/saída não
// reverte o saldo do item, então o snapshot anterior fica registrado aqui.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UsuarioID   uint   `json:"usuario_id"`
	UsuarioNome string `gorm:"size:100" json:"usuario_nome"` // denormalizado

	// Ex.: "entrada", "saida", "solicitacao", "usuario"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`

	// Estado antes da operação (JSON); "null" quando não se aplica
	BeforeData string `gorm:"type:jsonb" json:"before_data"`
}
