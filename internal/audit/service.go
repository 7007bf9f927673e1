package audit

import (
	"encoding/json"
	"fmt"

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
)

type LogOptions struct {
	UsuarioID   uint
	UsuarioNome string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
}

// WriteLog grava a trilha da operação. O snapshot anterior vira JSON; campo
// jsonb não aceita string vazia, então o default é o literal "null".
func WriteLog(opts LogOptions) error {
	beforeStr := "null"
	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}

	entry := models.AuditLog{
		UsuarioID:   opts.UsuarioID,
		UsuarioNome: opts.UsuarioNome,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("gravar audit log: %w", err)
	}
	return nil
}
