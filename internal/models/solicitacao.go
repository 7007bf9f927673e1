package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SolicitacaoStatus string

const (
	StatusPendente SolicitacaoStatus = "pendente"
	StatusSeparado SolicitacaoStatus = "separado"
	StatusEnviado  SolicitacaoStatus = "enviado"
)

// DeriveStatus: função pura sobre o par (separado, enviado). Enviado tem
// precedência mesmo sem separado, combinação permitida pelo fluxo.
func DeriveStatus(separado, enviado bool) SolicitacaoStatus {
	if enviado {
		return StatusEnviado
	}
	if separado {
		return StatusSeparado
	}
	return StatusPendente
}

type SolicitacaoItem struct {
	ItemID     uint    `json:"item_id"`
	ItemNome   string  `json:"item_nome"`
	Quantidade float64 `json:"quantidade"`
}

// SolicitacaoItens é gravado como um único valor JSON na linha da
// solicitação. O Scan é defensivo: conteúdo malformado vira lista vazia em
// vez de derrubar a leitura. Toda solicitação nasce com ao menos um item,
// então lista vazia na leitura sinaliza registro inconsistente.
type SolicitacaoItens []SolicitacaoItem

func (s SolicitacaoItens) Value() (driver.Value, error) {
	if s == nil {
		s = SolicitacaoItens{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serializar itens da solicitação: %w", err)
	}
	return string(b), nil
}

func (s *SolicitacaoItens) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SolicitacaoItens{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		*s = SolicitacaoItens{}
		return nil
	}

	var out SolicitacaoItens
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		*s = SolicitacaoItens{}
		return nil
	}
	*s = out
	return nil
}

type Solicitacao struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	DataPedido          time.Time        `gorm:"index;not null" json:"data_pedido"`
	Matricula           string           `gorm:"size:30;index;not null" json:"matricula"`
	Nome                string           `gorm:"size:100;not null" json:"nome"`
	Telefone            string           `gorm:"size:30" json:"telefone"`
	Setor               string           `gorm:"size:60" json:"setor"`
	Unidade             string           `gorm:"size:60" json:"unidade"`
	Itens               SolicitacaoItens `gorm:"type:jsonb;not null" json:"itens"`
	Separado            bool             `gorm:"not null;default:false" json:"separado"`
	Enviado             bool             `gorm:"not null;default:false" json:"enviado"`
	Urgente             bool             `gorm:"not null;default:false" json:"urgente"`
	ResponsavelRetirada string           `gorm:"size:100" json:"responsavel_retirada"`
	Observacoes         string           `gorm:"size:500" json:"observacoes"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

func (s *Solicitacao) Status() SolicitacaoStatus {
	return DeriveStatus(s.Separado, s.Enviado)
}
