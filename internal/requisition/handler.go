package requisition

import (
	"log"
	"time"

	"almoxarifado-backend/internal/audit"
	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

type LinhaRequest struct {
	ItemID     uint    `json:"item_id"`
	Quantidade float64 `json:"quantidade"`
}

type CreateSolicitacaoRequest struct {
	Unidade             string         `json:"unidade"`
	Urgente             bool           `json:"urgente"`
	ResponsavelRetirada string         `json:"responsavel_retirada"`
	Observacoes         string         `json:"observacoes"`
	Itens               []LinhaRequest `json:"itens"`
}

type ToggleRequest struct {
	Valor bool `json:"valor"`
}

type SolicitacaoResponse struct {
	ID                  uint                     `json:"id"`
	DataPedido          string                   `json:"data_pedido"`
	Matricula           string                   `json:"matricula"`
	Nome                string                   `json:"nome"`
	Telefone            string                   `json:"telefone"`
	Setor               string                   `json:"setor"`
	Unidade             string                   `json:"unidade"`
	Itens               models.SolicitacaoItens  `json:"itens"`
	ItensInconsistentes bool                     `json:"itens_inconsistentes"`
	Separado            bool                     `json:"separado"`
	Enviado             bool                     `json:"enviado"`
	Status              models.SolicitacaoStatus `json:"status"`
	Urgente             bool                     `json:"urgente"`
	ResponsavelRetirada string                   `json:"responsavel_retirada"`
	Observacoes         string                   `json:"observacoes"`
}

func toResponse(s *models.Solicitacao) SolicitacaoResponse {
	itens := s.Itens
	if itens == nil {
		itens = models.SolicitacaoItens{}
	}
	return SolicitacaoResponse{
		ID:                  s.ID,
		DataPedido:          s.DataPedido.Format("2006-01-02"),
		Matricula:           s.Matricula,
		Nome:                s.Nome,
		Telefone:            s.Telefone,
		Setor:               s.Setor,
		Unidade:             s.Unidade,
		Itens:               itens,
		ItensInconsistentes: len(itens) == 0,
		Separado:            s.Separado,
		Enviado:             s.Enviado,
		Status:              s.Status(),
		Urgente:             s.Urgente,
		ResponsavelRetirada: s.ResponsavelRetirada,
		Observacoes:         s.Observacoes,
	}
}

// POST /api/solicitacoes: identidade do solicitante vem da sessão; as
// linhas são validadas (item existente, quantidade positiva, mínimo uma) e
// gravadas como um único valor JSON na linha da solicitação.
func CreateSolicitacaoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := auth.UsuarioAtual(c)
		if err != nil {
			return err
		}

		var body CreateSolicitacaoRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if len(body.Itens) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Adicione ao menos 1 item.")
		}

		linhas := make(models.SolicitacaoItens, 0, len(body.Itens))
		for _, l := range body.Itens {
			if l.ItemID == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Escolha itens válidos da lista.")
			}
			if l.Quantidade <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Informe quantidade válida.")
			}
			var item models.Item
			if err := database.DB.First(&item, l.ItemID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Escolha itens válidos da lista.")
			}
			linhas = append(linhas, models.SolicitacaoItem{
				ItemID:     item.ID,
				ItemNome:   item.Nome,
				Quantidade: l.Quantidade,
			})
		}

		s := models.Solicitacao{
			DataPedido:          time.Now(),
			Matricula:           u.Matricula,
			Nome:                u.Nome,
			Telefone:            u.Telefone,
			Setor:               u.Setor,
			Unidade:             body.Unidade,
			Itens:               linhas,
			Separado:            false,
			Enviado:             false,
			Urgente:             body.Urgente,
			ResponsavelRetirada: body.ResponsavelRetirada,
			Observacoes:         body.Observacoes,
		}

		if err := database.DB.Create(&s).Error; err != nil {
			log.Println("Erro ao salvar solicitação:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao salvar solicitação.")
		}

		realtime.Notify("solicitacoes", "INSERT")
		return c.Status(fiber.StatusCreated).JSON(toResponse(&s))
	}
}

// GET /api/solicitacoes: cargo funcionario enxerga apenas as próprias
// (filtro por matrícula da sessão); admin e estoquista enxergam todas.
// Um único endpoint cobre a tela do solicitante e a do almoxarifado.
func ListSolicitacoesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cargo, err := auth.CargoFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Solicitacao{})
		if cargo == models.CargoFuncionario {
			matricula, err := auth.MatriculaFromCtx(c)
			if err != nil {
				return err
			}
			dbq = dbq.Where("matricula = ?", matricula)
		}

		var solicitacoes []models.Solicitacao
		if err := dbq.Order("data_pedido desc").Find(&solicitacoes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao buscar solicitações")
		}

		res := make([]SolicitacaoResponse, 0, len(solicitacoes))
		for i := range solicitacoes {
			res = append(res, toResponse(&solicitacoes[i]))
		}
		return c.JSON(res)
	}
}

// setFlagHandler: as duas flags de status são atualizações independentes e
// idempotentes; nenhuma ordem é imposta entre elas.
func setFlagHandler(campo string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		var body ToggleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		var s models.Solicitacao
		if err := database.DB.First(&s, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Solicitação não encontrada")
		}

		if err := database.DB.Model(&s).Update(campo, body.Valor).Error; err != nil {
			log.Println("Erro ao atualizar status da solicitação:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao atualizar status.")
		}

		switch campo {
		case "separado":
			s.Separado = body.Valor
		case "enviado":
			s.Enviado = body.Valor
		}

		realtime.Notify("solicitacoes", "UPDATE")
		return c.JSON(toResponse(&s))
	}
}

// PATCH /api/solicitacoes/:id/separado (admin, estoquista)
func SetSeparadoHandler() fiber.Handler {
	return setFlagHandler("separado")
}

// PATCH /api/solicitacoes/:id/enviado (admin, estoquista)
func SetEnviadoHandler() fiber.Handler {
	return setFlagHandler("enviado")
}

// DELETE /api/solicitacoes/:id: dono ou almoxarifado.
func DeleteSolicitacaoHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}

		cargo, err := auth.CargoFromCtx(c)
		if err != nil {
			return err
		}

		var s models.Solicitacao
		if err := database.DB.First(&s, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Solicitação não encontrada")
		}

		if cargo == models.CargoFuncionario {
			matricula, err := auth.MatriculaFromCtx(c)
			if err != nil {
				return err
			}
			if s.Matricula != matricula {
				return fiber.NewError(fiber.StatusForbidden, "Você só pode excluir as próprias solicitações")
			}
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			log.Println("Erro ao excluir solicitação:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Erro ao excluir solicitação.")
		}

		if u, uerr := auth.UsuarioAtual(c); uerr == nil {
			if err := audit.WriteLog(audit.LogOptions{
				UsuarioID:   u.ID,
				UsuarioNome: u.Nome,
				EntityType:  "solicitacao",
				EntityID:    s.ID,
				Action:      models.AuditActionDelete,
				Description: "Solicitação excluída",
				Before:      s,
			}); err != nil {
				log.Println(err)
			}
		}

		realtime.Notify("solicitacoes", "DELETE")
		return c.JSON(fiber.Map{"mensagem": "Solicitação excluída."})
	}
}
