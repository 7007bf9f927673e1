package inventory_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/inventory"
	"almoxarifado-backend/internal/models"
)

// Sessão fixa de estoquista: as rotas de movimentação já passaram pela guarda
// de cargo quando chegam ao handler.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite em memória: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	database.DB = db

	operador := models.Usuario{
		Matricula: "500",
		Nome:      "Operadora do Almoxarifado",
		Email:     "operadora@empresa.com",
		Cargo:     models.CargoEstoquista,
		SenhaHash: "irrelevante",
	}
	if err := db.Create(&operador).Error; err != nil {
		t.Fatalf("criar operador: %v", err)
	}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, operador.ID)
		c.Locals(auth.CtxMatriculaKey, operador.Matricula)
		c.Locals(auth.CtxCargoKey, operador.Cargo)
		return c.Next()
	})

	app.Get("/itens", inventory.ListItensHandler())
	app.Post("/itens", inventory.CreateItemHandler())
	app.Put("/itens/:id", inventory.UpdateItemHandler())
	app.Delete("/itens/:id", inventory.DeleteItemHandler())
	app.Post("/entradas", inventory.CreateEntradaHandler())
	app.Get("/entradas", inventory.ListEntradasHandler())
	app.Delete("/entradas/:id", inventory.DeleteEntradaHandler())
	app.Post("/saidas", inventory.CreateSaidaHandler())
	app.Get("/saidas", inventory.ListSaidasHandler())
	app.Delete("/saidas/:id", inventory.DeleteSaidaHandler())
	return app
}

func criarItem(t *testing.T, item *models.Item) {
	t.Helper()
	if err := database.DB.Create(item).Error; err != nil {
		t.Fatalf("criar item: %v", err)
	}
}

func jsonReq(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, res *http.Response, out any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		t.Fatalf("decodificar resposta: %v", err)
	}
}

func quantidadeDoItem(t *testing.T, id uint) float64 {
	t.Helper()
	var item models.Item
	if err := database.DB.First(&item, id).Error; err != nil {
		t.Fatalf("reler item: %v", err)
	}
	return item.QuantidadeAtual
}

func TestCreateEntradaAtualizaEstoque(t *testing.T) {
	c := qt.New(t)
	app := setupApp(t)

	item := models.Item{Nome: "Luvas", QuantidadeAtual: 5, EstoqueMinimo: 10, Unidade: "un"}
	criarItem(t, &item)

	res, err := app.Test(jsonReq(http.MethodPost, "/entradas", fiber.Map{
		"item_id":        item.ID,
		"quantidade":     20,
		"preco_unitario": 2.5,
		"nota_fiscal":    "NF-123",
		"data_entrada":   "2026-08-10",
		"responsavel":    "Carlos",
	}), -1)

	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusCreated)

	var body struct {
		Entrada  inventory.EntradaResponse `json:"entrada"`
		Mensagem string                    `json:"mensagem"`
	}
	decodeBody(t, res, &body)

	c.Assert(body.Entrada.ItemNome, qt.Equals, "Luvas")
	c.Assert(body.Entrada.PrecoUnitario, qt.Equals, "2.50")
	c.Assert(body.Entrada.PrecoTotal, qt.Equals, "50.00")
	c.Assert(body.Mensagem, qt.Not(qt.Equals), "")

	c.Assert(quantidadeDoItem(t, item.ID), qt.Equals, 25.0)
}

func TestCreateEntradaValidacoes(t *testing.T) {
	app := setupApp(t)

	item := models.Item{Nome: "Luvas", QuantidadeAtual: 5}
	criarItem(t, &item)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{
			name: "sem item",
			body: fiber.Map{"quantidade": 1, "preco_unitario": 1, "data_entrada": "2026-08-10", "responsavel": "Carlos"},
		},
		{
			name: "quantidade zero",
			body: fiber.Map{"item_id": item.ID, "quantidade": 0, "preco_unitario": 1, "data_entrada": "2026-08-10", "responsavel": "Carlos"},
		},
		{
			name: "preço negativo",
			body: fiber.Map{"item_id": item.ID, "quantidade": 1, "preco_unitario": -1, "data_entrada": "2026-08-10", "responsavel": "Carlos"},
		},
		{
			name: "sem responsável",
			body: fiber.Map{"item_id": item.ID, "quantidade": 1, "preco_unitario": 1, "data_entrada": "2026-08-10"},
		},
		{
			name: "data fora do formato",
			body: fiber.Map{"item_id": item.ID, "quantidade": 1, "preco_unitario": 1, "data_entrada": "10/08/2026", "responsavel": "Carlos"},
		},
		{
			name: "item inexistente",
			body: fiber.Map{"item_id": 9999, "quantidade": 1, "preco_unitario": 1, "data_entrada": "2026-08-10", "responsavel": "Carlos"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			res, err := app.Test(jsonReq(http.MethodPost, "/entradas", tt.body), -1)
			c.Assert(err, qt.IsNil)
			c.Assert(res.StatusCode, qt.Equals, http.StatusBadRequest)

			// Nenhuma validação rejeitada pode ter mexido no saldo
			c.Assert(quantidadeDoItem(t, item.ID), qt.Equals, 5.0)
		})
	}
}

func TestDeleteEntradaNaoReverteSaldo(t *testing.T) {
	c := qt.New(t)
	app := setupApp(t)

	item := models.Item{Nome: "Luvas", QuantidadeAtual: 0}
	criarItem(t, &item)

	res, err := app.Test(jsonReq(http.MethodPost, "/entradas", fiber.Map{
		"item_id":        item.ID,
		"quantidade":     10,
		"preco_unitario": 1.0,
		"data_entrada":   "2026-08-10",
		"responsavel":    "Carlos",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusCreated)

	var body struct {
		Entrada inventory.EntradaResponse `json:"entrada"`
	}
	decodeBody(t, res, &body)
	c.Assert(quantidadeDoItem(t, item.ID), qt.Equals, 10.0)

	del, err := app.Test(httptest.NewRequest(http.MethodDelete, "/entradas/"+itoa(body.Entrada.ID), nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(del.StatusCode, qt.Equals, http.StatusOK)

	// O saldo fica como está; a exclusão vira registro de auditoria
	c.Assert(quantidadeDoItem(t, item.ID), qt.Equals, 10.0)

	var logs int64
	database.DB.Model(&models.AuditLog{}).Where("entity_type = ?", "entrada").Count(&logs)
	c.Assert(logs, qt.Equals, int64(1))
}
