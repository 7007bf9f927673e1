package employee_test

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

	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/employee"
	"almoxarifado-backend/internal/models"
)

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

	app := fiber.New()
	app.Get("/funcionarios", employee.ListFuncionariosHandler())
	app.Get("/funcionarios/:matricula", employee.GetFuncionarioHandler())
	app.Post("/funcionarios", employee.CreateFuncionarioHandler())
	app.Patch("/funcionarios/:matricula/ativo", employee.SetAtivoHandler())
	return app
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

// Fluxo usado pelo formulário de saída: matrícula desconhecida devolve 404,
// o cadastro avulso resolve e a consulta seguinte encontra o funcionário.
func TestFluxoConsultaCadastroConsulta(t *testing.T) {
	c := qt.New(t)
	app := setupApp(t)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/funcionarios/777", nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusNotFound)

	res, err = app.Test(jsonReq(http.MethodPost, "/funcionarios", fiber.Map{
		"matricula": "777",
		"nome":      "Antônio Pereira",
		"setor":     "Tráfego",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusCreated)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/funcionarios/777", nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusOK)

	var f models.Funcionario
	decodeBody(t, res, &f)
	c.Assert(f.Nome, qt.Equals, "Antônio Pereira")
	c.Assert(f.Setor, qt.Equals, "Tráfego")
	c.Assert(f.Ativo, qt.IsTrue)
}

func TestCreateFuncionarioCamposObrigatorios(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name string
		body fiber.Map
	}{
		{name: "sem matrícula", body: fiber.Map{"nome": "Antônio", "setor": "Tráfego"}},
		{name: "sem nome", body: fiber.Map{"matricula": "777", "setor": "Tráfego"}},
		{name: "sem setor", body: fiber.Map{"matricula": "777", "nome": "Antônio"}},
		{name: "só espaços", body: fiber.Map{"matricula": "  ", "nome": "Antônio", "setor": "Tráfego"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			res, err := app.Test(jsonReq(http.MethodPost, "/funcionarios", tt.body), -1)
			c.Assert(err, qt.IsNil)
			c.Assert(res.StatusCode, qt.Equals, http.StatusBadRequest)
		})
	}
}

func TestCreateFuncionarioMatriculaDuplicada(t *testing.T) {
	c := qt.New(t)
	app := setupApp(t)

	res, err := app.Test(jsonReq(http.MethodPost, "/funcionarios", fiber.Map{
		"matricula": "777", "nome": "Antônio Pereira", "setor": "Tráfego",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusCreated)

	res, err = app.Test(jsonReq(http.MethodPost, "/funcionarios", fiber.Map{
		"matricula": "777", "nome": "Outro Nome", "setor": "Oficina",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusConflict)
}

func TestSetAtivo(t *testing.T) {
	c := qt.New(t)
	app := setupApp(t)

	res, err := app.Test(jsonReq(http.MethodPost, "/funcionarios", fiber.Map{
		"matricula": "777", "nome": "Antônio Pereira", "setor": "Tráfego",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusCreated)

	res, err = app.Test(jsonReq(http.MethodPatch, "/funcionarios/777/ativo", fiber.Map{"ativo": false}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusOK)

	var f models.Funcionario
	decodeBody(t, res, &f)
	c.Assert(f.Ativo, qt.IsFalse)

	var noBanco models.Funcionario
	c.Assert(database.DB.Where("matricula = ?", "777").First(&noBanco).Error, qt.IsNil)
	c.Assert(noBanco.Ativo, qt.IsFalse)
}
