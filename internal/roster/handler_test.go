package roster_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/roster"
)

func setupApp(t *testing.T) (*fiber.App, *models.Usuario) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite em memória: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	database.DB = db

	admin := criarUsuario(t, "1", "Administradora", models.CargoAdmin)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, admin.ID)
		c.Locals(auth.CtxMatriculaKey, admin.Matricula)
		c.Locals(auth.CtxCargoKey, admin.Cargo)
		return c.Next()
	})
	app.Get("/usuarios", roster.ListUsuariosHandler())
	app.Put("/usuarios/:id/cargo", roster.UpdateCargoHandler())
	app.Delete("/usuarios/:id", roster.DeleteUsuarioHandler())
	return app, admin
}

func criarUsuario(t *testing.T, matricula, nome string, cargo models.Cargo) *models.Usuario {
	t.Helper()
	u := models.Usuario{
		Matricula: matricula,
		Nome:      nome,
		Email:     matricula + "@empresa.com",
		Cargo:     cargo,
		SenhaHash: "irrelevante",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("criar usuário: %v", err)
	}
	return &u
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

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}

func TestListUsuariosOrdenaPorNome(t *testing.T) {
	c := qt.New(t)
	app, _ := setupApp(t)

	criarUsuario(t, "1002", "Zilda", models.CargoFuncionario)
	criarUsuario(t, "1003", "Breno", models.CargoEstoquista)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/usuarios", nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusOK)

	var usuarios []roster.UsuarioResponse
	decodeBody(t, res, &usuarios)

	c.Assert(usuarios, qt.HasLen, 3)
	c.Assert(usuarios[0].Nome, qt.Equals, "Administradora")
	c.Assert(usuarios[1].Nome, qt.Equals, "Breno")
	c.Assert(usuarios[2].Nome, qt.Equals, "Zilda")
}

func TestUpdateCargo(t *testing.T) {
	c := qt.New(t)
	app, _ := setupApp(t)

	alvo := criarUsuario(t, "1002", "José da Silva", models.CargoFuncionario)

	res, err := app.Test(jsonReq(http.MethodPut, "/usuarios/"+itoa(alvo.ID)+"/cargo", fiber.Map{
		"cargo": "estoquista",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusOK)

	var u roster.UsuarioResponse
	decodeBody(t, res, &u)
	c.Assert(u.Cargo, qt.Equals, models.CargoEstoquista)

	var noBanco models.Usuario
	c.Assert(database.DB.First(&noBanco, alvo.ID).Error, qt.IsNil)
	c.Assert(noBanco.Cargo, qt.Equals, models.CargoEstoquista)
}

func TestUpdateCargoInvalido(t *testing.T) {
	c := qt.New(t)
	app, _ := setupApp(t)

	alvo := criarUsuario(t, "1002", "José da Silva", models.CargoFuncionario)

	res, err := app.Test(jsonReq(http.MethodPut, "/usuarios/"+itoa(alvo.ID)+"/cargo", fiber.Map{
		"cargo": "gerente",
	}), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusBadRequest)

	var noBanco models.Usuario
	c.Assert(database.DB.First(&noBanco, alvo.ID).Error, qt.IsNil)
	c.Assert(noBanco.Cargo, qt.Equals, models.CargoFuncionario)
}

func TestDeleteUsuarioGravaAuditoria(t *testing.T) {
	c := qt.New(t)
	app, _ := setupApp(t)

	alvo := criarUsuario(t, "1002", "José da Silva", models.CargoFuncionario)

	res, err := app.Test(jsonReq(http.MethodDelete, "/usuarios/"+itoa(alvo.ID), nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusOK)

	var restante int64
	database.DB.Model(&models.Usuario{}).Where("id = ?", alvo.ID).Count(&restante)
	c.Assert(restante, qt.Equals, int64(0))

	var logs []models.AuditLog
	c.Assert(database.DB.Where("entity_type = ?", "usuario").Find(&logs).Error, qt.IsNil)
	c.Assert(logs, qt.HasLen, 1)
	c.Assert(logs[0].EntityID, qt.Equals, alvo.ID)
	c.Assert(logs[0].Action, qt.Equals, models.AuditActionDelete)
}

func TestDeleteProprioUsuarioBloqueado(t *testing.T) {
	c := qt.New(t)
	app, admin := setupApp(t)

	res, err := app.Test(jsonReq(http.MethodDelete, "/usuarios/"+itoa(admin.ID), nil), -1)
	c.Assert(err, qt.IsNil)
	c.Assert(res.StatusCode, qt.Equals, http.StatusBadRequest)

	var restante int64
	database.DB.Model(&models.Usuario{}).Where("id = ?", admin.ID).Count(&restante)
	c.Assert(restante, qt.Equals, int64(1))
}
