package main

import (
	"log"
	"strings"

	"almoxarifado-backend/internal/audit"
	"almoxarifado-backend/internal/auth"
	"almoxarifado-backend/internal/config"
	"almoxarifado-backend/internal/dashboard"
	"almoxarifado-backend/internal/database"
	"almoxarifado-backend/internal/employee"
	"almoxarifado-backend/internal/inventory"
	"almoxarifado-backend/internal/models"
	"almoxarifado-backend/internal/realtime"
	"almoxarifado-backend/internal/report"
	"almoxarifado-backend/internal/requisition"
	"almoxarifado-backend/internal/roster"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	go realtime.H.Run()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erro inesperado:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Público
	api.Post("/auth/register", auth.RegisterHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Tudo abaixo exige sessão (sem token → 401, o cliente volta ao login)
	protected := api.Group("", auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/profile", auth.UpdateProfileHandler())
	protected.Put("/auth/password", auth.ChangePasswordHandler())

	// Notificações de mudança (token via query string)
	protected.Get("/ws", realtime.UpgradeMiddleware, realtime.ServeWSHandler())

	// Guardas de cargo aplicadas rota a rota: um grupo sem prefixo
	// contaminaria por ordem de registro tudo que fosse montado depois.
	estoque := auth.RequireRole(models.CargoAdmin, models.CargoEstoquista)
	soAdmin := auth.RequireRole(models.CargoAdmin)

	// Todos os cargos
	protected.Get("/dashboard/resumo", dashboard.ResumoHandler())
	protected.Get("/itens", inventory.ListItensHandler())
	protected.Get("/solicitacoes", requisition.ListSolicitacoesHandler())
	protected.Post("/solicitacoes", requisition.CreateSolicitacaoHandler())
	protected.Delete("/solicitacoes/:id", requisition.DeleteSolicitacaoHandler())

	// Almoxarifado (admin + estoquista)
	protected.Post("/itens", estoque, inventory.CreateItemHandler())
	protected.Put("/itens/:id", estoque, inventory.UpdateItemHandler())
	protected.Delete("/itens/:id", estoque, inventory.DeleteItemHandler())

	protected.Post("/entradas", estoque, inventory.CreateEntradaHandler())
	protected.Get("/entradas", estoque, inventory.ListEntradasHandler())
	protected.Delete("/entradas/:id", estoque, inventory.DeleteEntradaHandler())

	protected.Post("/saidas", estoque, inventory.CreateSaidaHandler())
	protected.Get("/saidas", estoque, inventory.ListSaidasHandler())
	protected.Delete("/saidas/:id", estoque, inventory.DeleteSaidaHandler())

	protected.Get("/funcionarios", estoque, employee.ListFuncionariosHandler())
	protected.Get("/funcionarios/:matricula", estoque, employee.GetFuncionarioHandler())
	protected.Post("/funcionarios", estoque, employee.CreateFuncionarioHandler())
	protected.Patch("/funcionarios/:matricula/ativo", estoque, employee.SetAtivoHandler())

	protected.Patch("/solicitacoes/:id/separado", estoque, requisition.SetSeparadoHandler())
	protected.Patch("/solicitacoes/:id/enviado", estoque, requisition.SetEnviadoHandler())

	protected.Get("/relatorios/painel", estoque, dashboard.PainelHandler())
	protected.Get("/relatorios/movimentacoes", estoque, report.ExportMovimentacoesHandler())

	// Somente admin
	protected.Get("/usuarios", soAdmin, roster.ListUsuariosHandler())
	protected.Put("/usuarios/:id/cargo", soAdmin, roster.UpdateCargoHandler())
	protected.Delete("/usuarios/:id", soAdmin, roster.DeleteUsuarioHandler())
	protected.Get("/audit-logs", soAdmin, audit.ListAuditLogsHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
