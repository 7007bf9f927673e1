package database

import (
	"log"

	"almoxarifado-backend/internal/config"
	"almoxarifado-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco estabelecida. Migração concluída.")
}

// Migrate roda o AutoMigrate do conjunto completo de modelos. Separado do
// Init para os testes reaproveitarem com outro dialector.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Usuario{},
		&models.Item{},
		&models.Entrada{},
		&models.Saida{},
		&models.Solicitacao{},
		&models.Funcionario{},
		&models.AuditLog{},
	)
}
