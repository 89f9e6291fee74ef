package main

import (
	"github.com/formadoc/FormaSign/internal/config"
	"github.com/formadoc/FormaSign/internal/database"
	"github.com/formadoc/FormaSign/internal/env"
	"github.com/formadoc/FormaSign/internal/model"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database configuration: %+v", cfg.DB)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	migrateErr := db.AutoMigrate(
		&model.SignatureRecord{},
		&model.Document{},
		&model.TrainingParticipant{},
		&model.OrganizationSetting{},
	)
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}
}
