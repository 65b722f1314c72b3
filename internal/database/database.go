package database

import (
	"log"

	"github.com/Vamsee295/telegram-bot/internal/config"
	"github.com/Vamsee295/telegram-bot/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database %s: %v", cfg.DBPath, err)
	}

	log.Printf("database opened: %s", cfg.DBPath)
	return db
}

func AutoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Member{},
		&models.Deadline{},
		&models.Completion{},
		&models.ScheduledMessage{},
	)
	if err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
}
