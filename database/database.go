package database

import (
	"log"
	"os"

	"coachplan-app/internal/domain/billing"
	"coachplan-app/internal/domain/clients"
	"coachplan-app/internal/domain/plans"
	"coachplan-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},

		// billing
		&billing.WebhookEvent{},

		// coaching
		&clients.Client{},
		&clients.ProgramDoc{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	log.Println("Connected and migrated successfully")
}
