package database

import (
	"fmt"
	"log"

	"direct-messenger/config"
	"direct-messenger/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Postgres *gorm.DB

// PostgresConnect opens the database and migrates the schema. Failing to
// reach postgres is fatal.
func PostgresConnect() *store.Store {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.Config("POSTGRES_HOST"),
		config.Config("POSTGRES_PORT"),
		config.Config("POSTGRES_USER"),
		config.Config("POSTGRES_PASSWORD"),
		config.Config("POSTGRES_DB"),
	)

	var err error
	Postgres, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	log.Printf("connection opened to Postgres")

	s := store.New(Postgres)
	if err := s.Migrate(); err != nil {
		log.Fatalf("failed to migrate postgres: %v", err)
	}
	log.Printf("Postgres database migrated")

	return s
}
