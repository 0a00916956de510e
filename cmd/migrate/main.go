// Command migrate applies the database schema explicitly. Production
// deployments skip AutoMigrate on connect, so schema changes are rolled out
// with this command.
package main

import (
	"log"

	"murmur/internal/config"
	"murmur/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("schema applied")
}
