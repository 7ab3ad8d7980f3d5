package main

import (
	"log"

	"taskvault-backend/shared/config"
	"taskvault-backend/shared/database"
	"taskvault-backend/shared/database/stores"
)

// Removes expired blacklist entries and refresh tokens. The request path
// never deletes these on its own, so this is meant to run from cron.
func main() {
	log.Println("🗑️ Purging expired tokens...")

	config.LoadConfig()

	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	db := database.GetDB()

	blacklisted, err := stores.NewBlacklistStore(db, nil).PurgeExpired()
	if err != nil {
		log.Fatalf("Failed to purge blacklisted tokens: %v", err)
	}

	refresh, err := stores.NewRefreshTokenStore(db).PurgeExpired()
	if err != nil {
		log.Fatalf("Failed to purge refresh tokens: %v", err)
	}

	log.Printf("✅ Purge completed (%d blacklisted tokens, %d refresh tokens removed)", blacklisted, refresh)
}
