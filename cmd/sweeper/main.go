package main

import (
	"log"
	"time"

	"github.com/pokerun/leaderboard/internal/config"
	"github.com/pokerun/leaderboard/internal/database"
	"github.com/pokerun/leaderboard/internal/repository"
)

// Deletes password reset tokens past their expiry. Meant to be run from cron
// or a container scheduler; the API process never does this itself.
func main() {
	cfg := config.Load()
	database.Connect(cfg)

	resetRepo := repository.NewResetTokenRepository(database.DB)

	deleted, err := resetRepo.DeleteExpired(time.Now())
	if err != nil {
		log.Fatal("Failed to sweep expired reset tokens:", err)
	}

	log.Printf("Swept %d expired reset tokens", deleted)
}
