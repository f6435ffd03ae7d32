package main

import (
	"log"
	"os"

	"github.com/pokerun/leaderboard/internal/config"
	"github.com/pokerun/leaderboard/internal/database"
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/utils"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	var admin models.User
	result := database.DB.Where("email = ?", adminEmail).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		Username:     adminUsername,
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created:", admin.Username)

	if os.Getenv("SEED_DEMO_RUNS") != "true" {
		return
	}

	// A couple of runs so a fresh install has something on the board.
	demo := []models.Run{
		{Game: "Pokemon Red", RunTimeMinutes: 150, PokedexStatus: 151, PokemonTeam: utils.EncodeTeam([]string{"Pikachu", "Charizard"}), UserID: admin.ID},
		{Game: "Pokemon Blue", RunTimeMinutes: 185, PokedexStatus: 120, PokemonTeam: utils.EncodeTeam([]string{"Blastoise", "Snorlax", "Alakazam"}), UserID: admin.ID},
	}
	for i := range demo {
		if err := database.DB.Create(&demo[i]).Error; err != nil {
			log.Fatal("Failed to seed run:", err)
		}
	}
	log.Printf("Seeded %d demo runs", len(demo))
}
