package testutil

import (
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/utils"
)

// CreateTestUser builds a user with a real argon2id hash for password checks.
func CreateTestUser(username, email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}, nil
}

// DefaultTestUser returns a default customer account.
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testuser", "test@example.com", "Test123456", models.RoleCustomer)
}

// DefaultAdminUser returns a default admin account.
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestRun builds a run owned by userID.
func CreateTestRun(userID uint, game string, runTimeMinutes int64, pokedexStatus int, team []string) *models.Run {
	return &models.Run{
		Game:           game,
		RunTimeMinutes: runTimeMinutes,
		PokedexStatus:  pokedexStatus,
		PokemonTeam:    utils.EncodeTeam(team),
		UserID:         userID,
	}
}
