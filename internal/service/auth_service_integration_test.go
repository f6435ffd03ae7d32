package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/repository"
	"github.com/pokerun/leaderboard/internal/service"
	"github.com/pokerun/leaderboard/internal/testutil"
	"github.com/pokerun/leaderboard/internal/utils"
	"github.com/pokerun/leaderboard/pkg/logger"
)

const testJWTSecret = "integration-test-secret"

type AuthServiceIntegrationTestSuite struct {
	suite.Suite
	testDB      *testutil.TestDatabase
	userRepo    *repository.UserRepository
	resetRepo   *repository.ResetTokenRepository
	authService *service.AuthService
}

func (s *AuthServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	s.resetRepo = repository.NewResetTokenRepository(s.testDB.DB)
	s.authService = service.NewAuthService(s.userRepo, s.resetRepo, testJWTSecret, time.Hour)
}

func (s *AuthServiceIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

func (s *AuthServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
}

func (s *AuthServiceIntegrationTestSuite) registerDefault() *models.User {
	user, err := s.authService.Register("ashketchum", "ash@example.com", "Pikachu123")
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_Success() {
	user := s.registerDefault()

	assert.NotZero(s.T(), user.ID)
	assert.Equal(s.T(), "ashketchum", user.Username)
	assert.Equal(s.T(), "ash@example.com", user.Email)
	assert.Equal(s.T(), models.RoleCustomer, user.Role)
	assert.NotEqual(s.T(), "Pikachu123", user.PasswordHash, "Password must be stored hashed")
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_ShortUsername() {
	_, err := s.authService.Register("ab", "ab@example.com", "Pikachu123")

	var vErr *service.ValidationError
	s.Require().ErrorAs(err, &vErr)
	assert.Equal(s.T(), "username", vErr.Field)
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_ShortPassword() {
	_, err := s.authService.Register("ashketchum", "ash@example.com", "short")

	var vErr *service.ValidationError
	s.Require().ErrorAs(err, &vErr)
	assert.Equal(s.T(), "password", vErr.Field)
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_DuplicateUsername() {
	s.registerDefault()

	_, err := s.authService.Register("ashketchum", "other@example.com", "Pikachu123")

	assert.ErrorIs(s.T(), err, service.ErrUsernameTaken)
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_DuplicateEmail() {
	s.registerDefault()

	_, err := s.authService.Register("gary", "ash@example.com", "Pikachu123")

	assert.ErrorIs(s.T(), err, service.ErrEmailTaken)
}

func (s *AuthServiceIntegrationTestSuite) TestRegister_DualConflictReportsUsername() {
	s.registerDefault()

	// Both username and email collide; the username check runs first.
	_, err := s.authService.Register("ashketchum", "ash@example.com", "Pikachu123")

	assert.ErrorIs(s.T(), err, service.ErrUsernameTaken)
}

func (s *AuthServiceIntegrationTestSuite) TestLogin_Success() {
	registered := s.registerDefault()

	user, token, err := s.authService.Login("ashketchum", "Pikachu123")

	s.Require().NoError(err)
	assert.Equal(s.T(), registered.ID, user.ID)
	s.Require().NotEmpty(token)

	claims, err := utils.ValidateToken(token, testJWTSecret)
	s.Require().NoError(err)
	assert.Equal(s.T(), registered.ID, claims.UserID)
	assert.Equal(s.T(), "ashketchum", claims.Subject)
}

func (s *AuthServiceIntegrationTestSuite) TestLogin_UnknownUser() {
	_, _, err := s.authService.Login("nobody", "Pikachu123")

	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)
}

func (s *AuthServiceIntegrationTestSuite) TestLogin_WrongPassword() {
	s.registerDefault()

	_, _, err := s.authService.Login("ashketchum", "WrongPassword")

	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)
}

func (s *AuthServiceIntegrationTestSuite) TestChangePassword_Success() {
	user := s.registerDefault()

	msg, err := s.authService.ChangePassword(user, "Pikachu123", "Raichu456")

	s.Require().NoError(err)
	assert.Equal(s.T(), service.PasswordChangedMessage, msg)

	_, _, err = s.authService.Login("ashketchum", "Raichu456")
	assert.NoError(s.T(), err)

	_, _, err = s.authService.Login("ashketchum", "Pikachu123")
	assert.ErrorIs(s.T(), err, service.ErrInvalidCredentials)
}

func (s *AuthServiceIntegrationTestSuite) TestChangePassword_WrongCurrent() {
	user := s.registerDefault()

	_, err := s.authService.ChangePassword(user, "WrongPassword", "Raichu456")

	assert.ErrorIs(s.T(), err, service.ErrWrongPassword)
}

func (s *AuthServiceIntegrationTestSuite) TestRequestPasswordReset_UnknownEmail() {
	msg, err := s.authService.RequestPasswordReset("nobody@example.com")

	s.Require().NoError(err)
	assert.Equal(s.T(), service.ResetRequestedMessage, msg)

	var count int64
	s.testDB.DB.Model(&models.PasswordResetToken{}).Count(&count)
	assert.Zero(s.T(), count, "No token should be issued for an unknown email")
}

func (s *AuthServiceIntegrationTestSuite) TestRequestPasswordReset_IssuesToken() {
	user := s.registerDefault()

	msg, err := s.authService.RequestPasswordReset("ash@example.com")

	s.Require().NoError(err)
	assert.Equal(s.T(), service.ResetRequestedMessage, msg)

	var tokens []models.PasswordResetToken
	s.testDB.DB.Where("user_id = ?", user.ID).Find(&tokens)
	s.Require().Len(tokens, 1)
	assert.NotEmpty(s.T(), tokens[0].Token)
	assert.False(s.T(), tokens[0].Used)
	assert.True(s.T(), tokens[0].ExpiryDate.After(time.Now()))
}

func (s *AuthServiceIntegrationTestSuite) TestRequestPasswordReset_ReplacesOutstandingToken() {
	user := s.registerDefault()

	_, err := s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)
	_, err = s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)

	var count int64
	s.testDB.DB.Model(&models.PasswordResetToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(s.T(), 1, count, "A second request replaces the first token")
}

func (s *AuthServiceIntegrationTestSuite) issuedToken(userID uint) string {
	var token models.PasswordResetToken
	s.Require().NoError(s.testDB.DB.Where("user_id = ?", userID).First(&token).Error)
	return token.Token
}

func (s *AuthServiceIntegrationTestSuite) TestResetPassword_Success() {
	user := s.registerDefault()
	_, err := s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)

	msg, err := s.authService.ResetPassword(s.issuedToken(user.ID), "Raichu456")

	s.Require().NoError(err)
	assert.Equal(s.T(), service.PasswordResetMessage, msg)

	_, _, err = s.authService.Login("ashketchum", "Raichu456")
	assert.NoError(s.T(), err)
}

func (s *AuthServiceIntegrationTestSuite) TestResetPassword_TokenSingleUse() {
	user := s.registerDefault()
	_, err := s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)
	token := s.issuedToken(user.ID)

	_, err = s.authService.ResetPassword(token, "Raichu456")
	s.Require().NoError(err)

	_, err = s.authService.ResetPassword(token, "Snorlax789")
	assert.ErrorIs(s.T(), err, service.ErrResetTokenUsed)
}

func (s *AuthServiceIntegrationTestSuite) TestResetPassword_ExpiredToken() {
	user := s.registerDefault()
	_, err := s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)
	token := s.issuedToken(user.ID)

	s.testDB.DB.Model(&models.PasswordResetToken{}).
		Where("user_id = ?", user.ID).
		Update("expiry_date", time.Now().Add(-time.Minute))

	_, err = s.authService.ResetPassword(token, "Raichu456")
	assert.ErrorIs(s.T(), err, service.ErrResetTokenExpired)
}

func (s *AuthServiceIntegrationTestSuite) TestResetPassword_UnknownToken() {
	_, err := s.authService.ResetPassword("no-such-token", "Raichu456")

	assert.ErrorIs(s.T(), err, service.ErrResetTokenNotFound)
}

func (s *AuthServiceIntegrationTestSuite) TestGetAllUsers() {
	s.registerDefault()
	_, err := s.authService.Register("garyoak", "gary@example.com", "Eevee12345")
	s.Require().NoError(err)

	users, err := s.authService.GetAllUsers()

	s.Require().NoError(err)
	assert.Len(s.T(), users, 2)
}

func (s *AuthServiceIntegrationTestSuite) TestDeleteUser_CascadesRunsAndTokens() {
	user := s.registerDefault()

	run := testutil.CreateTestRun(user.ID, "Pokemon Red", 150, 151, []string{"Pikachu"})
	s.Require().NoError(s.testDB.DB.Create(run).Error)
	_, err := s.authService.RequestPasswordReset("ash@example.com")
	s.Require().NoError(err)

	err = s.authService.DeleteUser(user.ID)
	s.Require().NoError(err)

	var userCount, runCount, tokenCount int64
	s.testDB.DB.Model(&models.User{}).Count(&userCount)
	s.testDB.DB.Model(&models.Run{}).Count(&runCount)
	s.testDB.DB.Model(&models.PasswordResetToken{}).Count(&tokenCount)
	assert.Zero(s.T(), userCount)
	assert.Zero(s.T(), runCount)
	assert.Zero(s.T(), tokenCount)
}

func (s *AuthServiceIntegrationTestSuite) TestDeleteUser_NotFound() {
	err := s.authService.DeleteUser(9999)

	assert.ErrorIs(s.T(), err, service.ErrUserNotFound)
}

func TestAuthServiceIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceIntegrationTestSuite))
}
