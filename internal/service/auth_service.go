package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/repository"
	"github.com/pokerun/leaderboard/internal/utils"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6

	resetTokenTTL = time.Hour

	// Same message whether or not the email exists, so the endpoint cannot be
	// used to enumerate accounts.
	ResetRequestedMessage = "If the email exists, a recovery link will be sent"
	PasswordChangedMessage = "Password changed successfully"
	PasswordResetMessage   = "Password reset successfully"
)

type AuthService struct {
	userRepo      *repository.UserRepository
	resetRepo     *repository.ResetTokenRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(
	userRepo *repository.UserRepository,
	resetRepo *repository.ResetTokenRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		resetRepo:     resetRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a CUSTOMER account. Username is checked for duplicates
// before email so a dual conflict always reports the username.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if len(username) < minUsernameLen {
		return nil, validationErr("username", "must be at least 3 characters")
	}
	if len(password) < minPasswordLen {
		return nil, validationErr("password", "must be at least 6 characters")
	}

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Username already exists", zap.String("username", username))
		return nil, ErrUsernameTaken
	}

	existing, err = s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists", zap.String("email", email))
		return nil, ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleCustomer,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
	)

	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown username and
// wrong password collapse into the same error.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("username", username))
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

func (s *AuthService) ChangePassword(user *models.User, currentPassword, newPassword string) (string, error) {
	valid, err := utils.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !valid {
		logger.Log.Warn("Change password failed: wrong current password",
			zap.Uint("user_id", user.ID),
		)
		return "", ErrWrongPassword
	}

	if len(newPassword) < minPasswordLen {
		return "", validationErr("newPassword", "must be at least 6 characters")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.SaveUser(user); err != nil {
		logger.Log.Error("Failed to persist password change",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return "", err
	}

	logger.Log.Info("Password changed", zap.Uint("user_id", user.ID))
	return PasswordChangedMessage, nil
}

// RequestPasswordReset issues a fresh single-use token with a one hour expiry,
// replacing any outstanding token for the user. The returned message is the
// same whether or not the email exists.
func (s *AuthService) RequestPasswordReset(email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to look up email for reset",
			zap.String("email", email),
			zap.Error(err),
		)
		return "", err
	}
	if user == nil {
		logger.Log.Info("Password reset requested for unknown email")
		return ResetRequestedMessage, nil
	}

	if err := s.resetRepo.DeleteByUserID(user.ID); err != nil {
		return "", err
	}

	resetToken := &models.PasswordResetToken{
		Token:      uuid.New().String(),
		UserID:     user.ID,
		ExpiryDate: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.CreateToken(resetToken); err != nil {
		logger.Log.Error("Failed to store reset token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return "", err
	}

	logger.Log.Info("Password reset token issued", zap.Uint("user_id", user.ID))
	return ResetRequestedMessage, nil
}

func (s *AuthService) ResetPassword(token, newPassword string) (string, error) {
	reset, err := s.resetRepo.GetByToken(token)
	if err != nil {
		return "", err
	}
	if reset == nil {
		logger.Log.Warn("Reset attempted with unknown token")
		return "", ErrResetTokenNotFound
	}

	if reset.Used {
		logger.Log.Warn("Reset attempted with consumed token", zap.Uint("user_id", reset.UserID))
		return "", ErrResetTokenUsed
	}
	if reset.IsExpired() {
		logger.Log.Warn("Reset attempted with expired token", zap.Uint("user_id", reset.UserID))
		return "", ErrResetTokenExpired
	}

	if len(newPassword) < minPasswordLen {
		return "", validationErr("newPassword", "must be at least 6 characters")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	user := reset.User
	user.PasswordHash = hashed
	if err := s.userRepo.SaveUser(&user); err != nil {
		logger.Log.Error("Failed to persist reset password",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return "", err
	}

	// Consumed tokens are kept as an audit trail; the sweeper removes them
	// once expired.
	reset.Used = true
	if err := s.resetRepo.SaveToken(reset); err != nil {
		return "", err
	}

	logger.Log.Info("Password reset completed", zap.Uint("user_id", user.ID))
	return PasswordResetMessage, nil
}

// GetAllUsers backs the admin user listing.
func (s *AuthService) GetAllUsers() ([]*models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch all users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// DeleteUser hard-deletes a user and cascades to their runs and tokens.
func (s *AuthService) DeleteUser(id uint) error {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.DeleteUserWithRuns(id); err != nil {
		logger.Log.Error("Failed to delete user",
			zap.Uint("user_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("User deleted", zap.Uint("user_id", id))
	return nil
}
