package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pokerun/leaderboard/internal/models"
)

// TokenIssuer is the fixed issuer claim; tokens minted by anything else fail
// validation.
const TokenIssuer = "leaderboard-api"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 bearer token with subject=username, the numeric
// user id as the "id" claim and a fixed expiry interval.
func GenerateToken(user *models.User, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    TokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// ValidateToken fails closed: a malformed, tampered, foreign-issuer or expired
// token (or an empty string) always comes back as ErrInvalidToken.
func ValidateToken(tokenString, secretKey string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
