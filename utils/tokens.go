package utils

import (
	"os"
	"strconv"
	"time"

	"homestay-server/models"
	"homestay-server/storage"

	"github.com/kataras/iris/v12/middleware/jwt"
)

const (
	accessTokenLifetime  = 24 * time.Hour
	refreshTokenLifetime = 30 * 24 * time.Hour
)

type AccessToken struct {
	ID   uint   `json:"ID"`
	Role string `json:"role"`
}

// CreateTokenPair signs an access/refresh pair and persists the refresh token
// so it can be revoked, and so deleting the user revokes every session.
func CreateTokenPair(user *models.User) (*jwt.TokenPair, error) {
	accessTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), accessTokenLifetime)
	refreshTokenSigner := jwt.NewSigner(jwt.HS256, os.Getenv("REFRESH_TOKEN_SECRET"), refreshTokenLifetime)

	accessToken, err := accessTokenSigner.Sign(AccessToken{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}

	refreshClaims := jwt.Claims{Subject: strconv.FormatUint(uint64(user.ID), 10)}
	refreshToken, err := refreshTokenSigner.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	record := models.RefreshToken{UserID: user.ID, Token: string(refreshToken)}
	if err := storage.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	var tokenPair jwt.TokenPair
	tokenPair.AccessToken = accessToken
	tokenPair.RefreshToken = refreshToken
	return &tokenPair, nil
}
