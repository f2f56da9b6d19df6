package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/utils"
)

// JWTService issues short-lived access tokens and manages the persisted
// refresh tokens backing them.
type JWTService struct {
	db *gorm.DB
}

// NewJWTService creates a new JWT service
func NewJWTService(db *gorm.DB) *JWTService {
	return &JWTService{db: db}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens for a user
func (js *JWTService) GenerateTokenPair(user *models.User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(config.AppConfig.JWT.ExpiryHours) * 3600,
		TokenType:    "Bearer",
	}, nil
}

// generateRefreshToken creates a random opaque token and persists it
func (js *JWTService) generateRefreshToken(userID uint, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(config.AppConfig.JWT.RefreshExpiryHours) * time.Hour),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := js.db.Create(refreshToken).Error; err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateRefreshToken looks up a refresh token and checks it is usable
func (js *JWTService) ValidateRefreshToken(tokenString string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := js.db.Where("token = ?", tokenString).First(&refreshToken).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("refresh token: %w", ErrInvalidCredentials)
		}
		return nil, err
	}
	if !refreshToken.IsValid() {
		return nil, fmt.Errorf("refresh token revoked or expired: %w", ErrInvalidCredentials)
	}
	return &refreshToken, nil
}

// RefreshAccessToken mints a new access token off a valid refresh token
func (js *JWTService) RefreshAccessToken(refreshTokenString string) (*TokenPair, error) {
	refreshToken, err := js.ValidateRefreshToken(refreshTokenString)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := js.db.First(&user, refreshToken.UserID).Error; err != nil {
		return nil, err
	}
	if user.IsSuspended() {
		return nil, fmt.Errorf("account suspended: %w", ErrNotAuthorized)
	}

	accessToken, err := utils.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(config.AppConfig.JWT.ExpiryHours) * 3600,
		TokenType:    "Bearer",
	}, nil
}

// RevokeRefreshToken revokes a refresh token
func (js *JWTService) RevokeRefreshToken(tokenString string) error {
	res := js.db.Model(&models.RefreshToken{}).
		Where("token = ?", tokenString).
		Update("is_revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("refresh token: %w", ErrNotFound)
	}
	return nil
}

// RevokeAllUserTokens revokes every refresh token a user holds
func (js *JWTService) RevokeAllUserTokens(userID uint) error {
	return js.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true).Error
}

// CleanupExpiredTokens removes expired refresh tokens
func (js *JWTService) CleanupExpiredTokens() error {
	return js.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}
