package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
	"servicehub-server/utils"
)

// RegisterUserRequest is the customer registration payload
type RegisterUserRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"required,max=20"`
}

// RegisterProviderRequest is the provider registration payload
type RegisterProviderRequest struct {
	FullName        string  `json:"full_name" binding:"required,max=255"`
	Email           string  `json:"email" binding:"required,email"`
	Password        string  `json:"password" binding:"required,min=8"`
	Phone           string  `json:"phone" binding:"required,max=20"`
	City            string  `json:"city" binding:"required,max=100"`
	Description     string  `json:"description"`
	ExperienceYears int     `json:"experience_years" binding:"min=0"`
	HourlyRate      float64 `json:"hourly_rate" binding:"required,gt=0"`
	CredentialInfo  string  `json:"credential_info" binding:"required"`
	CategoryIDs     []uint  `json:"category_ids" binding:"required,min=1"`
}

// LoginRequest is the sign in payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse is returned on successful authentication
type AuthResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	User         models.User `json:"user"`
}

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup, jwtSvc *services.JWTService) {
	router.POST("/register/user", registerUser(jwtSvc))
	router.POST("/register/provider", registerProvider(jwtSvc))
	router.POST("/login", login(jwtSvc))
	router.POST("/refresh", refreshToken(jwtSvc))
	router.POST("/logout", logout(jwtSvc))
}

func registerUser(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		var existing models.User
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Email already registered",
				"message": "An account with this email already exists",
			})
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Password hashing failed",
				"message": "Failed to process password",
			})
			return
		}

		user := models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hashed,
			Phone:        req.Phone,
			Role:         models.RoleUser,
			Status:       models.AccountActive,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			if database.IsUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Email already registered",
					"message": "An account with this email already exists",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Registration failed",
				"message": "Failed to create user account",
			})
			return
		}

		issueTokens(c, jwtSvc, &user, http.StatusCreated)
	}
}

func registerProvider(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterProviderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		var existing models.User
		if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Email already registered",
				"message": "An account with this email already exists",
			})
			return
		}

		var categories []models.ServiceCategory
		if err := database.DB.Where("id IN ? AND is_active = ?", req.CategoryIDs, true).Find(&categories).Error; err != nil || len(categories) != len(req.CategoryIDs) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid categories",
				"message": "One or more selected service categories do not exist",
			})
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Password hashing failed",
				"message": "Failed to process password",
			})
			return
		}

		user := models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PasswordHash: hashed,
			Phone:        req.Phone,
			Role:         models.RoleProvider,
			Status:       models.AccountPendingApproval,
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			provider := models.ServiceProvider{
				UserID:          user.ID,
				Description:     req.Description,
				City:            req.City,
				ExperienceYears: req.ExperienceYears,
				HourlyRate:      req.HourlyRate,
				CredentialInfo:  req.CredentialInfo,
				ApprovalStatus:  models.ApprovalPending,
				Categories:      categories,
			}
			return tx.Create(&provider).Error
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{
					"error":   "Email already registered",
					"message": "An account with this email already exists",
				})
				return
			}
			utils.GetLogger().Error("provider registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Registration failed",
				"message": "Failed to create provider account",
			})
			return
		}

		issueTokens(c, jwtSvc, &user, http.StatusCreated)
	}
}

func login(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		var user models.User
		if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		if user.IsSuspended() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Account suspended",
				"message": "Your account has been suspended, contact support",
			})
			return
		}

		issueTokens(c, jwtSvc, &user, http.StatusOK)
	}
}

func refreshToken(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		pair, err := jwtSvc.RefreshAccessToken(req.RefreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid refresh token",
				"message": "The refresh token is invalid or expired",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":         pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"expires_in":    pair.ExpiresIn,
		})
	}
}

func logout(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		if err := jwtSvc.RevokeRefreshToken(req.RefreshToken); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid refresh token",
				"message": "The refresh token is invalid or already revoked",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}

func issueTokens(c *gin.Context, jwtSvc *services.JWTService, user *models.User, status int) {
	pair, err := jwtSvc.GenerateTokenPair(user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		utils.GetLogger().Error("token generation failed", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Token generation failed",
			"message": "Failed to generate authentication tokens",
		})
		return
	}

	c.JSON(status, AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         *user,
	})
}
