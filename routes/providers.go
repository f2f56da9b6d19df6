package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"servicehub-server/database"
	"servicehub-server/middleware"
	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterPublicProviderRoutes registers the public provider catalog
func RegisterPublicProviderRoutes(router *gin.RouterGroup) {
	router.GET("/public", listPublicProviders)
	router.GET("/public/:id", getPublicProvider)
	router.GET("/public/:id/reviews", getProviderReviews)
	router.GET("/city/:city", getProvidersByCity)
}

// RegisterProviderPanelRoutes registers routes for the provider's own panel
func RegisterProviderPanelRoutes(router *gin.RouterGroup, bookingSvc *services.BookingService) {
	router.GET("/profile", getMyProviderProfile)
	router.PUT("/profile", updateMyProviderProfile)
	router.GET("/bookings", getProviderBookings(bookingSvc))
	router.PATCH("/bookings/:id/status", updateBookingStatusAsProvider(bookingSvc))
}

func listPublicProviders(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.ServiceProvider{}).
		Preload("User").
		Preload("Categories").
		Where("approval_status = ? AND is_available = ?", models.ApprovalApproved, true)

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Joins("JOIN provider_service_categories psc ON psc.service_provider_id = service_providers.id").
			Where("psc.service_category_id = ?", categoryID)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Joins("JOIN users ON users.id = service_providers.user_id").
			Where("users.full_name ILIKE ? OR service_providers.description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Failed to count providers")
		return
	}

	var providers []models.ServiceProvider
	if err := query.Order("avg_rating DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&providers).Error; err != nil {
		respondError(c, err, "Failed to fetch providers")
		return
	}

	responses := make([]models.ProviderResponse, 0, len(providers))
	for i := range providers {
		responses = append(responses, models.NewProviderResponse(&providers[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func getPublicProvider(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var provider models.ServiceProvider
	if err := database.DB.Preload("User").Preload("Categories").
		Where("approval_status = ?", models.ApprovalApproved).
		First(&provider, id).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Provider not found")
			return
		}
		respondError(c, err, "Failed to fetch provider")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": models.NewProviderResponse(&provider),
	})
}

func getProviderReviews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var provider models.ServiceProvider
	if err := database.DB.First(&provider, id).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Provider not found")
			return
		}
		respondError(c, err, "Failed to fetch provider")
		return
	}

	page, limit := parsePagination(c)
	reviews, total, err := services.GetProviderReviews(database.DB, provider.ID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to fetch reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func getProvidersByCity(c *gin.Context) {
	city := c.Param("city")
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.ServiceProvider{}).
		Preload("User").
		Preload("Categories").
		Where("approval_status = ? AND is_available = ? AND city ILIKE ?",
			models.ApprovalApproved, true, city)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Failed to count providers")
		return
	}

	var providers []models.ServiceProvider
	if err := query.Order("avg_rating DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&providers).Error; err != nil {
		respondError(c, err, "Failed to fetch providers")
		return
	}

	responses := make([]models.ProviderResponse, 0, len(providers))
	for i := range providers {
		responses = append(responses, models.NewProviderResponse(&providers[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": responses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func getMyProviderProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var provider models.ServiceProvider
	if err := database.DB.Preload("User").Preload("Categories").
		Where("user_id = ?", userID).First(&provider).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Provider profile not found")
			return
		}
		respondError(c, err, "Failed to fetch provider profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider": models.NewProviderResponse(&provider),
	})
}

func updateMyProviderProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var provider models.ServiceProvider
	if err := database.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Provider profile not found")
			return
		}
		respondError(c, err, "Failed to fetch provider profile")
		return
	}

	if req.Description != nil {
		provider.Description = *req.Description
	}
	if req.City != nil {
		provider.City = *req.City
	}
	if req.ExperienceYears != nil {
		provider.ExperienceYears = *req.ExperienceYears
	}
	if req.HourlyRate != nil {
		provider.HourlyRate = *req.HourlyRate
	}
	if req.CredentialInfo != nil {
		provider.CredentialInfo = *req.CredentialInfo
	}
	if req.IsAvailable != nil {
		provider.IsAvailable = *req.IsAvailable
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&provider).Error; err != nil {
			return err
		}
		if req.CategoryIDs != nil {
			var categories []models.ServiceCategory
			if err := tx.Where("id IN ? AND is_active = ?", req.CategoryIDs, true).Find(&categories).Error; err != nil {
				return err
			}
			if len(categories) != len(req.CategoryIDs) {
				return services.ErrInvalidOperation
			}
			if err := tx.Model(&provider).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "Failed to update provider profile")
		return
	}

	database.DB.Preload("User").Preload("Categories").First(&provider, provider.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Provider profile updated successfully",
		"provider": models.NewProviderResponse(&provider),
	})
}

func getProviderBookings(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		page, limit := parsePagination(c)

		bookings, total, err := bookingSvc.GetProviderBookings(userID, page, limit)
		if err != nil {
			respondError(c, err, "Failed to fetch bookings")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"bookings": bookings,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

func updateBookingStatusAsProvider(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var req models.UpdateBookingStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		target, valid := services.ParseBookingStatus(req.Status)
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid status",
				"message": "Unknown booking status: " + req.Status,
			})
			return
		}

		user := middleware.CurrentUser(c)
		booking, err := bookingSvc.UpdateStatus(bookingID, target, user.ID, true)
		if err != nil {
			respondError(c, err, "Failed to update booking status")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking status updated successfully",
			"booking": booking,
		})
	}
}
