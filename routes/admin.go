package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterAdminRoutes registers the admin management routes
func RegisterAdminRoutes(router *gin.RouterGroup, bookingSvc *services.BookingService) {
	router.GET("/stats", getAdminStats)
	router.GET("/providers", listAllProviders)
	router.PATCH("/providers/:id/approve", approveProvider)
	router.PATCH("/providers/:id/reject", rejectProvider)
	router.PATCH("/users/:id/toggle-status", toggleUserStatus)
	router.GET("/bookings", getAllBookings(bookingSvc))
	router.POST("/categories", createCategory)
	router.PATCH("/categories/:id/toggle", toggleCategory)
}

func getAdminStats(c *gin.Context) {
	var totalUsers, totalProviders, pendingApprovals int64
	var totalBookings, activeBookings, completedBookings int64

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&totalUsers, database.DB.Model(&models.User{})},
		{&totalProviders, database.DB.Model(&models.ServiceProvider{})},
		{&pendingApprovals, database.DB.Model(&models.ServiceProvider{}).
			Where("approval_status = ?", models.ApprovalPending)},
		{&totalBookings, database.DB.Model(&models.Booking{})},
		{&activeBookings, database.DB.Model(&models.Booking{}).
			Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusInProgress})},
		{&completedBookings, database.DB.Model(&models.Booking{}).
			Where("status = ?", models.BookingStatusCompleted)},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			respondError(c, err, "Failed to compute stats")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_users":        totalUsers,
			"total_providers":    totalProviders,
			"pending_approvals":  pendingApprovals,
			"total_bookings":     totalBookings,
			"active_bookings":    activeBookings,
			"completed_bookings": completedBookings,
		},
	})
}

func listAllProviders(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.ServiceProvider{}).
		Preload("User").
		Preload("Categories")

	if status := c.Query("approval_status"); status != "" {
		query = query.Where("approval_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, err, "Failed to count providers")
		return
	}

	var providers []models.ServiceProvider
	if err := query.Order("created_at DESC").
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

func approveProvider(c *gin.Context) {
	setProviderApproval(c, models.ApprovalApproved)
}

func rejectProvider(c *gin.Context) {
	setProviderApproval(c, models.ApprovalRejected)
}

// setProviderApproval moves a provider out of PENDING; approval also
// activates the linked user account so the provider can sign in normally.
func setProviderApproval(c *gin.Context, status models.ApprovalStatus) {
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

	if provider.ApprovalStatus != models.ApprovalPending {
		respondError(c, services.ErrInvalidState, "Provider approval has already been decided")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&provider).Update("approval_status", status).Error; err != nil {
			return err
		}
		if status == models.ApprovalApproved {
			return tx.Model(&models.User{}).
				Where("id = ?", provider.UserID).
				Update("status", models.AccountActive).Error
		}
		return nil
	})
	if err != nil {
		respondError(c, err, "Failed to update provider approval")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Provider approval updated successfully",
		"approval_status": status,
	})
}

func toggleUserStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "User not found")
			return
		}
		respondError(c, err, "Failed to fetch user")
		return
	}

	if user.IsAdmin() {
		respondError(c, services.ErrNotAuthorized, "Admin accounts cannot be suspended")
		return
	}

	newStatus := models.AccountSuspended
	if user.Status == models.AccountSuspended {
		newStatus = models.AccountActive
	}

	if err := database.DB.Model(&user).Update("status", newStatus).Error; err != nil {
		respondError(c, err, "Failed to update user status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"status":  newStatus,
	})
}

func getAllBookings(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePagination(c)

		bookings, total, err := bookingSvc.GetAllBookings(page, limit)
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

func createCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	category := models.ServiceCategory{
		Name:        req.Name,
		Description: req.Description,
		IconName:    req.IconName,
		Type:        models.CategoryType(req.Type),
		IsActive:    true,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		if database.IsUniqueViolation(err) {
			respondError(c, services.ErrConflict, "A category with this name already exists")
			return
		}
		respondError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

func toggleCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var category models.ServiceCategory
	if err := database.DB.First(&category, id).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Category not found")
			return
		}
		respondError(c, err, "Failed to fetch category")
		return
	}

	if err := database.DB.Model(&category).Update("is_active", !category.IsActive).Error; err != nil {
		respondError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Category updated successfully",
		"is_active": !category.IsActive,
	})
}
