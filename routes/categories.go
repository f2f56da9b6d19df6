package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/database"
	"servicehub-server/models"
)

// RegisterCategoryRoutes registers the public category routes
func RegisterCategoryRoutes(router *gin.RouterGroup) {
	router.GET("/categories", getActiveCategories)
}

func getActiveCategories(c *gin.Context) {
	var categories []models.ServiceCategory
	if err := database.DB.Where("is_active = ?", true).
		Order("type, name").
		Find(&categories).Error; err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}
