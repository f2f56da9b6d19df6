package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterAddressRoutes registers address management routes
func RegisterAddressRoutes(router *gin.RouterGroup) {
	router.GET("", getAddresses)
	router.POST("", createAddress)
	router.PUT("/:id", updateAddress)
	router.DELETE("/:id", deleteAddress)
	router.POST("/:id/set-default", setDefaultAddress)
}

func getAddresses(c *gin.Context) {
	userID := c.GetUint("user_id")

	var addresses []models.Address
	if err := database.DB.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		respondError(c, err, "Failed to fetch addresses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addresses,
	})
}

func createAddress(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	address := models.Address{
		UserID:    userID,
		Label:     req.Label,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsDefault: req.IsDefault,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		respondError(c, err, "Failed to create address")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Address created successfully",
		"address": address,
	})
}

func updateAddress(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"message": err.Error(),
		})
		return
	}

	var address models.Address
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Address not found")
			return
		}
		respondError(c, err, "Failed to fetch address")
		return
	}

	address.Label = req.Label
	address.Street = req.Street
	address.City = req.City
	address.State = req.State
	address.Pincode = req.Pincode
	address.Country = req.Country
	address.Latitude = req.Latitude
	address.Longitude = req.Longitude

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
			address.IsDefault = true
		}
		return tx.Save(&address).Error
	})
	if err != nil {
		respondError(c, err, "Failed to update address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address updated successfully",
		"address": address,
	})
}

func deleteAddress(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result := database.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if result.Error != nil {
		respondError(c, result.Error, "Failed to delete address")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, services.ErrNotFound, "Address not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Address deleted successfully",
	})
}

func setDefaultAddress(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var address models.Address
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		if database.IsNotFound(err) {
			respondError(c, services.ErrNotFound, "Address not found")
			return
		}
		respondError(c, err, "Failed to fetch address")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ?", userID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&address).Update("is_default", true).Error
	})
	if err != nil {
		respondError(c, err, "Failed to set default address")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Default address updated successfully",
	})
}
