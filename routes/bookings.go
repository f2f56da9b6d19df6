package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterBookingRoutes registers the customer booking routes
func RegisterBookingRoutes(router *gin.RouterGroup, bookingSvc *services.BookingService) {
	router.POST("", createBooking(bookingSvc))
	router.GET("", getUserBookings(bookingSvc))
	router.PATCH("/:id/cancel", cancelBooking(bookingSvc))
}

func createBooking(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		userID := c.GetUint("user_id")
		booking, err := bookingSvc.Create(userID, req)
		if err != nil {
			respondError(c, err, "Failed to create booking")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

func getUserBookings(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		page, limit := parsePagination(c)

		bookings, total, err := bookingSvc.GetUserBookings(userID, page, limit)
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

func cancelBooking(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		userID := c.GetUint("user_id")
		booking, err := bookingSvc.UpdateStatus(bookingID, models.BookingStatusCancelled, userID, false)
		if err != nil {
			respondError(c, err, "Failed to cancel booking")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking cancelled successfully",
			"booking": booking,
		})
	}
}
