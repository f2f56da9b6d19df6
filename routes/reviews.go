package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterReviewRoutes registers the customer review routes
func RegisterReviewRoutes(router *gin.RouterGroup, bookingSvc *services.BookingService) {
	router.POST("", submitReview(bookingSvc))
}

func submitReview(bookingSvc *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		userID := c.GetUint("user_id")
		review, err := bookingSvc.SubmitReview(userID, req)
		if err != nil {
			respondError(c, err, "Failed to submit review")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Review submitted successfully",
			"review":  review,
		})
	}
}
