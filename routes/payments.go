package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"servicehub-server/models"
	"servicehub-server/services"
)

// RegisterPaymentRoutes registers the customer payment routes
func RegisterPaymentRoutes(router *gin.RouterGroup, paymentSvc *services.PaymentService) {
	router.POST("/initiate/:bookingId", initiatePayment(paymentSvc))
	router.POST("/process", processPayment(paymentSvc))
	router.GET("/booking/:bookingId", getPaymentStatus(paymentSvc))
}

func initiatePayment(paymentSvc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		userID := c.GetUint("user_id")
		order, err := paymentSvc.Initiate(userID, bookingID)
		if err != nil {
			respondError(c, err, "Failed to initiate payment")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order": order,
		})
	}
}

func processPayment(paymentSvc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProcessPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"message": err.Error(),
			})
			return
		}

		userID := c.GetUint("user_id")
		payment, err := paymentSvc.Process(userID, req)
		if err != nil {
			respondError(c, err, "Failed to process payment")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment": payment,
		})
	}
}

func getPaymentStatus(paymentSvc *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseIDParam(c, "bookingId")
		if !ok {
			return
		}

		userID := c.GetUint("user_id")
		payment, err := paymentSvc.GetStatus(userID, bookingID)
		if err != nil {
			respondError(c, err, "Failed to fetch payment status")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payment": payment,
		})
	}
}
