package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub-server/config"
	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/utils"
)

// PaymentService owns order initiation, payment processing and refund
// eligibility for bookings.
type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// Initiate returns the order descriptor shown in the payment UI. Nothing
// is persisted; calling it again just redisplays the order.
func (s *PaymentService) Initiate(userID, bookingID uint) (*models.PaymentOrderResponse, error) {
	booking, err := s.findOwnedBooking(userID, bookingID)
	if err != nil {
		return nil, err
	}

	return &models.PaymentOrderResponse{
		OrderID:      "ORD-" + uuid.NewString(),
		BookingID:    booking.ID,
		Amount:       booking.TotalAmount,
		Currency:     config.AppConfig.Payment.Currency,
		ProviderName: booking.Provider.User.FullName,
		CategoryName: booking.Category.Name,
		ScheduledAt:  booking.ScheduledAt,
	}, nil
}

// Process charges the booking through the gateway and persists the
// outcome. At most one SUCCESS payment can ever exist per booking: a
// second attempt after success fails Conflict, while a FAILED attempt is
// overwritten in place on retry. The retry write is a compare-and-set on
// the status observed at the start of the attempt, so of two concurrent
// retries only one settles the booking and the other gets Conflict. Raw
// card number and CVV are reduced to last-4 plus network before anything
// touches the store.
func (s *PaymentService) Process(userID uint, req models.ProcessPaymentRequest) (*models.PaymentResponse, error) {
	method := models.PaymentMethod(req.Method)
	if err := validateMethodFields(method, &req); err != nil {
		return nil, err
	}

	booking, err := s.findOwnedBooking(userID, req.BookingID)
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		found := true
		if err := tx.Where("booking_id = ?", booking.ID).First(&existing).Error; err != nil {
			if !database.IsNotFound(err) {
				return err
			}
			found = false
		}
		if found && existing.Status == models.PaymentStatusSuccess {
			return fmt.Errorf("booking %d already paid: %w", booking.ID, ErrConflict)
		}

		result := s.gateway.Charge(ChargeRequest{
			Amount:     booking.TotalAmount,
			Method:     method,
			UpiID:      req.UpiID,
			CardNumber: req.CardNumber,
			BankName:   req.BankName,
		})

		payment = models.Payment{
			BookingID:       booking.ID,
			TransactionID:   "TXN-" + uuid.NewString(),
			Amount:          booking.TotalAmount,
			Method:          method,
			UpiID:           req.UpiID,
			BankName:        req.BankName,
			GatewayResponse: result.Message,
		}
		if method == models.PaymentMethodCard {
			payment.CardLast4 = req.CardNumber[len(req.CardNumber)-4:]
			payment.CardNetwork = req.CardNetwork
		}
		if result.Approved {
			now := time.Now()
			payment.Status = models.PaymentStatusSuccess
			payment.PaidAt = &now
		} else {
			payment.Status = models.PaymentStatusFailed
		}

		if found {
			// Compare-and-set on the status we read. A concurrent writer
			// that already settled this booking wins; we report Conflict
			// rather than overwriting its outcome.
			res := tx.Model(&models.Payment{}).
				Where("id = ? AND status = ?", existing.ID, existing.Status).
				Updates(map[string]interface{}{
					"transaction_id":   payment.TransactionID,
					"amount":           payment.Amount,
					"status":           payment.Status,
					"method":           payment.Method,
					"upi_id":           payment.UpiID,
					"card_last4":       payment.CardLast4,
					"card_network":     payment.CardNetwork,
					"bank_name":        payment.BankName,
					"gateway_response": payment.GatewayResponse,
					"paid_at":          payment.PaidAt,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("payment for booking %d changed concurrently: %w", booking.ID, ErrConflict)
			}
			payment.ID = existing.ID
			payment.CreatedAt = existing.CreatedAt
			return nil
		}
		if err := tx.Create(&payment).Error; err != nil {
			// Backstop for two concurrent first attempts on one booking.
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("booking %d already has a payment: %w", booking.ID, ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("payment processed",
		zap.Uint("booking_id", booking.ID),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("status", string(payment.Status)))

	message := "Payment successful"
	if payment.Status == models.PaymentStatusFailed {
		message = payment.GatewayResponse
	}
	return &models.PaymentResponse{
		TransactionID:  payment.TransactionID,
		BookingID:      booking.ID,
		Amount:         payment.Amount,
		Status:         payment.Status,
		Method:         payment.Method,
		RefundEligible: payment.RefundEligible,
		PaidAt:         payment.PaidAt,
		Message:        message,
	}, nil
}

// GetStatus returns the payment state for a booking the caller owns, or
// the NOT_PAID sentinel when no payment record exists yet.
func (s *PaymentService) GetStatus(userID, bookingID uint) (*models.PaymentResponse, error) {
	var booking models.Booking
	if err := s.db.First(&booking, bookingID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %d belongs to another customer: %w", bookingID, ErrNotAuthorized)
	}

	var payment models.Payment
	if err := s.db.Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		if database.IsNotFound(err) {
			return &models.PaymentResponse{
				BookingID: bookingID,
				Status:    models.PaymentStatusNotPaid,
			}, nil
		}
		return nil, err
	}

	return &models.PaymentResponse{
		TransactionID:  payment.TransactionID,
		BookingID:      payment.BookingID,
		Amount:         payment.Amount,
		Status:         payment.Status,
		Method:         payment.Method,
		RefundEligible: payment.RefundEligible,
		PaidAt:         payment.PaidAt,
	}, nil
}

// MarkRefundEligible flags a booking's successful payment as a refund
// candidate. Registered as a booking-cancellation hook so it runs inside
// the cancelling transaction.
func (s *PaymentService) MarkRefundEligible(tx *gorm.DB, bookingID uint) error {
	return tx.Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, models.PaymentStatusSuccess).
		Update("refund_eligible", true).Error
}

// findOwnedBooking loads a booking with its payment-relevant associations
// and hides bookings the caller does not own behind NotFound.
func (s *PaymentService) findOwnedBooking(userID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.
		Preload("Provider").
		Preload("Provider.User").
		Preload("Category").
		First(&booking, bookingID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return &booking, nil
}

func validateMethodFields(method models.PaymentMethod, req *models.ProcessPaymentRequest) error {
	switch method {
	case models.PaymentMethodUPI:
		if !strings.Contains(req.UpiID, "@") {
			return fmt.Errorf("a valid UPI ID is required: %w", ErrInvalidOperation)
		}
	case models.PaymentMethodCard:
		digits := strings.ReplaceAll(req.CardNumber, " ", "")
		if len(digits) < 12 || len(digits) > 19 {
			return fmt.Errorf("a valid card number is required: %w", ErrInvalidOperation)
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return fmt.Errorf("a valid card number is required: %w", ErrInvalidOperation)
			}
		}
		if len(req.CardCvv) < 3 || len(req.CardCvv) > 4 {
			return fmt.Errorf("a valid card CVV is required: %w", ErrInvalidOperation)
		}
		req.CardNumber = digits
	case models.PaymentMethodNetBanking:
		if strings.TrimSpace(req.BankName) == "" {
			return fmt.Errorf("a bank name is required: %w", ErrInvalidOperation)
		}
	case models.PaymentMethodWallet:
		// No extra fields.
	default:
		return fmt.Errorf("unsupported payment method %q: %w", method, ErrInvalidOperation)
	}
	return nil
}
