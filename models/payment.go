package models

import (
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"

	// PaymentStatusNotPaid is a response-only sentinel for bookings with
	// no payment record. It is never persisted.
	PaymentStatusNotPaid PaymentStatus = "NOT_PAID"
)

type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCard       PaymentMethod = "CARD"
	PaymentMethodNetBanking PaymentMethod = "NET_BANKING"
	PaymentMethodWallet     PaymentMethod = "WALLET"
)

// Payment is the single payment record for a booking. The unique index on
// BookingID enforces at most one row per booking; a FAILED attempt is
// overwritten in place on retry. Card data is stored redacted only.
type Payment struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	BookingID     uint          `json:"booking_id" gorm:"uniqueIndex;not null"`
	TransactionID string        `json:"transaction_id" gorm:"size:64;uniqueIndex;not null"`
	Amount        float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';check:status IN ('PENDING','SUCCESS','FAILED','REFUNDED')"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(20);not null;check:method IN ('UPI','CARD','NET_BANKING','WALLET')"`

	// Method-specific, redacted fields
	UpiID       string `json:"upi_id,omitempty" gorm:"size:100"`
	CardLast4   string `json:"card_last4,omitempty" gorm:"size:4"`
	CardNetwork string `json:"card_network,omitempty" gorm:"size:20"`
	BankName    string `json:"bank_name,omitempty" gorm:"size:100"`

	GatewayResponse string     `json:"-" gorm:"size:255"`
	RefundEligible  bool       `json:"refund_eligible" gorm:"not null;default:false"`
	PaidAt          *time.Time `json:"paid_at"`
	RefundedAt      *time.Time `json:"refunded_at"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentOrderResponse is returned by initiate before the payment UI is shown
type PaymentOrderResponse struct {
	OrderID      string    `json:"order_id"`
	BookingID    uint      `json:"booking_id"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	ProviderName string    `json:"provider_name"`
	CategoryName string    `json:"category_name"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

// ProcessPaymentRequest carries the method-specific details the customer
// submitted. CardNumber and CardCvv are write-only: validated, reduced to
// the redacted form and discarded before anything is persisted or logged.
type ProcessPaymentRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Method    string `json:"method" binding:"required,oneof=UPI CARD NET_BANKING WALLET"`

	// UPI
	UpiID string `json:"upi_id"`

	// Card
	CardNumber     string `json:"card_number"`
	CardNetwork    string `json:"card_network"`
	CardExpiry     string `json:"card_expiry"`
	CardCvv        string `json:"card_cvv"`
	CardHolderName string `json:"card_holder_name"`

	// Net banking
	BankName string `json:"bank_name"`
}

// PaymentResponse is the result projection for process and status lookups
type PaymentResponse struct {
	TransactionID  string        `json:"transaction_id,omitempty"`
	BookingID      uint          `json:"booking_id"`
	Amount         float64       `json:"amount,omitempty"`
	Status         PaymentStatus `json:"status"`
	Method         PaymentMethod `json:"method,omitempty"`
	RefundEligible bool          `json:"refund_eligible"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	Message        string        `json:"message,omitempty"`
}
