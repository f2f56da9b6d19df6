package models

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "PENDING"
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusInProgress BookingStatus = "IN_PROGRESS"
	BookingStatusCompleted  BookingStatus = "COMPLETED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
	BookingStatusRejected   BookingStatus = "REJECTED"
)

// Booking is a scheduled engagement between a customer and a provider.
// TotalAmount is snapshotted from the provider's hourly rate at creation
// and is not affected by later rate changes. CredentialsRevealed flips to
// true on the first CONFIRMED transition and never back.
type Booking struct {
	ID                  uint          `json:"id" gorm:"primaryKey"`
	UserID              uint          `json:"user_id" gorm:"not null;index"`
	ProviderID          uint          `json:"provider_id" gorm:"not null;index"`
	CategoryID          uint          `json:"category_id" gorm:"not null"`
	AddressID           uint          `json:"address_id" gorm:"not null"`
	ScheduledAt         time.Time     `json:"scheduled_at" gorm:"not null"`
	Notes               string        `json:"notes" gorm:"size:500"`
	Status              BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';check:status IN ('PENDING','CONFIRMED','IN_PROGRESS','COMPLETED','CANCELLED','REJECTED')"`
	TotalAmount         float64       `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	CredentialsRevealed bool          `json:"credentials_revealed" gorm:"not null;default:false"`
	CreatedAt           time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User     User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Provider ServiceProvider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Category ServiceCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Address  Address         `json:"address,omitempty" gorm:"foreignKey:AddressID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal reports whether no further transitions are allowed from s
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusRejected:
		return true
	}
	return false
}

// CreateBookingRequest is the customer payload for booking a provider
type CreateBookingRequest struct {
	ProviderID  uint      `json:"provider_id" binding:"required"`
	CategoryID  uint      `json:"category_id" binding:"required"`
	AddressID   uint      `json:"address_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=500"`
}

// UpdateBookingStatusRequest carries the requested target state
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingResponse is the caller-facing booking projection. CredentialInfo
// is populated only for the booking's own customer once credentials are
// revealed; every other view leaves it empty.
type BookingResponse struct {
	ID                  uint          `json:"id"`
	ProviderID          uint          `json:"provider_id"`
	ProviderName        string        `json:"provider_name"`
	CategoryName        string        `json:"category_name"`
	Address             Address       `json:"address"`
	ScheduledAt         time.Time     `json:"scheduled_at"`
	Notes               string        `json:"notes"`
	Status              BookingStatus `json:"status"`
	TotalAmount         float64       `json:"total_amount"`
	CredentialsRevealed bool          `json:"credentials_revealed"`
	CredentialInfo      string        `json:"credential_info,omitempty"`
	CredentialDocument  string        `json:"credential_document,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
}

// NewBookingResponse builds a booking projection from a booking with its
// provider (and provider user), category and address preloaded. Credentials
// are included only when they have been revealed and the view is the
// booking customer's own.
func NewBookingResponse(b *Booking, includeCredentials bool) BookingResponse {
	r := BookingResponse{
		ID:                  b.ID,
		ProviderID:          b.ProviderID,
		ProviderName:        b.Provider.User.FullName,
		CategoryName:        b.Category.Name,
		Address:             b.Address,
		ScheduledAt:         b.ScheduledAt,
		Notes:               b.Notes,
		Status:              b.Status,
		TotalAmount:         b.TotalAmount,
		CredentialsRevealed: b.CredentialsRevealed,
		CreatedAt:           b.CreatedAt,
	}
	if includeCredentials && b.CredentialsRevealed {
		r.CredentialInfo = b.Provider.CredentialInfo
		r.CredentialDocument = b.Provider.CredentialDocument
	}
	return r
}
