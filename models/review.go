package models

import (
	"time"
)

// Review is a customer's one-time rating of a completed booking. The unique
// index on BookingID enforces at most one review per booking. Reviews are
// immutable once created; provider aggregates are recomputed from them.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"booking_id" gorm:"uniqueIndex;not null"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ProviderID uint      `json:"provider_id" gorm:"not null;index"`
	Rating     int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"size:1000"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Booking  Booking         `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	User     User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Provider ServiceProvider `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// CreateReviewRequest is the customer payload for reviewing a completed booking
type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=1000"`
}

// ReviewResponse is the public projection of a review
type ReviewResponse struct {
	ID        uint      `json:"id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewResponse builds the projection for a review with its user preloaded
func NewReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		UserName:  r.User.FullName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
