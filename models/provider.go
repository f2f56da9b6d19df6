package models

import (
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ServiceProvider is the professional profile linked to a PROVIDER user.
// CredentialInfo and CredentialDocument are hidden from JSON; they are only
// surfaced through booking projections once credentials are revealed.
type ServiceProvider struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	UserID             uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	Description        string         `json:"description" gorm:"type:text"`
	City               string         `json:"city" gorm:"type:varchar(100);not null"`
	ExperienceYears    int            `json:"experience_years" gorm:"not null;default:0"`
	HourlyRate         float64        `json:"hourly_rate" gorm:"type:decimal(10,2);not null;default:0"`
	CredentialInfo     string         `json:"-" gorm:"type:text"`
	CredentialDocument string         `json:"-" gorm:"type:varchar(500)"`
	AvgRating          float64        `json:"avg_rating" gorm:"type:decimal(3,2);not null;default:0"`
	TotalRatings       int            `json:"total_ratings" gorm:"not null;default:0"`
	IsAvailable        bool           `json:"is_available" gorm:"default:true"`
	ApprovalStatus     ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);not null;default:'PENDING';check:approval_status IN ('PENDING','APPROVED','REJECTED')"`
	ProfileImagePath   string         `json:"profile_image_path" gorm:"type:varchar(500)"`
	CreatedAt          time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User       User              `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Categories []ServiceCategory `json:"categories,omitempty" gorm:"many2many:provider_service_categories"`
}

// TableName specifies the table name for the ServiceProvider model
func (ServiceProvider) TableName() string {
	return "service_providers"
}

// IsBookable reports whether the provider may receive new bookings
func (p *ServiceProvider) IsBookable() bool {
	return p.ApprovalStatus == ApprovalApproved
}

// UpdateProviderRequest is the provider-panel payload for partial profile updates
type UpdateProviderRequest struct {
	Description     *string  `json:"description"`
	City            *string  `json:"city"`
	ExperienceYears *int     `json:"experience_years"`
	HourlyRate      *float64 `json:"hourly_rate"`
	CredentialInfo  *string  `json:"credential_info"`
	IsAvailable     *bool    `json:"is_available"`
	CategoryIDs     []uint   `json:"category_ids"`
}

// ProviderResponse is the public projection of a provider profile.
// Credential fields are never part of it.
type ProviderResponse struct {
	ID              uint              `json:"id"`
	UserID          uint              `json:"user_id"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	City            string            `json:"city"`
	Description     string            `json:"description"`
	ExperienceYears int               `json:"experience_years"`
	HourlyRate      float64           `json:"hourly_rate"`
	AvgRating       float64           `json:"avg_rating"`
	TotalRatings    int               `json:"total_ratings"`
	IsAvailable     bool              `json:"is_available"`
	ApprovalStatus  ApprovalStatus    `json:"approval_status"`
	Categories      []ServiceCategory `json:"categories"`
	ProfileImage    string            `json:"profile_image_path"`
}

// NewProviderResponse builds the public projection for a provider with its
// user and categories preloaded.
func NewProviderResponse(p *ServiceProvider) ProviderResponse {
	return ProviderResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		FullName:        p.User.FullName,
		Email:           p.User.Email,
		Phone:           p.User.Phone,
		City:            p.City,
		Description:     p.Description,
		ExperienceYears: p.ExperienceYears,
		HourlyRate:      p.HourlyRate,
		AvgRating:       p.AvgRating,
		TotalRatings:    p.TotalRatings,
		IsAvailable:     p.IsAvailable,
		ApprovalStatus:  p.ApprovalStatus,
		Categories:      p.Categories,
		ProfileImage:    p.ProfileImagePath,
	}
}
