package models

import (
	"time"
)

// CategoryType groups categories for the marketplace landing page
type CategoryType string

const (
	CategoryHomeServices CategoryType = "HOME_SERVICES"
	CategoryTutoring     CategoryType = "TUTORING_EDUCATION"
	CategoryBeauty       CategoryType = "BEAUTY_WELLNESS"
	CategoryOther        CategoryType = "OTHER"
)

// ServiceCategory represents a service category providers can belong to
type ServiceCategory struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string       `json:"description" gorm:"type:text"`
	IconName    string       `json:"icon_name" gorm:"type:varchar(100)"`
	Type        CategoryType `json:"type" gorm:"type:varchar(30);not null;check:type IN ('HOME_SERVICES','TUTORING_EDUCATION','BEAUTY_WELLNESS','OTHER')"`
	IsActive    bool         `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}

// CreateCategoryRequest is the admin payload for adding a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`
	Type        string `json:"type" binding:"required,oneof=HOME_SERVICES TUTORING_EDUCATION BEAUTY_WELLNESS OTHER"`
}
