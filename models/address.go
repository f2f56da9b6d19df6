package models

import (
	"time"
)

// Address is a saved service address belonging to a customer
type Address struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Label     string    `json:"label" gorm:"size:100;not null"`
	Street    string    `json:"street" gorm:"size:255;not null"`
	City      string    `json:"city" gorm:"size:100;not null"`
	State     string    `json:"state" gorm:"size:100;not null"`
	Pincode   string    `json:"pincode" gorm:"size:20;not null"`
	Country   string    `json:"country" gorm:"size:100;not null"`
	Latitude  *float64  `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude *float64  `json:"longitude" gorm:"type:decimal(11,8)"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}

// AddressRequest is the payload for creating or updating an address
type AddressRequest struct {
	Label     string   `json:"label" binding:"required,max=100"`
	Street    string   `json:"street" binding:"required,max=255"`
	City      string   `json:"city" binding:"required,max=100"`
	State     string   `json:"state" binding:"required,max=100"`
	Pincode   string   `json:"pincode" binding:"required,max=20"`
	Country   string   `json:"country" binding:"required,max=100"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsDefault bool     `json:"is_default"`
}
