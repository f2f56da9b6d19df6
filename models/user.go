package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleUser     UserRole = "USER"
	RoleProvider UserRole = "PROVIDER"
)

type AccountStatus string

const (
	AccountActive          AccountStatus = "ACTIVE"
	AccountSuspended       AccountStatus = "SUSPENDED"
	AccountPendingApproval AccountStatus = "PENDING_APPROVAL"
)

type User struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	FullName     string        `json:"full_name" gorm:"size:255;not null"`
	Email        string        `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string        `json:"-" gorm:"size:255;not null"`
	Phone        string        `json:"phone" gorm:"size:20;not null"`
	Role         UserRole      `json:"role" gorm:"type:varchar(20);not null;default:'USER';check:role IN ('ADMIN','USER','PROVIDER')"`
	Status       AccountStatus `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';check:status IN ('ACTIVE','SUSPENDED','PENDING_APPROVAL')"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	Bookings  []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsProvider checks if the user is a provider
func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// IsSuspended checks if the account has been suspended by an admin
func (u *User) IsSuspended() bool {
	return u.Status == AccountSuspended
}
