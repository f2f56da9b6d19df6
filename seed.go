package main

import (
	"gorm.io/gorm"

	"servicehub-server/models"
	"servicehub-server/utils"
)

// seedDatabase creates the bootstrap admin account and the default
// service category catalog. Safe to run on every startup.
func seedDatabase(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCategories(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@servicehub.com").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("Admin@123")
	if err != nil {
		return err
	}

	admin := models.User{
		FullName:     "ServiceHub Admin",
		Email:        "admin@servicehub.com",
		PasswordHash: hashed,
		Phone:        "0000000000",
		Role:         models.RoleAdmin,
		Status:       models.AccountActive,
	}
	return db.Create(&admin).Error
}

func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ServiceCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.ServiceCategory{
		{Name: "Plumbing", Description: "Pipe repairs, leak fixing and installations", IconName: "wrench", Type: models.CategoryHomeServices},
		{Name: "Electrical", Description: "Wiring, fittings and appliance repairs", IconName: "zap", Type: models.CategoryHomeServices},
		{Name: "Carpentry", Description: "Furniture repair and woodwork", IconName: "hammer", Type: models.CategoryHomeServices},
		{Name: "Cleaning", Description: "Home and office deep cleaning", IconName: "sparkles", Type: models.CategoryHomeServices},
		{Name: "Painting", Description: "Interior and exterior painting", IconName: "paintbrush", Type: models.CategoryHomeServices},
		{Name: "AC Repair", Description: "Air conditioner servicing and repair", IconName: "fan", Type: models.CategoryHomeServices},
		{Name: "Mathematics", Description: "Maths tutoring for all levels", IconName: "calculator", Type: models.CategoryTutoring},
		{Name: "Science", Description: "Physics, chemistry and biology tutoring", IconName: "flask-conical", Type: models.CategoryTutoring},
		{Name: "English", Description: "English language and literature tutoring", IconName: "book-open", Type: models.CategoryTutoring},
		{Name: "Computer Science", Description: "Programming and computer science tutoring", IconName: "laptop", Type: models.CategoryTutoring},
		{Name: "Beauty & Wellness", Description: "Salon services at home", IconName: "scissors", Type: models.CategoryBeauty},
		{Name: "Photography", Description: "Event and portrait photography", IconName: "camera", Type: models.CategoryOther},
	}

	for i := range categories {
		categories[i].IsActive = true
	}
	return db.Create(&categories).Error
}
