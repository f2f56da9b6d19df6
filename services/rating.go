package services

import (
	"gorm.io/gorm"

	"servicehub-server/models"
)

type ratingAggregate struct {
	AvgRating    float64
	TotalRatings int64
}

// RecomputeProviderRating rewrites a provider's aggregate rating from a
// full scan of its reviews. Average and count always change together, in
// the caller's transaction. Recomputing is idempotent: running it twice
// yields the same aggregate as running it once.
func RecomputeProviderRating(tx *gorm.DB, providerID uint) error {
	var agg ratingAggregate
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS total_ratings").
		Where("provider_id = ?", providerID).
		Scan(&agg).Error; err != nil {
		return err
	}

	return tx.Model(&models.ServiceProvider{}).
		Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"avg_rating":    agg.AvgRating,
			"total_ratings": agg.TotalRatings,
		}).Error
}

// GetProviderReviews lists a provider's reviews, newest first
func GetProviderReviews(db *gorm.DB, providerID uint, page, limit int) ([]models.ReviewResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := db.Model(&models.Review{}).Where("provider_id = ?", providerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	if err := db.
		Where("provider_id = ?", providerID).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	responses := make([]models.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, models.NewReviewResponse(&reviews[i]))
	}
	return responses, total, nil
}
