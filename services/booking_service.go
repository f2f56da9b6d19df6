package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub-server/database"
	"servicehub-server/models"
	"servicehub-server/utils"
)

// allowedTransitions is the explicit state graph for bookings. Any
// requested edge not listed here is rejected, regardless of who asks.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingStatusPending:    {models.BookingStatusConfirmed, models.BookingStatusRejected, models.BookingStatusCancelled},
	models.BookingStatusConfirmed:  {models.BookingStatusInProgress, models.BookingStatusCancelled},
	models.BookingStatusInProgress: {models.BookingStatusCompleted, models.BookingStatusCancelled},
}

// CanTransition reports whether the state graph allows moving from one
// booking status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseBookingStatus maps a request string onto a known booking status
func ParseBookingStatus(s string) (models.BookingStatus, bool) {
	switch models.BookingStatus(s) {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusInProgress,
		models.BookingStatusCompleted, models.BookingStatusCancelled, models.BookingStatusRejected:
		return models.BookingStatus(s), true
	}
	return "", false
}

// BookingService owns the booking state machine: creation, transitions,
// credential disclosure and review submission.
type BookingService struct {
	db          *gorm.DB
	onCancelled []func(tx *gorm.DB, bookingID uint) error
}

// NewBookingService creates a new booking service
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// OnCancelled registers a hook that runs inside the cancellation
// transaction. The payment engine uses it to flag refund eligibility.
func (s *BookingService) OnCancelled(fn func(tx *gorm.DB, bookingID uint) error) {
	s.onCancelled = append(s.onCancelled, fn)
}

// Create books an approved provider for the customer. The booking amount
// is snapshotted from the provider's current hourly rate.
func (s *BookingService) Create(userID uint, req models.CreateBookingRequest) (*models.BookingResponse, error) {
	var provider models.ServiceProvider
	if err := s.db.First(&provider, req.ProviderID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("provider %d: %w", req.ProviderID, ErrNotFound)
		}
		return nil, err
	}

	if !provider.IsBookable() {
		return nil, fmt.Errorf("provider %d is not approved: %w", provider.ID, ErrInvalidState)
	}

	var category models.ServiceCategory
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("category %d: %w", req.CategoryID, ErrNotFound)
		}
		return nil, err
	}

	var address models.Address
	if err := s.db.First(&address, req.AddressID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("address %d: %w", req.AddressID, ErrNotFound)
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address %d does not belong to the caller: %w", address.ID, ErrNotAuthorized)
	}

	booking := models.Booking{
		UserID:      userID,
		ProviderID:  provider.ID,
		CategoryID:  category.ID,
		AddressID:   address.ID,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
		Status:      models.BookingStatusPending,
		TotalAmount: provider.HourlyRate,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking created",
		zap.Uint("booking_id", booking.ID),
		zap.Uint("user_id", userID),
		zap.Uint("provider_id", provider.ID))

	return s.loadResponse(booking.ID, true)
}

// UpdateStatus performs one state-machine transition. Providers act on
// their own bookings and may request any legal edge; customers may only
// cancel. The status write is a compare-and-set on the observed current
// status so concurrent writers cannot both move the same edge.
func (s *BookingService) UpdateStatus(bookingID uint, target models.BookingStatus, actorID uint, actingAsProvider bool) (*models.BookingResponse, error) {
	var booking models.Booking
	if err := s.db.Preload("Provider").First(&booking, bookingID).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
		}
		return nil, err
	}

	if actingAsProvider {
		if booking.Provider.UserID != actorID {
			return nil, fmt.Errorf("booking %d belongs to another provider: %w", bookingID, ErrNotAuthorized)
		}
	} else {
		if booking.UserID != actorID {
			return nil, fmt.Errorf("booking %d belongs to another customer: %w", bookingID, ErrNotAuthorized)
		}
		if target != models.BookingStatusCancelled {
			return nil, fmt.Errorf("customers may only cancel bookings: %w", ErrInvalidOperation)
		}
	}

	if !CanTransition(booking.Status, target) {
		return nil, fmt.Errorf("cannot move booking from %s to %s: %w", booking.Status, target, ErrInvalidState)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": target}
		if target == models.BookingStatusConfirmed {
			// First confirmation discloses provider credentials, permanently.
			updates["credentials_revealed"] = true
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("booking %d moved concurrently: %w", booking.ID, ErrConflict)
		}

		if target == models.BookingStatusCancelled {
			for _, fn := range s.onCancelled {
				if err := fn(tx, booking.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("booking transitioned",
		zap.Uint("booking_id", booking.ID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(target)))

	return s.loadResponse(booking.ID, true)
}

// GetUserBookings lists a customer's bookings, newest first. Credentials
// are included where revealed since this is the owning customer's view.
func (s *BookingService) GetUserBookings(userID uint, page, limit int) ([]models.BookingResponse, int64, error) {
	return s.listBookings(s.db.Where("user_id = ?", userID), page, limit, true)
}

// GetProviderBookings lists the bookings assigned to the provider linked
// to the given user.
func (s *BookingService) GetProviderBookings(providerUserID uint, page, limit int) ([]models.BookingResponse, int64, error) {
	var provider models.ServiceProvider
	if err := s.db.Where("user_id = ?", providerUserID).First(&provider).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, 0, fmt.Errorf("provider profile: %w", ErrNotFound)
		}
		return nil, 0, err
	}
	return s.listBookings(s.db.Where("provider_id = ?", provider.ID), page, limit, false)
}

// GetAllBookings is the admin listing. Credential info is always withheld.
func (s *BookingService) GetAllBookings(page, limit int) ([]models.BookingResponse, int64, error) {
	return s.listBookings(s.db, page, limit, false)
}

// SubmitReview attaches the booking's single review and folds it into the
// provider's aggregate rating. Insert and recomputation share one
// transaction so a reader never sees a review without its aggregate.
func (s *BookingService) SubmitReview(userID uint, req models.CreateReviewRequest) (*models.ReviewResponse, error) {
	var review models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, req.BookingID).Error; err != nil {
			if database.IsNotFound(err) {
				return fmt.Errorf("booking %d: %w", req.BookingID, ErrNotFound)
			}
			return err
		}
		if booking.UserID != userID {
			return fmt.Errorf("booking %d belongs to another customer: %w", booking.ID, ErrNotAuthorized)
		}
		if booking.Status != models.BookingStatusCompleted {
			return fmt.Errorf("booking %d is %s, reviews need COMPLETED: %w", booking.ID, booking.Status, ErrInvalidState)
		}

		var count int64
		if err := tx.Model(&models.Review{}).Where("booking_id = ?", booking.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("booking %d already reviewed: %w", booking.ID, ErrConflict)
		}

		review = models.Review{
			BookingID:  booking.ID,
			UserID:     userID,
			ProviderID: booking.ProviderID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			// The unique index is the backstop for two concurrent submissions.
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("booking %d already reviewed: %w", booking.ID, ErrConflict)
			}
			return err
		}

		return RecomputeProviderRating(tx, booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&review, review.ID).Error; err != nil {
		return nil, err
	}
	resp := models.NewReviewResponse(&review)
	return &resp, nil
}

func (s *BookingService) listBookings(query *gorm.DB, page, limit int, includeCredentials bool) ([]models.BookingResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Model(&models.Booking{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := query.
		Preload("Provider").
		Preload("Provider.User").
		Preload("Category").
		Preload("Address").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	responses := make([]models.BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, models.NewBookingResponse(&bookings[i], includeCredentials))
	}
	return responses, total, nil
}

func (s *BookingService) loadResponse(bookingID uint, includeCredentials bool) (*models.BookingResponse, error) {
	var booking models.Booking
	if err := s.db.
		Preload("Provider").
		Preload("Provider.User").
		Preload("Category").
		Preload("Address").
		First(&booking, bookingID).Error; err != nil {
		return nil, err
	}
	resp := models.NewBookingResponse(&booking, includeCredentials)
	return &resp, nil
}
