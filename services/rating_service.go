package services

import (
	"errors"
	"fmt"
	"time"

	"ratehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RatingService owns the one-rating-per-(user, store) invariant. Every write
// goes through SubmitOrUpdateRating; there is no delete path.
type RatingService struct {
	DB *gorm.DB
}

// RatingResult reports what the upsert did so the handler can pick the
// right status code and message.
type RatingResult struct {
	Created  bool
	RatingID uuid.UUID
}

// SubmitOrUpdateRating records ratingValue/comment as the user's current
// rating of the store, creating the row on first submission and mutating it
// in place afterwards.
//
// The lookup-then-insert sequence can race against a concurrent submission by
// the same user (double-click). The composite unique index on
// ratings(user_id, store_id) makes the losing insert fail with
// gorm.ErrDuplicatedKey, which is handled by retrying as an update - the
// caller never sees the conflict.
func (s *RatingService) SubmitOrUpdateRating(userID, storeID uuid.UUID, ratingValue int, comment string) (RatingResult, error) {
	if ratingValue < 1 || ratingValue > 5 {
		return RatingResult{}, ErrInvalidRating
	}

	var store models.Store
	if err := s.DB.Select("id").Where("id = ?", storeID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RatingResult{}, ErrStoreNotFound
		}
		return RatingResult{}, fmt.Errorf("look up store: %w", err)
	}

	var existing models.Rating
	err := s.DB.Where("user_id = ? AND store_id = ?", userID, storeID).First(&existing).Error
	if err == nil {
		return s.updateExisting(&existing, ratingValue, comment)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return RatingResult{}, fmt.Errorf("look up rating: %w", err)
	}

	rating := models.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  ratingValue,
		Comment: comment,
	}
	if err := s.DB.Create(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent submission for the same pair.
			// The row exists now, so take the update path.
			if err := s.DB.Where("user_id = ? AND store_id = ?", userID, storeID).First(&existing).Error; err != nil {
				return RatingResult{}, fmt.Errorf("reload rating after conflict: %w", err)
			}
			return s.updateExisting(&existing, ratingValue, comment)
		}
		return RatingResult{}, fmt.Errorf("create rating: %w", err)
	}

	return RatingResult{Created: true, RatingID: rating.ID}, nil
}

func (s *RatingService) updateExisting(r *models.Rating, ratingValue int, comment string) (RatingResult, error) {
	updates := map[string]interface{}{
		"rating":  ratingValue,
		"comment": comment,
	}
	if err := s.DB.Model(r).Updates(updates).Error; err != nil {
		return RatingResult{}, fmt.Errorf("update rating: %w", err)
	}
	return RatingResult{Created: false, RatingID: r.ID}, nil
}

// UserRatingView is a rating authored by a user, joined with the rated
// store's public fields.
type UserRatingView struct {
	ID           uuid.UUID `json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	StoreName    string    `json:"store_name"`
	StoreAddress string    `json:"store_address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GetUserRatings returns every rating the user has submitted, most recent
// first.
func (s *RatingService) GetUserRatings(userID uuid.UUID) ([]UserRatingView, error) {
	var ratings []UserRatingView
	err := s.DB.Table("ratings r").
		Select(`r.id, r.store_id, r.rating, r.comment, r.created_at, r.updated_at,
			s.name AS store_name, s.address AS store_address`).
		Joins("JOIN stores s ON s.id = r.store_id").
		Where("r.user_id = ?", userID).
		Order("r.created_at DESC").
		Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}
	return ratings, nil
}
