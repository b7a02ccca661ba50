package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreService computes the read-only store views: every aggregate is
// recomputed from the ratings table at query time, nothing is materialized.
type StoreService struct {
	DB *gorm.DB
}

// StoreView is a store joined with its owner's public fields and the live
// rating aggregates. UserRating carries the viewer's own rating when one
// exists.
type StoreView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       uuid.UUID `json:"owner_id"`
	OwnerName     string    `json:"owner_name"`
	OwnerEmail    string    `json:"owner_email"`
	OwnerAddress  string    `json:"owner_address"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int64     `json:"total_ratings"`
	UserRating    *int      `json:"user_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StoreRatingView is one rating of a store joined with its author's public
// fields.
type StoreRatingView struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StoreFilters struct {
	Name    string
	Address string
}

// Allowed sort fields; anything else leaves the result unsorted.
var storeSortFields = map[string]string{
	"name":           "s.name",
	"address":        "s.address",
	"average_rating": "average_rating",
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "desc") {
		return "DESC"
	}
	return "ASC"
}

const storeViewColumns = `s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
	u.name AS owner_name, u.email AS owner_email, u.address AS owner_address,
	COALESCE(AVG(r.rating), 0) AS average_rating,
	COUNT(r.id) AS total_ratings`

const storeViewGroup = `s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
	u.name, u.email, u.address`

// ListStores returns every store with aggregates and, for viewerID, that
// viewer's own rating. Filters are case-insensitive substring matches,
// combined with AND.
func (s *StoreService) ListStores(filters StoreFilters, sortBy, sortOrder string, viewerID uuid.UUID) ([]StoreView, error) {
	query := s.DB.Table("stores s").
		Select(storeViewColumns+", ur.rating AS user_rating").
		Joins("LEFT JOIN users u ON u.id = s.owner_id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Joins("LEFT JOIN ratings ur ON ur.store_id = s.id AND ur.user_id = ?", viewerID).
		Group(storeViewGroup + ", ur.rating")

	if filters.Name != "" {
		query = query.Where("LOWER(s.name) LIKE LOWER(?)", "%"+filters.Name+"%")
	}
	if filters.Address != "" {
		query = query.Where("LOWER(s.address) LIKE LOWER(?)", "%"+filters.Address+"%")
	}

	if expr, ok := storeSortFields[sortBy]; ok {
		query = query.Order(expr + " " + sortDirection(sortOrder))
	}

	var stores []StoreView
	if err := query.Scan(&stores).Error; err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// GetStoreDetail returns one store with owner contact fields and aggregates.
func (s *StoreService) GetStoreDetail(storeID uuid.UUID) (*StoreView, error) {
	var stores []StoreView
	err := s.DB.Table("stores s").
		Select(storeViewColumns).
		Joins("LEFT JOIN users u ON u.id = s.owner_id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Where("s.id = ?", storeID).
		Group(storeViewGroup).
		Scan(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	if len(stores) == 0 {
		return nil, ErrStoreNotFound
	}
	return &stores[0], nil
}

// GetStoreByOwner returns the store owned by ownerID with aggregates. Owners
// hold at most one store.
func (s *StoreService) GetStoreByOwner(ownerID uuid.UUID) (*StoreView, error) {
	var stores []StoreView
	err := s.DB.Table("stores s").
		Select(storeViewColumns).
		Joins("LEFT JOIN users u ON u.id = s.owner_id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Where("s.owner_id = ?", ownerID).
		Group(storeViewGroup).
		Scan(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("get store by owner: %w", err)
	}
	if len(stores) == 0 {
		return nil, ErrStoreNotFound
	}
	return &stores[0], nil
}

// GetStoreRatings returns every rating of a store with the author's name and
// email, most recent first.
func (s *StoreService) GetStoreRatings(storeID uuid.UUID) ([]StoreRatingView, error) {
	var ratings []StoreRatingView
	err := s.DB.Table("ratings r").
		Select(`r.id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at,
			u.name AS user_name, u.email AS user_email`).
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.created_at DESC").
		Scan(&ratings).Error
	if err != nil {
		return nil, fmt.Errorf("list store ratings: %w", err)
	}
	return ratings, nil
}
