package services

import (
	"fmt"
	"time"

	"ratehub-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

// UserView is a user without the password column, joined with the average
// rating of the store they own. AverageRating is 0 for users who own no
// store.
type UserView struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	Role          string    `json:"role"`
	AverageRating float64   `json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UserFilters struct {
	Name    string
	Email   string
	Address string
	Role    string
}

var userSortFields = map[string]string{
	"name":       "u.name",
	"email":      "u.email",
	"address":    "u.address",
	"role":       "u.role",
	"created_at": "u.created_at",
}

const userViewColumns = `u.id, u.name, u.email, u.address, u.role, u.created_at, u.updated_at,
	COALESCE(AVG(r.rating), 0) AS average_rating`

const userViewGroup = `u.id, u.name, u.email, u.address, u.role, u.created_at, u.updated_at`

// ListUsers returns every user with substring filters on name/email/address
// and an exact-match filter on role. Passwords never leave the query.
func (s *UserService) ListUsers(filters UserFilters, sortBy, sortOrder string) ([]UserView, error) {
	query := s.DB.Table("users u").
		Select(userViewColumns).
		Joins("LEFT JOIN stores s ON s.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Group(userViewGroup)

	if filters.Name != "" {
		query = query.Where("LOWER(u.name) LIKE LOWER(?)", "%"+filters.Name+"%")
	}
	if filters.Email != "" {
		query = query.Where("LOWER(u.email) LIKE LOWER(?)", "%"+filters.Email+"%")
	}
	if filters.Address != "" {
		query = query.Where("LOWER(u.address) LIKE LOWER(?)", "%"+filters.Address+"%")
	}
	if filters.Role != "" {
		query = query.Where("u.role = ?", filters.Role)
	}

	if expr, ok := userSortFields[sortBy]; ok {
		query = query.Order(expr + " " + sortDirection(sortOrder))
	}

	var users []UserView
	if err := query.Scan(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetUser returns one user view by id.
func (s *UserService) GetUser(userID uuid.UUID) (*UserView, error) {
	var users []UserView
	err := s.DB.Table("users u").
		Select(userViewColumns).
		Joins("LEFT JOIN stores s ON s.owner_id = u.id").
		Joins("LEFT JOIN ratings r ON r.store_id = s.id").
		Where("u.id = ?", userID).
		Group(userViewGroup).
		Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

// DashboardStats holds the platform-wide totals shown on the admin
// dashboard.
type DashboardStats struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalStores   int64   `json:"totalStores"`
	TotalRatings  int64   `json:"totalRatings"`
	AverageRating float64 `json:"averageRating"`
}

// GetDashboardStats recomputes the platform totals. The global average is 0
// when no ratings exist.
func (s *UserService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := s.DB.Model(&models.Store{}).Count(&stats.TotalStores).Error; err != nil {
		return nil, fmt.Errorf("count stores: %w", err)
	}
	if err := s.DB.Model(&models.Rating{}).Count(&stats.TotalRatings).Error; err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	var avg struct {
		Average float64
	}
	if err := s.DB.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average").
		Scan(&avg).Error; err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	stats.AverageRating = avg.Average

	return &stats, nil
}
