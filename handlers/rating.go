package handlers

import (
	"errors"
	"net/http"

	"ratehub-backend/models"
	"ratehub-backend/services"
	"ratehub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingHandler struct {
	DB      *gorm.DB
	Ratings *services.RatingService
}

// SubmitRating is the create-or-update endpoint: 201 when a new rating row
// was created, 200 when an existing one was updated.
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	role, _ := c.Get("user_role")
	if role != models.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only normal users can submit ratings"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		StoreID uuid.UUID `json:"store_id" binding:"required"`
		Rating  int       `json:"rating" binding:"required"`
		Comment string    `json:"comment" binding:"max=500"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	result, err := h.Ratings.SubmitOrUpdateRating(userID.(uuid.UUID), req.StoreID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		case errors.Is(err, services.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
		}
		return
	}

	if result.Created {
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Rating submitted successfully",
			"rating_id": result.RatingID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Rating updated successfully",
		"rating_id": result.RatingID,
	})
}

func (h *RatingHandler) GetMyRatings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ratings, err := h.Ratings.GetUserRatings(userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	if ratings == nil {
		ratings = []services.UserRatingView{}
	}
	c.JSON(http.StatusOK, ratings)
}
