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

type StoreHandler struct {
	DB     *gorm.DB
	Stores *services.StoreService
}

func (h *StoreHandler) GetStores(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filters := services.StoreFilters{
		Name:    c.Query("name"),
		Address: c.Query("address"),
	}
	sortBy := c.DefaultQuery("sortBy", "name")
	sortOrder := c.DefaultQuery("sortOrder", "asc")

	stores, err := h.Stores.ListStores(filters, sortBy, sortOrder, userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
		return
	}

	if stores == nil {
		stores = []services.StoreView{}
	}
	c.JSON(http.StatusOK, stores)
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID"})
		return
	}

	store, err := h.Stores.GetStoreDetail(storeID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	c.JSON(http.StatusOK, store)
}

// GetStoreRatings lists the individual ratings of a store. Admins may read
// any store; owners only their own.
func (h *StoreHandler) GetStoreRatings(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID"})
		return
	}

	var store models.Store
	if err := h.DB.Where("id = ?", storeID).First(&store).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	role, _ := c.Get("user_role")
	if role != models.RoleAdmin {
		userID, _ := c.Get("user_id")
		if store.OwnerID != userID.(uuid.UUID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	ratings, err := h.Stores.GetStoreRatings(storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	if ratings == nil {
		ratings = []services.StoreRatingView{}
	}
	c.JSON(http.StatusOK, ratings)
}

// GetMyStore serves the store-owner dashboard: the owner's store with its
// rating aggregates.
func (h *StoreHandler) GetMyStore(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store, err := h.Stores.GetStoreByOwner(userID.(uuid.UUID))
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No store associated with this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	c.JSON(http.StatusOK, store)
}

func (h *StoreHandler) GetMyStoreRatings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	store, err := h.Stores.GetStoreByOwner(userID.(uuid.UUID))
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No store associated with this account"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch store"})
		return
	}

	ratings, err := h.Stores.GetStoreRatings(store.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	if ratings == nil {
		ratings = []services.StoreRatingView{}
	}
	c.JSON(http.StatusOK, ratings)
}

// CreateStore is admin-only. The owner must already exist with the
// store_owner role; store names are globally unique.
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var req struct {
		Name    string    `json:"name" binding:"required,min=1,max=100"`
		Email   string    `json:"email" binding:"required,email"`
		Address string    `json:"address" binding:"max=400"`
		OwnerID uuid.UUID `json:"owner_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	var owner models.User
	if err := h.DB.Where("id = ?", req.OwnerID).First(&owner).Error; err != nil || owner.Role != models.RoleStoreOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store owner"})
		return
	}

	var existingStore models.Store
	if err := h.DB.Where("name = ?", req.Name).First(&existingStore).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Store name already exists"})
		return
	}

	store := models.Store{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	}

	if err := h.DB.Create(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Store name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Store created successfully",
		"store_id": store.ID,
	})
}
