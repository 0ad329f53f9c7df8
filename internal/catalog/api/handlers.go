package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/philippweder/wine-shop/internal/catalog"
	"github.com/philippweder/wine-shop/internal/models"
)

// Handler exposes the wine catalog CRUD endpoints.
type Handler struct {
	store *catalog.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *catalog.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the catalog endpoints on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	wines := rg.Group("/wines")
	{
		wines.GET("", h.ListWines)
		wines.POST("", h.CreateWine)
		wines.GET("/:id", h.GetWine)
		wines.PUT("/:id", h.UpdateWine)
		wines.DELETE("/:id", h.DeleteWine)
	}
}

// ListWines returns wines with offset/limit paging.
func (h *Handler) ListWines(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	wines, err := h.store.List(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wines)
}

// GetWine returns a single wine by ID.
func (h *Handler) GetWine(c *gin.Context) {
	id, err := wineID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wine ID"})
		return
	}

	wine, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrWineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wine)
}

// CreateWine inserts a new wine record.
func (h *Handler) CreateWine(c *gin.Context) {
	var wine models.Wine
	if err := c.ShouldBindJSON(&wine); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if wine.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := h.store.Create(c.Request.Context(), &wine); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, wine)
}

// WineUpdate carries the updatable wine fields; absent fields are left
// untouched.
type WineUpdate struct {
	Name               *string  `json:"name"`
	BrandName          *string  `json:"brand_name"`
	Type               *string  `json:"type"`
	Varietal           *string  `json:"varietal"`
	Vintage            *int     `json:"vintage"`
	Region             *string  `json:"region"`
	SubRegion          *string  `json:"sub_region"`
	Country            *string  `json:"country"`
	Price              *float64 `json:"price"`
	Description        *string  `json:"description"`
	FoodPairing        *string  `json:"food_pairing"`
	AlcoholContent     *float64 `json:"alcohol_content"`
	Body               *string  `json:"body"`
	Aroma              *string  `json:"aroma"`
	Taste              *string  `json:"taste"`
	Winemaking         *string  `json:"winemaking"`
	Awards             *string  `json:"awards"`
	ServingTemperature *string  `json:"serving_temperature"`
	StoragePotential   *string  `json:"storage_potential"`
	ImageURL           *string  `json:"image_url"`
	Source             *string  `json:"source"`
}

func (u *WineUpdate) columns() map[string]interface{} {
	updates := make(map[string]interface{})
	put := func(column string, v interface{}, set bool) {
		if set {
			updates[column] = v
		}
	}
	put("name", u.Name, u.Name != nil)
	put("brand_name", u.BrandName, u.BrandName != nil)
	put("type", u.Type, u.Type != nil)
	put("varietal", u.Varietal, u.Varietal != nil)
	put("vintage", u.Vintage, u.Vintage != nil)
	put("region", u.Region, u.Region != nil)
	put("sub_region", u.SubRegion, u.SubRegion != nil)
	put("country", u.Country, u.Country != nil)
	put("price", u.Price, u.Price != nil)
	put("description", u.Description, u.Description != nil)
	put("food_pairing", u.FoodPairing, u.FoodPairing != nil)
	put("alcohol_content", u.AlcoholContent, u.AlcoholContent != nil)
	put("body", u.Body, u.Body != nil)
	put("aroma", u.Aroma, u.Aroma != nil)
	put("taste", u.Taste, u.Taste != nil)
	put("winemaking", u.Winemaking, u.Winemaking != nil)
	put("awards", u.Awards, u.Awards != nil)
	put("serving_temperature", u.ServingTemperature, u.ServingTemperature != nil)
	put("storage_potential", u.StoragePotential, u.StoragePotential != nil)
	put("image_url", u.ImageURL, u.ImageURL != nil)
	put("source", u.Source, u.Source != nil)
	return updates
}

// UpdateWine applies a partial update to an existing wine.
func (h *Handler) UpdateWine(c *gin.Context) {
	id, err := wineID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wine ID"})
		return
	}

	var update WineUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wine, err := h.store.Update(c.Request.Context(), id, update.columns())
	if err != nil {
		if errors.Is(err, catalog.ErrWineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wine)
}

// DeleteWine removes a wine by ID.
func (h *Handler) DeleteWine(c *gin.Context) {
	id, err := wineID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wine ID"})
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrWineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wine deleted"})
}

func wineID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
