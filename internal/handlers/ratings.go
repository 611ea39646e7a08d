package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wcmap/api/internal/middleware"
	"wcmap/api/internal/models"
)

type ratingResponse struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Comment   *string   `json:"comment"`
	Owned     bool      `json:"owned"`
	CreatedAt time.Time `json:"createdAt"`
}

type ratingRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment"`
}

func (h HandlerSet) ListLocationRatings(c *gin.Context) {
	var viewer *models.Identity
	if identity, ok := middleware.IdentityFrom(c); ok {
		viewer = &identity
	}

	views, err := h.ratings.ListForLocation(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]ratingResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, ratingResponse{
			ID:        view.ID,
			Score:     view.Score,
			Comment:   view.Comment,
			Owned:     view.Owned,
			CreatedAt: view.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) CreateRating(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	rating, err := h.ratings.Create(c.Request.Context(), c.Param("id"), identity.Account.ID, req.Score, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": rating.ID})
}

func (h HandlerSet) UpdateRating(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	if err := h.ratings.Update(c.Request.Context(), c.Param("id"), identity.Account.ID, req.Score, req.Comment); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type adminRatingResponse struct {
	ID           string    `json:"id"`
	LocationID   string    `json:"locationId"`
	LocationName string    `json:"locationName"`
	Score        int       `json:"score"`
	Comment      *string   `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h HandlerSet) AdminListRatings(c *gin.Context) {
	ratings, err := h.ratings.AdminListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]adminRatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		resp = append(resp, adminRatingResponse{
			ID:           rating.ID,
			LocationID:   rating.LocationID,
			LocationName: rating.LocationName,
			Score:        rating.Score,
			Comment:      rating.Comment,
			CreatedAt:    rating.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) AdminUpdateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	if err := h.ratings.AdminUpdate(c.Request.Context(), c.Param("id"), req.Score, req.Comment); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h HandlerSet) AdminDeleteRating(c *gin.Context) {
	if err := h.ratings.AdminDelete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
