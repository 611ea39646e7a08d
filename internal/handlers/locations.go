package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type locationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	AvgRating   float64   `json:"avgRating"`
	RatingCount int       `json:"ratingCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h HandlerSet) ListLocations(c *gin.Context) {
	summaries, err := h.locations.ListApproved(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]locationResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, locationResponse{
			ID:          summary.ID,
			Name:        summary.Name,
			Description: summary.Description,
			Lat:         summary.Lat,
			Lng:         summary.Lng,
			AvgRating:   summary.AvgRating,
			RatingCount: summary.RatingCount,
			CreatedAt:   summary.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

type updateLocationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h HandlerSet) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	if err := h.locations.UpdateFields(c.Request.Context(), c.Param("id"), req.Name, req.Description); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h HandlerSet) DeleteLocation(c *gin.Context) {
	if err := h.locations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
