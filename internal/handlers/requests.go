package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wcmap/api/internal/middleware"
	"wcmap/api/internal/service"
)

type requestBody struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// toInput converts absent coordinates to NaN so range validation reports
// them with the same message as out-of-range values.
func (r requestBody) toInput() service.RequestInput {
	lat, lng := math.NaN(), math.NaN()
	if r.Lat != nil {
		lat = *r.Lat
	}
	if r.Lng != nil {
		lng = *r.Lng
	}
	return service.RequestInput{
		Name:        r.Name,
		Description: r.Description,
		Lat:         lat,
		Lng:         lng,
	}
}

type requestResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Status         string    `json:"status"`
	RequesterEmail string    `json:"requesterEmail,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h HandlerSet) SubmitRequest(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	request, err := h.requests.Submit(c.Request.Context(), identity.Account.ID, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": request.ID})
}

func (h HandlerSet) ListMyRequests(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	requests, err := h.requests.ListMine(c.Request.Context(), identity.Account.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		resp = append(resp, requestResponse{
			ID:          request.ID,
			Name:        request.Name,
			Description: request.Description,
			Lat:         request.Lat,
			Lng:         request.Lng,
			Status:      string(request.Status),
			CreatedAt:   request.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) EditRequest(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	var req requestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	if err := h.requests.EditMine(c.Request.Context(), c.Param("id"), identity.Account.ID, req.toInput()); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h HandlerSet) WithdrawRequest(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	if err := h.requests.Withdraw(c.Request.Context(), c.Param("id"), identity.Account.ID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h HandlerSet) ListPendingRequests(c *gin.Context) {
	requests, err := h.requests.ListPending(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		resp = append(resp, requestResponse{
			ID:             request.ID,
			Name:           request.Name,
			Description:    request.Description,
			Lat:            request.Lat,
			Lng:            request.Lng,
			Status:         string(request.Status),
			RequesterEmail: request.RequesterEmail,
			CreatedAt:      request.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) ApproveRequest(c *gin.Context) {
	location, err := h.requests.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": location.ID})
}

func (h HandlerSet) RejectRequest(c *gin.Context) {
	if err := h.requests.Reject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
