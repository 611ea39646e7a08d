package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wcmap/api/internal/middleware"
)

type accountResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, accountResponse{
			ID:        account.ID,
			Email:     account.Email,
			IsAdmin:   account.IsAdmin,
			CreatedAt: account.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func (h HandlerSet) ResetAccountPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body.")
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type setRoleRequest struct {
	IsAdmin *bool `json:"isAdmin"`
}

func (h HandlerSet) SetAccountRole(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		badRequest(c, "isAdmin must be a boolean.")
		return
	}

	if err := h.accounts.SetRole(c.Request.Context(), identity, c.Param("id"), *req.IsAdmin); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h HandlerSet) DeleteAccount(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
