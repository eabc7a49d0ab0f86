package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/services"
)

// ContactHandler validates contact form submissions.
type ContactHandler struct {
	dashboardService services.DashboardServicer
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(dashboardService services.DashboardServicer) *ContactHandler {
	return &ContactHandler{dashboardService: dashboardService}
}

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ValidateContact reports which contact fields pass
// @Summary     Validate a contact form
// @Tags        contact
// @Accept      json
// @Produce     json
// @Param       request body ContactRequest true "Contact form"
// @Success     200 {object} object{valid=bool,fields=validator.ContactResult}
// @Security    APIKey
// @Router      /contact/validate [post]
func (h *ContactHandler) ValidateContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result := h.dashboardService.ValidateContact(req.Name, req.Email, req.Message)
	c.JSON(http.StatusOK, gin.H{
		"valid":  result.Valid(),
		"fields": result,
	})
}
