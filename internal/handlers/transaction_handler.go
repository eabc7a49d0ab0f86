package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/pagination"
	"finboard/internal/search"
	"finboard/internal/services"
	"finboard/internal/validator"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	dashboardService services.DashboardServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(dashboardService services.DashboardServicer) *TransactionHandler {
	return &TransactionHandler{dashboardService: dashboardService}
}

// TransactionRequest is the payload for creating or editing a transaction.
// Amount accepts a JSON number or a numeric string and keeps its literal
// form so the two-decimal rule sees what the user typed.
type TransactionRequest struct {
	Description string      `json:"description" binding:"required,txn_description"`
	Amount      json.Number `json:"amount" binding:"required,txn_amount"`
	Category    string      `json:"category" binding:"required,txn_category"`
	Date        string      `json:"date" binding:"required,txn_date"`
	Type        string      `json:"type" binding:"required,transaction_type"`
}

func (r TransactionRequest) input() validator.TransactionInput {
	return validator.TransactionInput{
		Description: r.Description,
		Amount:      r.Amount.String(),
		Category:    r.Category,
		Date:        r.Date,
		Type:        r.Type,
	}
}

// ListTransactionsQuery holds the table view query parameters.
type ListTransactionsQuery struct {
	Pattern         string `form:"pattern"`
	CaseInsensitive bool   `form:"case_insensitive"`
	Sort            string `form:"sort"`
	Direction       string `form:"direction" binding:"omitempty,oneof=asc desc"`
	pagination.PageRequest
}

// SortRequest is a column click on the transaction table.
type SortRequest struct {
	Field string `json:"field" binding:"required"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} object{transaction=models.Transaction}
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Failing fields"
// @Security    APIKey
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.dashboardService.CreateTransaction(c.Request.Context(), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ListTransactions returns the filtered, sorted and highlighted table view
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Param       pattern          query string false "Regular expression matched against description and category"
// @Param       case_insensitive query bool   false "Match case-insensitively"
// @Param       sort             query string false "Sort field; omit to use the held sort state"
// @Param       direction        query string false "asc or desc"
// @Param       page             query int    false "Page number (default 1)"
// @Param       page_size        query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} services.TableView
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	view, err := h.dashboardService.Table(services.TableQuery{
		Pattern:         q.Pattern,
		CaseInsensitive: q.CaseInsensitive,
		SortField:       search.Field(q.Sort),
		SortDirection:   search.Direction(q.Direction),
		Page:            q.PageRequest,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetTransaction returns a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} object{transaction=models.Transaction}
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.dashboardService.GetTransaction(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction replaces the fields of a transaction
// @Summary     Update a transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "Transaction details"
// @Success     200 {object} object{transaction=models.Transaction}
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     422 {object} ErrorResponse "Failing fields"
// @Security    APIKey
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	transaction, err := h.dashboardService.UpdateTransaction(c.Request.Context(), id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Param       id path string true "Transaction ID"
// @Success     200 {object} object{transaction=models.Transaction}
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Security    APIKey
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.dashboardService.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ToggleSort applies a column click to the table sort
// @Summary     Toggle table sort
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       request body SortRequest true "Column to sort by"
// @Success     200 {object} object{sort=search.SortState}
// @Failure     400 {object} ErrorResponse "Unsupported sort field"
// @Security    APIKey
// @Router      /transactions/sort [post]
func (h *TransactionHandler) ToggleSort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	state, err := h.dashboardService.ToggleSort(search.Field(req.Field))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sort": state})
}
