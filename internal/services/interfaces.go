package services

import (
	"context"

	"finboard/internal/forex"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/search"
	"finboard/internal/stats"
	"finboard/internal/validator"
)

// TableQuery selects the rows of the transaction table. An empty SortField
// uses the sort state held by the service.
type TableQuery struct {
	Pattern         string
	CaseInsensitive bool
	SortField       search.Field
	SortDirection   search.Direction
	Page            pagination.PageRequest
}

// TableRow is a transaction prepared for display. The highlighted fields
// are HTML-escaped with matches wrapped in <mark>.
type TableRow struct {
	models.Transaction
	HighlightedDescription string `json:"highlightedDescription"`
	HighlightedCategory    string `json:"highlightedCategory"`
	FormattedAmount        string `json:"formattedAmount"`
}

// TableView is a page of table rows with the sort that produced it.
type TableView struct {
	pagination.PageResponse[TableRow]
	Sort search.SortState `json:"sort"`
}

// ImportResult summarizes an accepted import.
type ImportResult struct {
	Transactions  int             `json:"transactions"`
	RecordCounter int             `json:"recordCounter"`
	Settings      models.Settings `json:"settings"`
}

// DashboardServicer defines the contract for the finance dashboard: input
// validation, store mutations with write-through persistence and the
// derived read models.
type DashboardServicer interface {
	CreateTransaction(ctx context.Context, in validator.TransactionInput) (*models.Transaction, error)
	GetTransaction(id string) (*models.Transaction, error)
	ListTransactions() []models.Transaction
	UpdateTransaction(ctx context.Context, id string, in validator.TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error)

	Table(q TableQuery) (*TableView, error)
	ToggleSort(field search.Field) (search.SortState, error)
	Stats() stats.Summary

	Settings() models.Settings
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error)
	SetCurrency(ctx context.Context, currency models.Currency) (models.Settings, error)
	RefreshRates(ctx context.Context) (models.Settings, error)

	Export() models.Snapshot
	Import(ctx context.Context, payload []byte) (*ImportResult, error)

	ValidateContact(name, email, message string) validator.ContactResult

	Load(ctx context.Context) error
	Flush(ctx context.Context) error
}

// RateSource supplies fresh exchange rates.
type RateSource interface {
	Rates(ctx context.Context) (forex.Rates, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID string, changes map[string]any)
}
