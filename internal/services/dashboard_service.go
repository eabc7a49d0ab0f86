package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "finboard/internal/errors"
	"finboard/internal/ledger"
	"finboard/internal/logger"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/persistence"
	"finboard/internal/search"
	"finboard/internal/stats"
	"finboard/internal/validator"
)

// dashboardService handles the dashboard business logic. Every mutation is
// written through to the persistence adapter; a failed write is logged and
// the in-memory state stays authoritative.
type dashboardService struct {
	store   *ledger.Store
	adapter *persistence.Adapter
	matcher *search.Matcher
	rates   RateSource
	audit   AuditServicer
	now     ledger.Clock

	// writeMu serializes mutate-then-save so snapshots reach the medium in
	// mutation order.
	writeMu sync.Mutex

	sortMu sync.Mutex
	sort   search.SortState
}

// DashboardOption configures the dashboard service.
type DashboardOption func(*dashboardService)

// WithRateSource enables RefreshRates.
func WithRateSource(r RateSource) DashboardOption {
	return func(s *dashboardService) { s.rates = r }
}

// WithAudit replaces the default audit logger.
func WithAudit(a AuditServicer) DashboardOption {
	return func(s *dashboardService) { s.audit = a }
}

// WithClock sets the clock that anchors the expense trend.
func WithClock(c ledger.Clock) DashboardOption {
	return func(s *dashboardService) { s.now = c }
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(store *ledger.Store, adapter *persistence.Adapter, matcher *search.Matcher, opts ...DashboardOption) DashboardServicer {
	s := &dashboardService{
		store:   store,
		adapter: adapter,
		matcher: matcher,
		audit:   NewAuditService(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parseInput runs the input rules and converts the raw strings into typed,
// trimmed fields. Every failing field is reported.
func parseInput(in validator.TransactionInput) (models.TransactionFields, error) {
	if failed := validator.CheckTransaction(in); failed != nil {
		return models.TransactionFields{}, apperrors.WithFields(apperrors.ErrValidationFailed, failed)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(in.Amount), 64)
	if err != nil {
		return models.TransactionFields{}, apperrors.WithFields(apperrors.ErrValidationFailed, map[string]string{
			validator.FieldAmount: validator.Message(validator.FieldAmount),
		})
	}

	return models.TransactionFields{
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		Category:    strings.TrimSpace(in.Category),
		Date:        strings.TrimSpace(in.Date),
		Type:        models.TransactionType(strings.TrimSpace(in.Type)),
	}, nil
}

// CreateTransaction validates the input, stores a new record and persists.
func (s *dashboardService) CreateTransaction(ctx context.Context, in validator.TransactionInput) (*models.Transaction, error) {
	fields, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	t, err := s.store.Insert(fields)
	if err != nil {
		return nil, err
	}
	s.persist(ctx)

	s.audit.Log(AuditCreate, "transaction", t.ID, map[string]any{
		"amount": t.Amount,
		"type":   t.Type,
	})
	return &t, nil
}

// GetTransaction returns a single record.
func (s *dashboardService) GetTransaction(id string) (*models.Transaction, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions returns every record, newest first.
func (s *dashboardService) ListTransactions() []models.Transaction {
	return s.store.List()
}

// UpdateTransaction validates the input and replaces the record's fields.
func (s *dashboardService) UpdateTransaction(ctx context.Context, id string, in validator.TransactionInput) (*models.Transaction, error) {
	fields, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	before, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Update(id, fields)
	if err != nil {
		return nil, err
	}
	s.persist(ctx)

	s.audit.Log(AuditUpdate, "transaction", id, diffFields(before.Fields(), t.Fields()))
	return &t, nil
}

// DeleteTransaction removes a record and persists.
func (s *dashboardService) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	t, err := s.store.Delete(id)
	if err != nil {
		return nil, err
	}
	s.persist(ctx)

	s.audit.Log(AuditDelete, "transaction", id, nil)
	return &t, nil
}

// Table filters, sorts, highlights and pages the records.
func (s *dashboardService) Table(q TableQuery) (*TableView, error) {
	state, err := s.resolveSort(q)
	if err != nil {
		return nil, err
	}

	rows := s.matcher.Filter(s.ListTransactions(), q.Pattern, q.CaseInsensitive)
	if state.Field != "" {
		rows = search.Sort(rows, state.Field, state.Direction)
	}

	page := pagination.Slice(rows, q.Page)
	f := stats.NewFormatter(s.store.Settings())
	out := make([]TableRow, len(page.Data))
	for i, t := range page.Data {
		out[i] = TableRow{
			Transaction:            t,
			HighlightedDescription: s.matcher.Highlight(t.Description, q.Pattern, q.CaseInsensitive),
			HighlightedCategory:    s.matcher.Highlight(t.Category, q.Pattern, q.CaseInsensitive),
			FormattedAmount:        f.Format(t.Amount),
		}
	}

	return &TableView{
		PageResponse: pagination.NewPageResponse(out, page.Page, page.PageSize, page.TotalItems),
		Sort:         state,
	}, nil
}

func (s *dashboardService) resolveSort(q TableQuery) (search.SortState, error) {
	if q.SortField == "" {
		s.sortMu.Lock()
		defer s.sortMu.Unlock()
		return s.sort, nil
	}
	if !q.SortField.Valid() {
		return search.SortState{}, apperrors.ErrInvalidSortField
	}
	dir := q.SortDirection
	if dir == "" {
		dir = search.Asc
	}
	if !dir.Valid() {
		return search.SortState{}, apperrors.WithMessage(apperrors.ErrInvalidSortField, "Sort direction must be asc or desc")
	}
	return search.SortState{Field: q.SortField, Direction: dir}, nil
}

// ToggleSort applies a column click to the held sort state.
func (s *dashboardService) ToggleSort(field search.Field) (search.SortState, error) {
	if !field.Valid() {
		return search.SortState{}, apperrors.ErrInvalidSortField
	}

	s.sortMu.Lock()
	defer s.sortMu.Unlock()
	s.sort = s.sort.Toggle(field)
	return s.sort, nil
}

// Stats computes the dashboard figures from the current state.
func (s *dashboardService) Stats() stats.Summary {
	return stats.Compute(s.ListTransactions(), s.store.Settings(), s.now())
}

// Settings returns the current settings.
func (s *dashboardService) Settings() models.Settings {
	return s.store.Settings()
}

// UpdateSettings merges a partial update and persists.
func (s *dashboardService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	settings, err := s.store.UpdateSettings(patch)
	if err != nil {
		return settings, err
	}
	s.persist(ctx)

	s.audit.Log(AuditSettings, "settings", "", map[string]any{"settings": settings})
	return settings, nil
}

// SetCurrency switches the display currency.
func (s *dashboardService) SetCurrency(ctx context.Context, currency models.Currency) (models.Settings, error) {
	if !currency.Valid() {
		return s.store.Settings(), apperrors.ErrInvalidCurrency
	}
	return s.UpdateSettings(ctx, models.SettingsPatch{CurrentCurrency: &currency})
}

// RefreshRates fetches fresh exchange rates and stores them.
func (s *dashboardService) RefreshRates(ctx context.Context) (models.Settings, error) {
	if s.rates == nil {
		return s.store.Settings(), apperrors.WithMessage(apperrors.ErrRatesUnavailable, "No exchange-rate source is configured")
	}

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return s.store.Settings(), apperrors.Wrap(apperrors.ErrRatesUnavailable, err)
	}

	logger.Get().Infow("Exchange rates refreshed", "eur_rate", rates.EURRate, "rwf_rate", rates.RWFRate)
	return s.UpdateSettings(ctx, models.SettingsPatch{EURRate: &rates.EURRate, RWFRate: &rates.RWFRate})
}

// Export returns the complete persisted state.
func (s *dashboardService) Export() models.Snapshot {
	return s.store.Snapshot()
}

// Import validates payload and, if it is well formed, replaces the state.
// A rejected payload leaves the state untouched.
func (s *dashboardService) Import(ctx context.Context, payload []byte) (*ImportResult, error) {
	snap, err := s.adapter.Decode(payload)
	if err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.store.Restore(snap)
	s.persist(ctx)

	result := &ImportResult{
		Transactions:  s.store.Len(),
		RecordCounter: s.store.RecordCounter(),
		Settings:      s.store.Settings(),
	}
	s.audit.Log(AuditImport, "snapshot", "", map[string]any{"transactions": result.Transactions})
	return result, nil
}

// ValidateContact checks the contact form fields.
func (s *dashboardService) ValidateContact(name, email, message string) validator.ContactResult {
	return validator.CheckContact(name, email, message)
}

// Load restores the persisted state. When nothing usable is persisted the
// store is reset to the empty default state and the reason is returned.
func (s *dashboardService) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap, err := s.adapter.Load(ctx)
	s.store.Restore(snap)
	if err != nil {
		return err
	}

	logger.Get().Infow("Finance data loaded",
		"transactions", len(snap.Transactions),
		"record_counter", s.store.RecordCounter(),
	)
	return nil
}

// Flush writes the current state to the medium.
func (s *dashboardService) Flush(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.adapter.Save(ctx, s.store.Snapshot())
}

// persist writes the current state through. Failures are logged only.
func (s *dashboardService) persist(ctx context.Context) {
	if err := s.adapter.Save(ctx, s.store.Snapshot()); err != nil {
		logger.Get().Errorw("Failed to persist finance data", "error", err)
	}
}

func diffFields(before, after models.TransactionFields) map[string]any {
	changes := map[string]any{}
	if before.Description != after.Description {
		changes["description"] = after.Description
	}
	if before.Amount != after.Amount {
		changes["amount"] = after.Amount
	}
	if before.Category != after.Category {
		changes["category"] = after.Category
	}
	if before.Date != after.Date {
		changes["date"] = after.Date
	}
	if before.Type != after.Type {
		changes["type"] = after.Type
	}
	return changes
}
