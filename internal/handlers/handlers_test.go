package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/search"
	"finboard/internal/services"
	"finboard/internal/stats"
	"finboard/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// --- mock dashboard service ---

type mockDashboardService struct {
	createTransactionFn func(ctx context.Context, in validator.TransactionInput) (*models.Transaction, error)
	getTransactionFn    func(id string) (*models.Transaction, error)
	updateTransactionFn func(ctx context.Context, id string, in validator.TransactionInput) (*models.Transaction, error)
	deleteTransactionFn func(ctx context.Context, id string) (*models.Transaction, error)
	tableFn             func(q services.TableQuery) (*services.TableView, error)
	toggleSortFn        func(field search.Field) (search.SortState, error)
	statsFn             func() stats.Summary
	updateSettingsFn    func(ctx context.Context, patch models.SettingsPatch) (models.Settings, error)
	setCurrencyFn       func(ctx context.Context, currency models.Currency) (models.Settings, error)
	refreshRatesFn      func(ctx context.Context) (models.Settings, error)
	importFn            func(ctx context.Context, payload []byte) (*services.ImportResult, error)
}

func (m *mockDashboardService) CreateTransaction(ctx context.Context, in validator.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(ctx, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockDashboardService) GetTransaction(id string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(id)
	}
	return &models.Transaction{ID: id}, nil
}

func (m *mockDashboardService) ListTransactions() []models.Transaction {
	return []models.Transaction{}
}

func (m *mockDashboardService) UpdateTransaction(ctx context.Context, id string, in validator.TransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(ctx, id, in)
	}
	return &models.Transaction{ID: id}, nil
}

func (m *mockDashboardService) DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(ctx, id)
	}
	return &models.Transaction{ID: id}, nil
}

func (m *mockDashboardService) Table(q services.TableQuery) (*services.TableView, error) {
	if m.tableFn != nil {
		return m.tableFn(q)
	}
	return &services.TableView{PageResponse: pagination.NewPageResponse([]services.TableRow{}, 1, 20, 0)}, nil
}

func (m *mockDashboardService) ToggleSort(field search.Field) (search.SortState, error) {
	if m.toggleSortFn != nil {
		return m.toggleSortFn(field)
	}
	return search.SortState{Field: field, Direction: search.Asc}, nil
}

func (m *mockDashboardService) Stats() stats.Summary {
	if m.statsFn != nil {
		return m.statsFn()
	}
	return stats.Summary{}
}

func (m *mockDashboardService) Settings() models.Settings {
	return models.DefaultSettings()
}

func (m *mockDashboardService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, patch)
	}
	return patch.Apply(models.DefaultSettings()), nil
}

func (m *mockDashboardService) SetCurrency(ctx context.Context, currency models.Currency) (models.Settings, error) {
	if m.setCurrencyFn != nil {
		return m.setCurrencyFn(ctx, currency)
	}
	s := models.DefaultSettings()
	s.CurrentCurrency = currency
	return s, nil
}

func (m *mockDashboardService) RefreshRates(ctx context.Context) (models.Settings, error) {
	if m.refreshRatesFn != nil {
		return m.refreshRatesFn(ctx)
	}
	return models.DefaultSettings(), nil
}

func (m *mockDashboardService) Export() models.Snapshot {
	return models.Snapshot{Transactions: []models.Transaction{}, Settings: models.DefaultSettings(), RecordCounter: 1}
}

func (m *mockDashboardService) Import(ctx context.Context, payload []byte) (*services.ImportResult, error) {
	if m.importFn != nil {
		return m.importFn(ctx, payload)
	}
	return &services.ImportResult{}, nil
}

func (m *mockDashboardService) ValidateContact(name, email, message string) validator.ContactResult {
	return validator.CheckContact(name, email, message)
}

func (m *mockDashboardService) Load(context.Context) error  { return nil }
func (m *mockDashboardService) Flush(context.Context) error { return nil }

var _ services.DashboardServicer = (*mockDashboardService)(nil)

func setupRouter(svc services.DashboardServicer) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r.Group(""), svc)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) map[string]interface{} {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
	return errObj
}
