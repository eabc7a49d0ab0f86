package handlers

import (
	"context"
	"net/http"
	"testing"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/search"
	"finboard/internal/services"
	"finboard/internal/validator"
)

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got validator.TransactionInput
		svc := &mockDashboardService{
			createTransactionFn: func(_ context.Context, in validator.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{ID: "rec_0001", Description: "Coffee", Amount: 4.5}, nil
			},
		}
		r := setupRouter(svc)

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Coffee","amount":4.50,"category":"Food","date":"2025-03-01","type":"expense"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount != "4.50" {
			t.Errorf("expected the amount literal to reach the service, got %q", got.Amount)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"] != "rec_0001" {
			t.Errorf("expected id rec_0001, got %v", tx["id"])
		}
	})

	t.Run("accepts amount as string", func(t *testing.T) {
		r := setupRouter(&mockDashboardService{})
		rec := doRequest(r, "POST", "/transactions",
			`{"description":"Coffee","amount":"12","category":"Food","date":"2025-03-01","type":"expense"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 422 with failing fields", func(t *testing.T) {
		r := setupRouter(&mockDashboardService{})

		rec := doRequest(r, "POST", "/transactions",
			`{"description":"the the","amount":1.234,"category":"Food","date":"2025-13-01","type":"expense"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
		errObj := assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
		fields := errObj["fields"].(map[string]interface{})
		for _, f := range []string{"description", "amount", "date"} {
			if fields[f] == nil {
				t.Errorf("expected %s to be reported, got %v", f, fields)
			}
		}
		if fields["category"] != nil {
			t.Errorf("category is valid, got %v", fields["category"])
		}
	})

	t.Run("returns 400 on malformed json", func(t *testing.T) {
		r := setupRouter(&mockDashboardService{})
		rec := doRequest(r, "POST", "/transactions", `{"description":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("passes query through", func(t *testing.T) {
		var got services.TableQuery
		svc := &mockDashboardService{
			tableFn: func(q services.TableQuery) (*services.TableView, error) {
				got = q
				rows := []services.TableRow{{
					Transaction:            models.Transaction{ID: "rec_0001", Description: "Coffee shop"},
					HighlightedDescription: "<mark>Coffee</mark> shop",
				}}
				return &services.TableView{
					PageResponse: pagination.NewPageResponse(rows, 1, 20, 1),
					Sort:         search.SortState{Field: search.FieldAmount, Direction: search.Desc},
				}, nil
			},
		}
		r := setupRouter(svc)

		rec := doRequest(r, "GET", "/transactions?pattern=coffee&case_insensitive=true&sort=amount&direction=desc&page=1&page_size=20", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Pattern != "coffee" || !got.CaseInsensitive || got.SortField != search.FieldAmount || got.SortDirection != search.Desc {
			t.Errorf("unexpected query %+v", got)
		}

		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		row := data[0].(map[string]interface{})
		if row["highlightedDescription"] != "<mark>Coffee</mark> shop" || row["id"] != "rec_0001" {
			t.Errorf("unexpected row %v", row)
		}
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("returns 422 on bad direction", func(t *testing.T) {
		r := setupRouter(&mockDashboardService{})
		rec := doRequest(r, "GET", "/transactions?sort=amount&direction=up", "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown sort field", func(t *testing.T) {
		svc := &mockDashboardService{
			tableFn: func(services.TableQuery) (*services.TableView, error) {
				return nil, apperrors.ErrInvalidSortField
			},
		}
		rec := doRequest(setupRouter(svc), "GET", "/transactions?sort=balance", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_SORT_FIELD")
	})
}

func TestTransactionHandler_ByID(t *testing.T) {
	notFound := &mockDashboardService{
		getTransactionFn: func(string) (*models.Transaction, error) {
			return nil, apperrors.ErrTransactionNotFound
		},
		updateTransactionFn: func(context.Context, string, validator.TransactionInput) (*models.Transaction, error) {
			return nil, apperrors.ErrTransactionNotFound
		},
		deleteTransactionFn: func(context.Context, string) (*models.Transaction, error) {
			return nil, apperrors.ErrTransactionNotFound
		},
	}

	t.Run("get returns 200", func(t *testing.T) {
		rec := doRequest(setupRouter(&mockDashboardService{}), "GET", "/transactions/rec_0001", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("get returns 404", func(t *testing.T) {
		rec := doRequest(setupRouter(notFound), "GET", "/transactions/rec_0404", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})

	t.Run("update returns 200", func(t *testing.T) {
		var gotID string
		svc := &mockDashboardService{
			updateTransactionFn: func(_ context.Context, id string, _ validator.TransactionInput) (*models.Transaction, error) {
				gotID = id
				return &models.Transaction{ID: id}, nil
			},
		}
		rec := doRequest(setupRouter(svc), "PUT", "/transactions/rec_0002",
			`{"description":"Taxi","amount":12,"category":"Transport","date":"2025-03-01","type":"expense"}`)
		if rec.Code != http.StatusOK || gotID != "rec_0002" {
			t.Fatalf("expected 200 for rec_0002, got %d (%s)", rec.Code, gotID)
		}
	})

	t.Run("update returns 404", func(t *testing.T) {
		rec := doRequest(setupRouter(notFound), "PUT", "/transactions/rec_0404",
			`{"description":"Taxi","amount":12,"category":"Transport","date":"2025-03-01","type":"expense"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("delete returns 200 then 404", func(t *testing.T) {
		rec := doRequest(setupRouter(&mockDashboardService{}), "DELETE", "/transactions/rec_0001", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rec = doRequest(setupRouter(notFound), "DELETE", "/transactions/rec_0001", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_ToggleSort(t *testing.T) {
	t.Run("returns new state", func(t *testing.T) {
		rec := doRequest(setupRouter(&mockDashboardService{}), "POST", "/transactions/sort", `{"field":"amount"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		sort := parseJSON(t, rec)["sort"].(map[string]interface{})
		if sort["field"] != "amount" || sort["direction"] != "asc" {
			t.Errorf("unexpected sort %v", sort)
		}
	})

	t.Run("returns 422 without field", func(t *testing.T) {
		rec := doRequest(setupRouter(&mockDashboardService{}), "POST", "/transactions/sort", `{}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}
