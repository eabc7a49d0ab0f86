package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	apperrors "finboard/internal/errors"
	"finboard/internal/services"
)

func TestDataHandler(t *testing.T) {
	t.Run("export is a download", func(t *testing.T) {
		rec := doRequest(setupRouter(&mockDashboardService{}), "GET", "/export", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Content-Disposition"), "finance-data.json") {
			t.Errorf("expected attachment header, got %q", rec.Header().Get("Content-Disposition"))
		}
		result := parseJSON(t, rec)
		if _, ok := result["transactions"].([]interface{}); !ok || result["recordCounter"].(float64) != 1 {
			t.Errorf("unexpected export body %v", result)
		}
	})

	t.Run("import hands the raw body to the service", func(t *testing.T) {
		var got string
		svc := &mockDashboardService{
			importFn: func(_ context.Context, payload []byte) (*services.ImportResult, error) {
				got = string(payload)
				return &services.ImportResult{Transactions: 0, RecordCounter: 1}, nil
			},
		}
		body := `{"transactions":[]}`
		rec := doRequest(setupRouter(svc), "POST", "/import", body)
		if rec.Code != http.StatusOK || got != body {
			t.Fatalf("expected 200 with body passed through, got %d (%q)", rec.Code, got)
		}
	})

	t.Run("import rejects bad payload", func(t *testing.T) {
		svc := &mockDashboardService{
			importFn: func(context.Context, []byte) (*services.ImportResult, error) {
				return nil, apperrors.ErrInvalidImport
			},
		}
		rec := doRequest(setupRouter(svc), "POST", "/import", `{"settings":{}}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_IMPORT")
	})

	t.Run("import rejects oversized payload", func(t *testing.T) {
		body := `{"transactions":[],"pad":"` + strings.Repeat("x", maxImportBytes) + `"}`
		rec := doRequest(setupRouter(&mockDashboardService{}), "POST", "/import", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestContactHandler(t *testing.T) {
	rec := doRequest(setupRouter(&mockDashboardService{}), "POST", "/contact/validate",
		`{"name":"Ada","email":"ada@example","message":"Hello there, friend"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	fields := result["fields"].(map[string]interface{})
	if result["valid"] != false || fields["email"] != false || fields["name"] != true {
		t.Errorf("unexpected contact result %v", result)
	}
}
