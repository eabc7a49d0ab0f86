package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	googleuuid "github.com/google/uuid"

	apperrors "finboard/internal/errors"
	"finboard/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestWriteProtection(t *testing.T) {
	setup := func(apiKey string) *gin.Engine {
		r := gin.New()
		r.Use(WriteProtection(apiKey))
		ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }
		r.GET("/test", ok)
		r.POST("/test", ok)
		return r
	}

	tests := []struct {
		name          string
		configuredKey string
		method        string
		requestKey    string
		wantStatus    int
	}{
		{name: "disabled_without_key", configuredKey: "", method: http.MethodPost, wantStatus: http.StatusOK},
		{name: "reads_stay_open", configuredKey: "secret", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "valid_key", configuredKey: "secret", method: http.MethodPost, requestKey: "secret", wantStatus: http.StatusOK},
		{name: "invalid_key", configuredKey: "secret", method: http.MethodPost, requestKey: "wrong", wantStatus: http.StatusUnauthorized},
		{name: "missing_key", configuredKey: "secret", method: http.MethodPost, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.requestKey != "" {
				headers[APIKeyHeader] = tt.requestKey
			}
			rec := doRequest(setup(tt.configuredKey), tt.method, "/test", headers)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusUnauthorized && errorCode(t, rec) != "INVALID_API_KEY" {
				t.Errorf("expected INVALID_API_KEY, got %s", rec.Body.String())
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	t.Run("issues_request_id", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/test", nil)
		id := rec.Header().Get(RequestIDHeader)
		if _, err := googleuuid.Parse(id); err != nil {
			t.Fatalf("expected a uuid request id, got %q", id)
		}
		if rec.Body.String() != id {
			t.Errorf("handler saw %q, header has %q", rec.Body.String(), id)
		}
	})

	t.Run("keeps_incoming_uuid", func(t *testing.T) {
		incoming := googleuuid.New().String()
		rec := doRequest(r, http.MethodGet, "/test", map[string]string{RequestIDHeader: incoming})
		if rec.Header().Get(RequestIDHeader) != incoming {
			t.Errorf("expected %q to be kept, got %q", incoming, rec.Header().Get(RequestIDHeader))
		}
	})

	t.Run("replaces_malformed_id", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/test", map[string]string{RequestIDHeader: "<script>"})
		if rec.Header().Get(RequestIDHeader) == "<script>" {
			t.Error("expected malformed request id to be replaced")
		}
	})
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperrors.WithFields(apperrors.ErrValidationFailed, map[string]string{"amount": "Invalid amount format"}))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("disk on fire"))
	})

	t.Run("app_error", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/app", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		errObj := parseBody(t, rec)["error"].(map[string]interface{})
		fields, ok := errObj["fields"].(map[string]interface{})
		if !ok || fields["amount"] != "Invalid amount format" {
			t.Errorf("expected failing fields, got %v", errObj)
		}
	})

	t.Run("unexpected_error", func(t *testing.T) {
		rec := doRequest(r, http.MethodGet, "/plain", nil)
		if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != apperrors.ErrInternalServer.Code {
			t.Fatalf("expected generic 500, got %d %s", rec.Code, rec.Body.String())
		}
	})
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.NoRoute(NotFound)
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := doRequest(r, http.MethodGet, "/panic", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	rec = doRequest(r, http.MethodGet, "/missing", nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "ROUTE_NOT_FOUND" {
		t.Fatalf("expected ROUTE_NOT_FOUND, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://finboard.example"))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doRequest(r, http.MethodOptions, "/test", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected preflight 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://finboard.example" {
		t.Errorf("unexpected origin header %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
