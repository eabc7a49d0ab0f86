package docs

import (
	"encoding/json"
	"testing"

	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}

	var doc struct {
		Swagger  string                                `json:"swagger"`
		BasePath string                                `json:"basePath"`
		Info     struct{ Title string }                `json:"info"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
		Security map[string]struct {
			Type string `json:"type"`
			Name string `json:"name"`
			In   string `json:"in"`
		} `json:"securityDefinitions"`
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("rendered doc is not valid JSON: %v", err)
	}

	if doc.Swagger != "2.0" || doc.BasePath != "/api/v1" || doc.Info.Title != "Finboard API" {
		t.Errorf("header = %q %q %q", doc.Swagger, doc.BasePath, doc.Info.Title)
	}

	routes := map[string][]string{
		"/transactions":           {"get", "post"},
		"/transactions/sort":      {"post"},
		"/transactions/{id}":      {"get", "put", "delete"},
		"/settings":               {"get", "put"},
		"/settings/currency":      {"put"},
		"/settings/rates/refresh": {"post"},
		"/stats":                  {"get"},
		"/export":                 {"get"},
		"/import":                 {"post"},
		"/contact/validate":       {"post"},
	}
	for path, methods := range routes {
		ops, ok := doc.Paths[path]
		if !ok {
			t.Errorf("missing path %s", path)
			continue
		}
		for _, m := range methods {
			if _, ok := ops[m]; !ok {
				t.Errorf("missing %s %s", m, path)
			}
		}
	}

	key, ok := doc.Security["APIKey"]
	if !ok || key.Type != "apiKey" || key.Name != "X-API-Key" || key.In != "header" {
		t.Errorf("APIKey security definition = %+v", key)
	}

	for _, name := range []string{"models.Transaction", "models.Settings", "stats.Summary", "services.TableView", "handlers.ErrorResponse"} {
		if _, ok := doc.Definitions[name]; !ok {
			t.Errorf("missing definition %s", name)
		}
	}
}
