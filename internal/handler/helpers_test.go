package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/catalog"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/hateoas"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/store"
	"gorm.io/gorm"
)

func setupTestRouterWithSet(set store.Set) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), gin.Recovery())

	svcs := catalog.NewServices(set, nil)
	RegisterCatalogRoutes(r.Group("/v1"), hateoas.NewAssembler(""), svcs.Authors, svcs.Books, svcs.Publishers)

	return r
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	return setupTestRouterWithSet(store.NewGormSet(db))
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func selfHref(t *testing.T, obj map[string]any) string {
	t.Helper()

	links, ok := obj["_links"].(map[string]any)
	if !ok {
		t.Fatalf("expected _links object, got %v", obj["_links"])
	}
	self, ok := links["self"].(map[string]any)
	if !ok {
		t.Fatalf("expected self link, got %v", links)
	}
	href, _ := self["href"].(string)
	return href
}

func embedded(t *testing.T, obj map[string]any, name string) []any {
	t.Helper()

	emb, ok := obj["_embedded"].(map[string]any)
	if !ok {
		t.Fatalf("expected _embedded object, got %v", obj["_embedded"])
	}
	list, ok := emb[name].([]any)
	if !ok {
		t.Fatalf("expected _embedded.%s list, got %v", name, emb[name])
	}
	return list
}
