package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"marketscan/internal/models"
	"marketscan/internal/services"
	"marketscan/internal/storage"
)

func newCollectionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	history := services.NewHistoryTracker(store)
	manager := services.NewCollectionManager(store, nil, history)
	handler := NewCollectionHandler(manager, history)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userEmail", "a@b.com")
	})
	router.GET("/api/collection", handler.GetCollection)
	router.POST("/api/collection", handler.AddToCollection)
	router.DELETE("/api/collection/:variantId", handler.DeleteEntry)
	router.GET("/api/collection/history", handler.GetHistory)
	return router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func addBody(variantID string, price float64) map[string]any {
	return map[string]any{
		"card": map[string]any{
			"id":       "c1",
			"name":     "Eternatus VMAX",
			"set_name": "Darkness Ablaze",
			"number":   "117/189",
			"game":     "Pokemon",
		},
		"variant": map[string]any{
			"id":        variantID,
			"condition": "NM",
			"printing":  "Holofoil",
			"price":     price,
		},
	}
}

func TestCollectionLifecycle(t *testing.T) {
	router := newCollectionRouter(t)

	// Empty collection reads as an empty list with a zero total
	w := do(router, "GET", "/api/collection", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET collection: expected 200, got %d", w.Code)
	}
	var resp struct {
		Entries []models.CollectionEntry `json:"entries"`
		Total   float64                  `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) != 0 || resp.Total != 0 {
		t.Errorf("Expected empty collection, got %+v", resp)
	}

	// Add two variants
	if w := do(router, "POST", "/api/collection", addBody("v1", 12.50)); w.Code != http.StatusCreated {
		t.Fatalf("POST collection: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if w := do(router, "POST", "/api/collection", addBody("v2", 7.25)); w.Code != http.StatusCreated {
		t.Fatalf("POST collection: expected 201, got %d", w.Code)
	}

	w = do(router, "GET", "/api/collection", nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) != 2 || resp.Total != 19.75 {
		t.Errorf("Expected 2 entries totalling 19.75, got %+v", resp)
	}

	// History reflects the running total as a 7-point series
	w = do(router, "GET", "/api/collection/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET history: expected 200, got %d", w.Code)
	}
	var hist struct {
		Points []models.HistoryPoint `json:"points"`
	}
	json.Unmarshal(w.Body.Bytes(), &hist)
	if len(hist.Points) != 7 {
		t.Fatalf("Expected 7 history points, got %d", len(hist.Points))
	}
	if hist.Points[6].Total != 19.75 {
		t.Errorf("Expected today's point to be 19.75, got %+v", hist.Points[6])
	}

	// Remove an entry
	if w := do(router, "DELETE", "/api/collection/v1", nil); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE: expected 204, got %d", w.Code)
	}
	if w := do(router, "DELETE", "/api/collection/v1", nil); w.Code != http.StatusNotFound {
		t.Errorf("Deleting twice: expected 404, got %d", w.Code)
	}

	w = do(router, "GET", "/api/collection", nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) != 1 || resp.Total != 7.25 {
		t.Errorf("Expected 1 entry totalling 7.25 after delete, got %+v", resp)
	}
}

func TestAddToCollectionValidation(t *testing.T) {
	router := newCollectionRouter(t)

	w := do(router, "POST", "/api/collection", map[string]any{"card": map[string]any{}, "variant": map[string]any{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing ids, got %d", w.Code)
	}
}

func TestHistoryDaysValidation(t *testing.T) {
	router := newCollectionRouter(t)

	if w := do(router, "GET", "/api/collection/history?days=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for days=0, got %d", w.Code)
	}
	if w := do(router, "GET", "/api/collection/history?days=abc", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric days, got %d", w.Code)
	}
}
