package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kedai/backend/internal/insights"
	"kedai/backend/internal/service"
	"kedai/backend/internal/store/memory"
)

const testManagerPIN = "937451"

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	engine := insights.NewEngine(repo, nil, time.Minute)
	svc := service.New(repo)
	auth := NewAuthManager("test-secret-key", time.Hour, testManagerPIN, repo)

	return New(svc, auth, engine, "*")
}

func login(t *testing.T, handler http.Handler, username string, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", username, rec.Code, rec.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return body.AccessToken
}

func csrfToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d", rec.Code)
	}
	var body struct {
		Token string `json:"csrf_token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf response: %v", err)
	}
	return body.Token
}

func doJSON(t *testing.T, handler http.Handler, method string, path string, token string, csrf string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestAPI(t).Handler()

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/inventory", "/api/v1/settings"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
}

func TestStaffCannotReachAdminRoutes(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "staff", "staff123")

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/finance/stats", token, "", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff on finance stats, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/staff", token, "", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff on staff listing, got %d", rec.Code)
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", token, csrf, map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "cash",
		"items": []map[string]any{
			{"product_id": "prod-espresso", "qty": 2},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Order struct {
			ID         string `json:"id"`
			TotalCents int64  `json:"total_cents"`
			Status     string `json:"status"`
		} `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if created.Order.TotalCents != 600 || created.Order.Status != "pending" {
		t.Fatalf("unexpected order: %+v", created.Order)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/orders/"+created.Order.ID+"/status", token, csrf, map[string]any{
		"status": "completed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete order: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/orders?status=completed", token, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), created.Order.ID) {
		t.Fatalf("completed order missing from filtered list")
	}
}

func TestCancelRequiresManagerPIN(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", token, csrf, map[string]any{
		"payment_method": "cash",
		"items":          []map[string]any{{"product_id": "prod-latte", "qty": 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", rec.Code)
	}
	var created struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	statusPath := "/api/v1/orders/" + created.Order.ID + "/status"

	rec = doJSON(t, handler, http.MethodPost, statusPath, token, csrf, map[string]any{
		"status": "cancelled",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cancel without PIN: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, statusPath, token, csrf, map[string]any{
		"status":      "cancelled",
		"manager_pin": "000000",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cancel with wrong PIN: expected 403, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, statusPath, token, csrf, map[string]any{
		"status":      "cancelled",
		"manager_pin": testManagerPIN,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel with PIN: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestInventoryStockUpdateOverHTTP(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "admin", "admin123")
	csrf := csrfToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/inventory/ing-beans/stock", token, csrf, map[string]any{
		"new_quantity":     1800,
		"transaction_type": "REMOVE",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("stock update: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Item struct {
			Record struct {
				StockQty int `json:"stock_quantity"`
			} `json:"record"`
			Status string `json:"status"`
		} `json:"item"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if body.Item.Record.StockQty != 1800 || body.Item.Status != "in_stock" {
		t.Fatalf("unexpected item: %+v", body.Item)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/inventory/ing-beans/transactions", token, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ledger fetch: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"REMOVE"`) {
		t.Fatalf("ledger missing REMOVE entry: %s", rec.Body.String())
	}
}

func TestUnknownJSONFieldsRejected(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "admin", "admin123")
	csrf := csrfToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/customers", token, csrf, map[string]any{
		"name":     "Sam",
		"email":    "sam@example.com",
		"nickname": "sammy",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestInvoiceRendersHTML(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "staff", "staff123")
	csrf := csrfToken(t, handler)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/orders", token, csrf, map[string]any{
		"payment_method": "cash",
		"items":          []map[string]any{{"product_id": "prod-espresso", "qty": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: expected 201, got %d", rec.Code)
	}
	var created struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode order: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.Order.ID+"/invoice", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)

	if rec2.Code != http.StatusOK {
		t.Fatalf("invoice: expected 200, got %d", rec2.Code)
	}
	if ct := rec2.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	html := rec2.Body.String()
	// Subtotal 6.00, default tax 11% of 600 = 66 cents, grand total 6.66.
	for _, want := range []string{"Espresso", "6.00", "0.66", "6.66", "Tax (11%)"} {
		if !strings.Contains(html, want) {
			t.Fatalf("invoice missing %q:\n%s", want, html)
		}
	}
}

func TestExportReturnsWorkbook(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := login(t, handler, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/report.xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty export body")
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
}
