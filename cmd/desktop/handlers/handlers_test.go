package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmoreira/rentdesk/internal/balance"
	"github.com/dmoreira/rentdesk/internal/db"
	"github.com/dmoreira/rentdesk/internal/ledger"
	"github.com/dmoreira/rentdesk/internal/outbox"
	"github.com/dmoreira/rentdesk/internal/validate"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	store := db.NewStore(database, outbox.New(database.DB))
	v := validate.New()

	owners := NewOwnersHandler(store, v)
	tenants := NewTenantsHandler(store, v)
	properties := NewPropertiesHandler(store, v)
	leases := NewLeasesHandler(store, ledger.New(store), v)
	payments := NewPaymentsHandler(store, balance.New(store), v)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/owners", owners.List)
	mux.HandleFunc("POST /api/owners", owners.Create)
	mux.HandleFunc("GET /api/owners/{id}", owners.Get)
	mux.HandleFunc("PUT /api/owners/{id}", owners.Update)
	mux.HandleFunc("DELETE /api/owners/{id}", owners.Delete)
	mux.HandleFunc("POST /api/tenants", tenants.Create)
	mux.HandleFunc("POST /api/properties", properties.Create)
	mux.HandleFunc("POST /api/leases", leases.Create)
	mux.HandleFunc("POST /api/leases/{id}/adjustments", leases.ApplyAdjustment)
	mux.HandleFunc("GET /api/leases/{id}/adjustments", leases.Adjustments)
	mux.HandleFunc("POST /api/payments", payments.Create)
	mux.HandleFunc("GET /api/payments/{id}/receipt", payments.Receipt)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, server *httptest.Server, path string, body map[string]interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp, decoded
}

func validOwner(taxID string) map[string]interface{} {
	return map[string]interface{}{
		"first_name": "Ana",
		"last_name":  "Gomez",
		"tax_id":     taxID,
		"phone":      "3764000000",
		"address":    "Calle 1",
	}
}

func TestCreateOwner(t *testing.T) {
	server := newTestServer(t)

	resp, body := post(t, server, "/api/owners", validOwner("20123456786"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %v", resp.StatusCode, body)
	}
	if body["last_name"] != "Gomez" {
		t.Errorf("unexpected body: %v", body)
	}
	if body["id"] == nil {
		t.Error("expected id in response")
	}
}

func TestCreateOwnerRejectsBadTaxID(t *testing.T) {
	server := newTestServer(t)

	resp, body := post(t, server, "/api/owners", validOwner("20123456780"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", resp.StatusCode, body)
	}
	if body["code"] != "VALIDATION_ERROR" {
		t.Errorf("unexpected error code: %v", body["code"])
	}
}

func TestCreateOwnerRejectsDuplicateTaxID(t *testing.T) {
	server := newTestServer(t)

	if resp, _ := post(t, server, "/api/owners", validOwner("20123456786")); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first create failed: %d", resp.StatusCode)
	}
	resp, body := post(t, server, "/api/owners", validOwner("20-12345678-6"))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %v", resp.StatusCode, body)
	}
}

func TestGetMissingOwnerReturns404(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/owners/99")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLeaseLifecycleWithAdjustment(t *testing.T) {
	server := newTestServer(t)

	_, owner := post(t, server, "/api/owners", validOwner("20123456786"))
	_, tenant := post(t, server, "/api/tenants", map[string]interface{}{
		"first_name": "Juan", "last_name": "Perez", "tax_id": "27000000006",
		"phone": "1", "address": "Calle 2",
	})
	_, property := post(t, server, "/api/properties", map[string]interface{}{
		"owner_id": owner["id"], "type": "house", "address": "Av. Mitre 100",
	})

	resp, lease := post(t, server, "/api/leases", map[string]interface{}{
		"property_id":    property["id"],
		"tenant_id":      tenant["id"],
		"start_date":     "2024-01-01",
		"end_date":       "2026-01-01",
		"monthly_amount": 50000,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("lease create failed: %d: %v", resp.StatusCode, lease)
	}

	// Renting a property twice is rejected.
	resp, _ = post(t, server, "/api/leases", map[string]interface{}{
		"property_id":    property["id"],
		"tenant_id":      tenant["id"],
		"start_date":     "2024-01-01",
		"end_date":       "2026-01-01",
		"monthly_amount": 1,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for double lease, got %d", resp.StatusCode)
	}

	leaseID := int64(lease["id"].(float64))
	leasePath := "/api/leases/" + jsonID(leaseID)

	resp, adj := post(t, server, leasePath+"/adjustments", map[string]interface{}{
		"date":       "2024-05-01",
		"percentage": 10,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("adjustment failed: %d: %v", resp.StatusCode, adj)
	}
	if adj["new_amount"].(float64) != 55000 {
		t.Errorf("expected new amount 55000, got %v", adj["new_amount"])
	}
}

func TestCreatePaymentValidatesTotal(t *testing.T) {
	server := newTestServer(t)

	_, owner := post(t, server, "/api/owners", validOwner("20123456786"))
	_, tenant := post(t, server, "/api/tenants", map[string]interface{}{
		"first_name": "Juan", "last_name": "Perez", "tax_id": "27000000006",
		"phone": "1", "address": "Calle 2",
	})
	_, property := post(t, server, "/api/properties", map[string]interface{}{
		"owner_id": owner["id"], "type": "house", "address": "Av. Mitre 100",
	})
	_, lease := post(t, server, "/api/leases", map[string]interface{}{
		"property_id":    property["id"],
		"tenant_id":      tenant["id"],
		"start_date":     "2024-01-01",
		"end_date":       "2026-01-01",
		"monthly_amount": 50000,
	})

	payment := map[string]interface{}{
		"lease_id":     lease["id"],
		"payment_date": "2024-02-01",
		"period_month": 2,
		"period_year":  2024,
		"rent_amount":  50000,
		"total":        60000, // does not match the components
	}
	resp, body := post(t, server, "/api/payments", payment)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for mismatched total, got %d: %v", resp.StatusCode, body)
	}

	payment["total"] = 50000
	resp, body = post(t, server, "/api/payments", payment)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("payment create failed: %d: %v", resp.StatusCode, body)
	}

	receiptPath := "/api/payments/" + jsonID(int64(body["id"].(float64))) + "/receipt"
	getResp, err := http.Get(server.URL + receiptPath)
	if err != nil {
		t.Fatalf("receipt GET failed: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("receipt failed: %d", getResp.StatusCode)
	}
	var receipt map[string]interface{}
	json.NewDecoder(getResp.Body).Decode(&receipt)
	if receipt["tenant_name"] != "Juan Perez" {
		t.Errorf("receipt tenant: %v", receipt["tenant_name"])
	}
	if receipt["owner_name"] != "Ana Gomez" {
		t.Errorf("receipt owner: %v", receipt["owner_name"])
	}
}

func jsonID(id int64) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
