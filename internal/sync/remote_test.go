package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmoreira/rentdesk/internal/models"
)

func testClient(url string) *Client {
	return NewClient(&RemoteConfig{
		BaseURL: url,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	if err := testClient(server.URL).Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization header: %q", gotAuth)
	}
	if gotKey != "test-key" {
		t.Errorf("apikey header: %q", gotKey)
	}
}

func TestClientPingFailsOnAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	if err := testClient(server.URL).Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail on 401")
	}
}

func TestClientSelect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/owners" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.Record{
			{"id": float64(1), "last_name": "Gomez"},
			{"id": float64(2), "last_name": "Perez"},
		})
	}))
	defer server.Close()

	rows, err := testClient(server.URL).Select(context.Background(), models.TableOwners)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Int64("id") != 1 || rows[1].String("last_name") != "Perez" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestClientUpsert(t *testing.T) {
	var body models.Record
	var prefer, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		prefer = r.Header.Get("Prefer")
		contentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	rec := models.Record{"id": int64(3), "last_name": "Diaz"}
	if err := testClient(server.URL).Upsert(context.Background(), models.TableOwners, rec); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if prefer != "resolution=merge-duplicates" {
		t.Errorf("prefer header: %q", prefer)
	}
	if contentType != "application/json" {
		t.Errorf("content type: %q", contentType)
	}
	if body.String("last_name") != "Diaz" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestClientDeleteTreats404AsSuccess(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if err := testClient(server.URL).DeleteByID(context.Background(), models.TableOwners, 7); err != nil {
		t.Fatalf("delete should tolerate 404: %v", err)
	}
	if gotQuery != "id=eq.7" {
		t.Errorf("query: %q", gotQuery)
	}
}

func TestClientDeleteFailsOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := testClient(server.URL).DeleteByID(context.Background(), models.TableOwners, 7); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestClientHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := testClient(server.URL).Ping(ctx); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
