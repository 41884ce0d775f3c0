package woocommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPingAgainstLiveStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/orders" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("per_page") != "1" {
			t.Errorf("per_page = %q, want 1", r.URL.Query().Get("per_page"))
		}
		if user, _, ok := r.BasicAuth(); !ok || user != "ck_test" {
			t.Errorf("basic auth user = %q", user)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"status":"completed","total":"150.00"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "ck_test", "cs_test")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() = %v, want nil", err)
	}
}

func TestPingEmptyStoreStillSucceeds(t *testing.T) {
	// A store with zero orders is still a working store.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "ck_test", "cs_test")
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() = %v, want nil", err)
	}
}

func TestPingReportsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"woocommerce_rest_cannot_view"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "ck_bad", "cs_bad")
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("Ping() = nil, want error on 401")
	}
}
