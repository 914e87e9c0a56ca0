package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, nil)
}

func TestGetProduct_OK(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/products/p-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(domain.Product{ID: "p-1", Name: "Hammer", Price: decimal.RequireFromString("9.99")})
	})

	p, err := client.GetProduct(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Hammer" || !p.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("unexpected product: %+v", p)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetProduct(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("not found must not be reported as unavailable")
	}
}

func TestServerErrorIsUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusBadRequest} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := client.ListProducts(context.Background())
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("status %d: expected ErrUnavailable, got %v", status, err)
		}
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != status {
			t.Errorf("status %d: expected StatusError, got %v", status, err)
		}
	}
}

func TestUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.GetCategory(context.Background(), "c-1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestUndecodableBodyIsUnavailable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	})
	_, err := client.ListInventory(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestQueryParameters(t *testing.T) {
	var gotMin, gotMax, gotName, gotQuantity string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/products/price":
			gotMin, gotMax = r.URL.Query().Get("min"), r.URL.Query().Get("max")
			w.Write([]byte("[]"))
		case "/data/products/search":
			gotName = r.URL.Query().Get("name")
			w.Write([]byte("[]"))
		case "/data/inventory/i-1/stock":
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}
			gotQuantity = r.URL.Query().Get("quantity")
			json.NewEncoder(w).Encode(domain.Inventory{ID: "i-1", Quantity: 7})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	ctx := context.Background()

	if _, err := client.ProductsByPriceRange(ctx, decimal.RequireFromString("1.5"), decimal.NewFromInt(20)); err != nil {
		t.Fatal(err)
	}
	if _, err := client.ProductsByName(ctx, "ham mer"); err != nil {
		t.Fatal(err)
	}
	inv, err := client.UpdateInventoryQuantity(ctx, "i-1", 7)
	if err != nil {
		t.Fatal(err)
	}

	if gotMin != "1.5" || gotMax != "20" {
		t.Errorf("unexpected price bounds %q %q", gotMin, gotMax)
	}
	if gotName != "ham mer" {
		t.Errorf("unexpected name fragment %q", gotName)
	}
	if gotQuantity != "7" || inv.Quantity != 7 {
		t.Errorf("unexpected quantity %q / %d", gotQuantity, inv.Quantity)
	}
}

// Category names travel as query parameters so any character survives.
func TestCategoryNameIsSentAsQuery(t *testing.T) {
	var paths, names []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/data/products/by-category":
			names = append(names, r.URL.Query().Get("category"))
			w.Write([]byte("[]"))
		case "/data/categories/by-name":
			names = append(names, r.URL.Query().Get("name"))
			w.Write([]byte(`{"id":"c-1","name":"Home/Garden & Co"}`))
		default:
			http.NotFound(w, r)
		}
	})
	if _, err := client.ProductsByCategory(context.Background(), "Home/Garden & Co"); err != nil {
		t.Fatal(err)
	}
	if _, err := client.GetCategoryByName(context.Background(), "Home/Garden & Co"); err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "Home/Garden & Co" || names[1] != "Home/Garden & Co" {
		t.Errorf("unexpected names %q via %q", names, paths)
	}
}

func TestDeleteNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteCategory(context.Background(), "c-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
