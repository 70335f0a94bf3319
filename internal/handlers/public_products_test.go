package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/the-dna-lab/catalog-api/internal/services"
)

type stubPublicCatalogService struct {
	getFn func(ctx context.Context, idOrSlug, baseURL string) (map[string]any, error)
}

func (s *stubPublicCatalogService) GetByIDOrSlug(ctx context.Context, idOrSlug string, baseURL string) (map[string]any, error) {
	if s.getFn != nil {
		return s.getFn(ctx, idOrSlug, baseURL)
	}
	return nil, fmt.Errorf("%w: %s", services.ErrProductNotFound, idOrSlug)
}

func publicRouter(catalog services.PublicCatalogService, baseURL string) chi.Router {
	r := chi.NewRouter()
	NewPublicProductHandlers(catalog, baseURL).Routes(r)
	return r
}

func TestPublicGetProduct(t *testing.T) {
	var gotID, gotBase string
	svc := &stubPublicCatalogService{
		getFn: func(_ context.Context, idOrSlug, baseURL string) (map[string]any, error) {
			gotID, gotBase = idOrSlug, baseURL
			return map[string]any{"slug": idOrSlug, "name": "Basic Tee"}, nil
		},
	}
	router := publicRouter(svc, "https://cdn.tdlc.example/")

	req := httptest.NewRequest(http.MethodGet, "/products/basic-tee", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}
	if gotID != "basic-tee" {
		t.Fatalf("idOrSlug = %q", gotID)
	}
	if gotBase != "https://cdn.tdlc.example" {
		t.Fatalf("baseURL = %q, want trailing slash trimmed", gotBase)
	}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["name"] != "Basic Tee" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestPublicGetProductNotFound(t *testing.T) {
	router := publicRouter(&stubPublicCatalogService{}, "https://cdn.tdlc.example")

	req := httptest.NewRequest(http.MethodGet, "/products/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("status = %d", resp.Code)
	}
}
