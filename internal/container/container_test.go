package container

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-skin-inspector/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     5 * time.Second,
		ImageFetchTimeout:  time.Second,
		AnalysisTimeout:    5 * time.Second,
		MaxRequestBodySize: 1 << 20,
		MaxImageBytes:      1 << 20,
		ProductsCSVPath:    filepath.Join(t.TempDir(), "missing.csv"),
	}
}

func TestNewContainer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	defer c.Close()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 without an API key, got %d", rec.Code)
	}

	if c.Metrics().TotalAnalyses != 0 {
		t.Errorf("Expected fresh metrics, got %+v", c.Metrics())
	}
}

func TestNewContainer_ChatEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenRouterAPIKey = "sk-test"
	cfg.ProductsCSVPath = filepath.Join(t.TempDir(), "products.csv")
	csv := "name,type,skin_type,price,image_url\nClear Wash,face wash,oily,12.5,\n"
	if err := os.WriteFile(cfg.ProductsCSVPath, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	defer c.Close()

	if c.advisor == nil || c.catalog.Len() != 1 {
		t.Errorf("Expected advisor and one product, got advisor=%v products=%d", c.advisor, c.catalog.Len())
	}
}

func TestNewContainer_BadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProductsCSVPath = filepath.Join(t.TempDir(), "products.csv")
	if err := os.WriteFile(cfg.ProductsCSVPath, []byte("name,type,skin_type,price\nA,serum,dry,cheap\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewContainer(cfg); err == nil {
		t.Error("Expected error for a malformed price")
	}
}
