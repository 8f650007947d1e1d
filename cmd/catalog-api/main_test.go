package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/config"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	app, err := newApplication(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer app.close(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"cache":"available"`) {
		t.Errorf("Expected in-process cache to report available, got %s", w.Body.String())
	}
}

func TestCreateThenList(t *testing.T) {
	app, err := newApplication(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer app.close(context.Background())

	body := `{"name":"Desk Lamp","description":"LED lamp","price":24.5,"category":"Home & Garden","stock":7,"sku":"HOM-0001-LMP","tags":["new"]}`
	w := httptest.NewRecorder()
	app.handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	app.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=Home%20%26%20Garden", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var page catalog.ProductPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 50, page.PageSize)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	cfg := memoryConfig(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.HTTPAddr = ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.HTTPAddr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
