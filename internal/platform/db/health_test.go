package db

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// unreachablePool builds a pool against a port nothing listens on. The pool
// constructor is lazy, so this succeeds; only Ping fails.
func unreachablePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg, err := pgxpool.ParseConfig("postgres://relay:x@127.0.0.1:1/rumex?sslmode=disable&connect_timeout=1")
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.MinConns = 0
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestHealthHandler_UnreachableDatabase(t *testing.T) {
	pool := unreachablePool(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()

	if err := HealthHandler(pool)(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var body struct {
		Status string     `json:"status"`
		Error  string     `json:"error"`
		Pool   *PoolStats `json:"pool"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("status = %q, want unhealthy", body.Status)
	}
	if body.Error == "" {
		t.Error("expected the ping error in the response")
	}
	if body.Pool == nil || body.Pool.Healthy {
		t.Errorf("pool stats = %+v, want reported unhealthy", body.Pool)
	}
}

func TestGetPoolStats_IdlePool(t *testing.T) {
	pool := unreachablePool(t)

	stats := GetPoolStats(pool)
	if stats.TotalConns != 0 {
		t.Errorf("TotalConns = %d, want 0 for a pool that never connected", stats.TotalConns)
	}
	if stats.Healthy {
		t.Error("a pool with no connections must not report healthy")
	}
}
