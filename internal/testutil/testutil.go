// Package testutil builds isolated stores and HTTP requests for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"online-voting-backend/internal/core/database"
	"online-voting-backend/internal/repo"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// One connection serialises writers the way a row lock would.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore is NewDB wrapped in a repo.Store.
func NewStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(NewDB(t))
}

// CountRows counts rows of model matching where (empty where counts all).
func CountRows(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

// MakeRequest builds a JSON request; body may be nil.
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

// DecodeJSON decodes the recorder body into v.
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
