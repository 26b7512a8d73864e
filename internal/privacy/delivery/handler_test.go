package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/privacy/domain"
	"fitai-backend/internal/privacy/usecase"
	userdomain "fitai-backend/internal/user/domain"
)

type fakePrivacy struct {
	deleteErr error
}

func (f *fakePrivacy) Export(_ context.Context, userID string) (*domain.Export, error) {
	if userID != "u1" {
		return nil, usecase.ErrUserNotFound
	}
	return &domain.Export{
		GeneratedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		User:        &userdomain.User{ID: "u1", Email: "ana@example.com"},
	}, nil
}

func (f *fakePrivacy) DeleteAccount(context.Context, string) (*domain.DeletionReport, error) {
	return &domain.DeletionReport{UserRecord: true}, f.deleteErr
}

func router(p usecase.PrivacyUsecase, user string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPrivacyHandler(p)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", user); c.Next() })
	r.GET("/api/privacy/export", h.Export)
	r.DELETE("/api/privacy/account", h.DeleteAccount)
	return r
}

func TestExportAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	router(&fakePrivacy{}, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/privacy/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "fitai-export-20240501.json") {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), "ana@example.com") {
		t.Fatalf("export body missing user: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	router(&fakePrivacy{}, "ghost").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/privacy/export", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteAccountStatus(t *testing.T) {
	w := httptest.NewRecorder()
	router(&fakePrivacy{}, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/privacy/account", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router(&fakePrivacy{deleteErr: errors.New("partial")}, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/privacy/account", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
