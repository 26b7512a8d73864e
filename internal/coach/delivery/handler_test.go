package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"fitai-backend/internal/audit"
	"fitai-backend/internal/coach/domain"
	"fitai-backend/internal/coach/repository"
	"fitai-backend/internal/coach/usecase"
	userdomain "fitai-backend/internal/user/domain"
	userrepo "fitai-backend/internal/user/repository"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := userrepo.NewMemoryUserRepository()
	_ = users.Create(context.Background(), &userdomain.User{ID: "coach", Role: userdomain.RoleCoach})
	_ = users.Create(context.Background(), &userdomain.User{ID: "ana", Role: userdomain.RoleStudent})
	h := NewCoachHandler(usecase.NewCoachUsecase(repository.NewMemoryCoachRepository(users), users, audit.NewLogRecorder(), nil))

	r := gin.New()
	// Tests pick the caller with a header
	r.Use(func(c *gin.Context) {
		c.Set("userID", c.GetHeader("X-Test-User"))
		c.Next()
	})
	r.POST("/api/coach/invites", h.CreateInvite)
	r.POST("/api/coach/invites/:code/redeem", h.RedeemInvite)
	r.GET("/api/coach/students", h.ListStudents)
	r.DELETE("/api/coach/links/:coachId/:studentId", h.Unlink)
	return r
}

func call(r http.Handler, user, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User", user)
	r.ServeHTTP(w, req)
	return w
}

func TestInviteFlow(t *testing.T) {
	r := newRouter(t)

	w := call(r, "coach", http.MethodPost, "/api/coach/invites")
	if w.Code != http.StatusCreated {
		t.Fatalf("create invite: expected 201, got %d", w.Code)
	}
	var inv domain.Invite
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatal(err)
	}

	if w := call(r, "ana", http.MethodPost, "/api/coach/invites/"+inv.Code+"/redeem"); w.Code != http.StatusOK {
		t.Fatalf("redeem: expected 200, got %d", w.Code)
	}
	if w := call(r, "ana", http.MethodPost, "/api/coach/invites/"+inv.Code+"/redeem"); w.Code != http.StatusGone {
		t.Fatalf("second redeem: expected 410, got %d", w.Code)
	}

	w = call(r, "coach", http.MethodGet, "/api/coach/students")
	var body struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Total != 1 {
		t.Fatalf("expected one student, got %s", w.Body.String())
	}

	if w := call(r, "ana", http.MethodDelete, "/api/coach/links/coach/ana"); w.Code != http.StatusOK {
		t.Fatalf("unlink: expected 200, got %d", w.Code)
	}
	if w := call(r, "ana", http.MethodDelete, "/api/coach/links/coach/ana"); w.Code != http.StatusNotFound {
		t.Fatalf("second unlink: expected 404, got %d", w.Code)
	}
}

func TestStudentCannotCreateInvite(t *testing.T) {
	if w := call(newRouter(t), "ana", http.MethodPost, "/api/coach/invites"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
