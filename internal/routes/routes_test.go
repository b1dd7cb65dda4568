package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	"github.com/rishangit/s-ams-sub002/internal/config"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/logging"
	"github.com/rishangit/s-ams-sub002/internal/models"
	"github.com/rishangit/s-ams-sub002/internal/testutil"
)

type server struct {
	router   *gin.Engine
	db       *gorm.DB
	fx       *testutil.Fixture
	shutdown func()
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)

	r := gin.New()
	shutdown := RegisterRoutes(r, Deps{
		DB: db,
		Config: &config.Config{
			JWTSecret:    "routes-test-secret",
			RateLimitRPS: 0,
		},
		Logger:   logging.NewWithOutput("error", "json", io.Discard),
		Guard:    inflight.NewLocalGuard(),
		Registry: prometheus.NewRegistry(),
	})

	return &server{router: r, db: db, fx: fx, shutdown: shutdown}
}

func (s *server) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (s *server) login(t *testing.T, email string) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": testutil.Password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token, ok := body["token"].(string)
	require.True(t, ok)
	return token
}

func appointmentPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/me/appointments/%d%s", id, suffix)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()

	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ams_http_request_duration_seconds")
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()

	w, body := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "OWNER@example.com",
		"password": testutil.Password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Northside Salon", body["company"].(map[string]any)["name"])

	w, body = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "owner@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", body["error_code"])

	w, _ = s.do(t, http.MethodGet, "/api/me/appointments", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListIsScopedByRole(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()

	w, body := s.do(t, http.MethodGet, "/api/me/appointments", s.login(t, "owner@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["appointments"], 4)
	assert.NotEmpty(t, body["columns"])

	w, body = s.do(t, http.MethodGet, "/api/me/appointments", s.login(t, "admin@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["appointments"], 5)

	w, body = s.do(t, http.MethodGet, "/api/me/appointments", s.login(t, "otto@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["appointments"], 1)

	w, body = s.do(t, http.MethodGet, appointmentPath(s.fx.Foreign.ID, "/actions"), s.login(t, "owner@example.com"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", body["error_code"])
}

func TestActions(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()

	w, body := s.do(t, http.MethodGet, appointmentPath(s.fx.Pending.ID, "/actions"), s.login(t, "owner@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	actions := body["actions"].([]any)
	require.NotEmpty(t, actions)
	first := actions[0].(map[string]any)
	assert.Equal(t, "advance_status", first["id"])
	assert.Equal(t, true, first["enabled"])

	w, _ = s.do(t, http.MethodGet, "/api/me/appointments/abc/actions", s.login(t, "owner@example.com"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOwnerWorkflow(t *testing.T) {
	s := newServer(t)
	token := s.login(t, "owner@example.com")
	id := s.fx.Pending.ID

	// Pending -> Confirmed is routed to staff assignment.
	w, body := s.do(t, http.MethodPost, appointmentPath(id, "/advance"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "assign_staff", body["route"])
	assert.Len(t, body["staff"], 1)
	assert.EqualValues(t, 0, body["appointment"].(map[string]any)["status"])

	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/assign-staff"), token, gin.H{"staff_id": s.fx.InactiveStaff.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "staff_not_found", body["error_code"])

	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/assign-staff"), token, gin.H{"staff_id": s.fx.ActiveStaff.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Confirmed", body["status_name"])

	// Confirmed -> Completed is routed to the completion form.
	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/advance"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completion", body["route"])
	assert.Equal(t, "create", body["completion"].(map[string]any)["mode"])

	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/completion"), token, gin.H{
		"products_used": []gin.H{
			{"product_id": s.fx.Shampoo.ID, "quantity_used": 2},
			{"product_id": s.fx.Conditioner.ID, "quantity_used": 1},
		},
		"notes": "long hair",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.InDelta(t, 25.5, body["record"].(map[string]any)["total_cost"], 0.0001)
	assert.Equal(t, "Completed", body["appointment"].(map[string]any)["status_name"])

	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/completion"), token, gin.H{
		"products_used": []gin.H{{"product_id": s.fx.Shampoo.ID, "quantity_used": 1}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "completion_record_exists", body["error_code"])

	w, body = s.do(t, http.MethodGet, appointmentPath(id, "/completion"), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "view", body["mode"])
	assert.NotNil(t, body["record_id"])
	assert.Len(t, body["products_used"], 2)

	w, body = s.do(t, http.MethodPut, appointmentPath(id, "/completion"), token, gin.H{
		"products_used": []gin.H{{"product_id": s.fx.Shampoo.ID, "quantity_used": 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 10.0, body["record"].(map[string]any)["total_cost"], 0.0001)

	w, body = s.do(t, http.MethodPost, appointmentPath(id, "/advance"), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", body["error_code"])

	s.shutdown()

	for _, action := range []string{
		audit.ActionStaffAssigned,
		audit.ActionCompletionCreate,
		audit.ActionCompletionUpdate,
	} {
		var n int64
		require.NoError(t, s.db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n).Error)
		assert.EqualValues(t, 1, n, action)
	}
}

func TestChangeStatus(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()

	w, body := s.do(t, http.MethodPatch, appointmentPath(s.fx.Confirmed.ID, "/status"), s.login(t, "staff@example.com"), gin.H{"status": "Completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", body["error_code"])

	w, body = s.do(t, http.MethodPatch, appointmentPath(s.fx.Cancelled.ID, "/status"), s.login(t, "admin@example.com"), gin.H{"status": 0})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", body["error_code"])

	w, body = s.do(t, http.MethodPatch, appointmentPath(s.fx.Pending.ID, "/status"), s.login(t, "cleo@example.com"), gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Cancelled", body["status_name"])

	w, _ = s.do(t, http.MethodPatch, appointmentPath(s.fx.Confirmed.ID, "/status"), s.login(t, "admin@example.com"), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()
	token := s.login(t, "owner@example.com")

	w, _ := s.do(t, http.MethodDelete, appointmentPath(s.fx.Cancelled.ID, ""), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = s.do(t, http.MethodGet, appointmentPath(s.fx.Cancelled.ID, "/actions"), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodDelete, appointmentPath(s.fx.Foreign.ID, ""), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogAndStaff(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()
	owner := s.login(t, "owner@example.com")

	w, body := s.do(t, http.MethodGet, "/api/me/products?active=true", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, body["total"])

	w, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/me/products/%d", s.fx.ForeignDye.ID), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/me/staff", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/me/staff", s.login(t, "staff@example.com"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMeAndRoleSwitch(t *testing.T) {
	s := newServer(t)
	defer s.shutdown()
	token := s.login(t, "owner@example.com")

	w, body := s.do(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", body["active_role"])

	req := httptest.NewRequest(http.MethodGet, "/api/me/columns", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Active-Role", "staff")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"staff"`)
}
