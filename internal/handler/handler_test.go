package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/internal/middleware"
	"github.com/noah-isme/spms-api/internal/models"
	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/internal/store"
	"github.com/noah-isme/spms-api/pkg/kv"
)

// memKV keeps documents in memory so handler tests run against the real
// store without touching disk.
type memKV struct {
	docs map[string][]byte
}

func (m *memKV) Load(_ context.Context, collection string, dest interface{}) error {
	raw, ok := m.docs[collection]
	if !ok {
		return kv.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (m *memKV) Save(_ context.Context, collection string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if m.docs == nil {
		m.docs = make(map[string][]byte)
	}
	m.docs[collection] = raw
	return nil
}

type testEnv struct {
	router *gin.Engine
	auth   *service.AuthService
}

// newTestEnv wires the real store (seeded), services and routes the way
// main does, minus metrics and swagger.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	validate := validator.New()

	st, err := store.Open(context.Background(), &memKV{}, logger)
	require.NoError(t, err)

	authCfg := service.AuthConfig{
		AccessTokenSecret:      "handler-test-secret",
		AccessTokenExpiry:      time.Hour,
		Issuer:                 "spms-api-test",
		BootstrapAdminUsername: "admin",
		BootstrapAdminID:       "1",
	}

	authSvc := service.NewAuthService(st, validate, logger, authCfg)
	userSvc := service.NewUserService(st, validate, logger)
	subjectSvc := service.NewSubjectService(st, validate, logger)
	rosterSvc := service.NewRosterService(st, logger)
	gradeSvc := service.NewGradeService(st, rosterSvc, nil, validate, logger)
	attendanceSvc := service.NewAttendanceService(st, nil, validate, logger)
	settingsSvc := service.NewSettingsService(st, validate, logger)
	auditSvc := service.NewAuditService(st, logger)

	router := gin.New()
	api := router.Group("/api/v1")

	authHandler := NewAuthHandler(authSvc)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	userHandler := NewUserHandler(userSvc)
	protected.GET("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
	protected.POST("/users", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
	protected.DELETE("/users/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)

	subjectHandler := NewSubjectHandler(subjectSvc)
	protected.GET("/subjects", subjectHandler.List)
	protected.POST("/subjects", middleware.RequireRoles(models.RoleTeacher), subjectHandler.Request)

	gradeHandler := NewGradeHandler(gradeSvc)
	protected.GET("/students/:id/grades", middleware.RBAC("ADMIN", "TEACHER", "SELF"), gradeHandler.ListByStudent)
	protected.POST("/grades", middleware.RequireRoles(models.RoleTeacher), gradeHandler.Upsert)

	attendanceHandler := NewAttendanceHandler(attendanceSvc)
	protected.POST("/attendance", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Record)

	settingsHandler := NewSettingsHandler(settingsSvc)
	protected.GET("/settings", settingsHandler.Get)
	protected.PUT("/settings", middleware.RequireRoles(models.RoleAdmin), settingsHandler.Update)

	auditHandler := NewAuditHandler(auditSvc)
	protected.GET("/audit-logs", middleware.RequireRoles(models.RoleAdmin), auditHandler.List)

	return &testEnv{router: router, auth: authSvc}
}

func (e *testEnv) login(t *testing.T, identifier string) string {
	t.Helper()
	resp, err := e.auth.Login(context.Background(), service.LoginRequest{Identifier: identifier})
	require.NoError(t, err)
	return resp.AccessToken
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "student"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data struct {
			AccessToken string      `json:"access_token"`
			User        models.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.Equal(t, "3", envelope.Data.User.ID)

	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "ghost"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/users", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserRoutesAdminOnly(t *testing.T) {
	env := newTestEnv(t)

	studentToken := env.login(t, "student")
	rec := env.do(http.MethodGet, "/api/v1/users", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := env.login(t, "admin")
	rec = env.do(http.MethodGet, "/api/v1/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/users", adminToken, gin.H{
		"username":  "teacher2",
		"full_name": "Jane Doe",
		"email":     "jane@spms.edu",
		"role":      "TEACHER",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate username maps to 409.
	rec = env.do(http.MethodPost, "/api/v1/users", adminToken, gin.H{
		"username":  "teacher2",
		"full_name": "Shadow",
		"email":     "shadow@spms.edu",
		"role":      "TEACHER",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStudentGradesSelfAccess(t *testing.T) {
	env := newTestEnv(t)

	aliceToken := env.login(t, "student")
	rec := env.do(http.MethodGet, "/api/v1/students/3/grades", aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another student's records are off limits.
	rec = env.do(http.MethodGet, "/api/v1/students/4/grades", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	teacherToken := env.login(t, "teacher")
	rec = env.do(http.MethodGet, "/api/v1/students/4/grades", teacherToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMaintenanceModeBlocksLogin(t *testing.T) {
	env := newTestEnv(t)

	adminToken := env.login(t, "admin")
	rec := env.do(http.MethodPut, "/api/v1/settings", adminToken, gin.H{
		"system_name":               "SPMS - Student Performance Monitoring",
		"maintenance_mode":          true,
		"allow_registration":        true,
		"grade_modification_window": 14,
		"theme_color":               "blue",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "student"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The bootstrap admin can still get in to lift maintenance.
	rec = env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"identifier": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecordAttendanceEndpoint(t *testing.T) {
	env := newTestEnv(t)

	teacherToken := env.login(t, "teacher")
	rec := env.do(http.MethodPost, "/api/v1/attendance", teacherToken, gin.H{
		"student_id": "3",
		"subject_id": "101",
		"date":       "2023-10-06",
		"status":     "LATE",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/attendance", teacherToken, gin.H{
		"student_id": "3",
		"subject_id": "101",
		"date":       "2023-10-06",
		"status":     "INVALID",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
