package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/armandusbasson/KSA-PSMS/internal/auth"
	"github.com/armandusbasson/KSA-PSMS/internal/db"
	"github.com/armandusbasson/KSA-PSMS/internal/excel"
	"github.com/armandusbasson/KSA-PSMS/internal/filestore"
	"github.com/armandusbasson/KSA-PSMS/internal/http/middleware"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/pdf"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

type testServer struct {
	router *gin.Engine
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	files, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	log := zerolog.Nop()

	siteRepo := repository.NewSiteRepository(database)
	staffRepo := repository.NewStaffRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	contractRepo := repository.NewContractRepository(database)
	meetingRepo := repository.NewMeetingRepository(database)
	userRepo := repository.NewUserRepository(database)

	tokens := auth.NewManager("test-secret", time.Hour)

	siteService := service.NewSiteService(siteRepo, staffRepo)
	staffService := service.NewStaffService(staffRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, staffRepo, files, log)
	contractService := service.NewContractService(contractRepo, siteRepo, staffRepo, files, excel.NewGenerator(), log)
	meetingService := service.NewMeetingService(meetingRepo, siteRepo, staffRepo, pdf.NewGenerator())
	authService := service.NewAuthService(userRepo, tokens)

	handlers := Handlers{
		Auth:      NewAuthHandler(authService, log),
		Sites:     NewSiteHandler(siteService, log),
		Staff:     NewStaffHandler(staffService, log),
		Vehicles:  NewVehicleHandler(vehicleService, log),
		Contracts: NewContractHandler(contractService, log),
		Meetings:  NewMeetingHandler(meetingService, log),
	}
	router := NewRouter("test", log, files.Root(), handlers, middleware.Auth(tokens))
	return &testServer{router: router, auth: authService}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) loginAs(t *testing.T, username, password string, role model.UserRole) string {
	t.Helper()
	_, err := s.auth.CreateUser(context.Background(), service.UserCreateInput{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)

	result, err := s.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	return result.AccessToken
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)
	rec := server.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSiteEndpoints(t *testing.T) {
	server := newTestServer(t)

	// Registry endpoints take no token.
	rec := server.do(t, http.MethodPost, "/api/sites", "", gin.H{"name": "Kendal"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var site model.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))
	assert.Equal(t, "Kendal", site.Name)

	rec = server.do(t, http.MethodPost, "/api/sites", "", gin.H{"name": "Kendal"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = server.do(t, http.MethodGet, fmt.Sprintf("/api/sites/%d", site.ID), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/sites/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/sites/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSiteStaffLinkEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/sites", "", gin.H{"name": "Duvha"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var site model.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))

	rec = server.do(t, http.MethodPost, "/api/staff", "", gin.H{"name": "Thabo"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var member model.Staff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))

	linkPath := fmt.Sprintf("/api/sites/%d/staff/%d", site.ID, member.ID)

	rec = server.do(t, http.MethodPost, linkPath, "", gin.H{"role": "Supervisor"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Re-adding the same triple returns the existing link.
	rec = server.do(t, http.MethodPost, linkPath, "", gin.H{"role": "Supervisor"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodPost, linkPath, "", gin.H{"role": "Janitor"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodGet, fmt.Sprintf("/api/sites/%d/staff", site.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var links []model.SiteStaffLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	assert.Len(t, links, 1)

	rec = server.do(t, http.MethodDelete, linkPath, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodDelete, linkPath+"?role=Supervisor", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodDelete, linkPath+"?role=Supervisor", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContractDateValidation(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/sites", "", gin.H{"name": "Matla"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var site model.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))

	rec = server.do(t, http.MethodPost, "/api/staff", "", gin.H{"name": "Anna"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var member model.Staff
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))

	rec = server.do(t, http.MethodPost, "/api/contracts", "", gin.H{
		"contract_type":        "Supply",
		"start_date":           "2026-06-01",
		"end_date":             "2026-01-01",
		"site_id":              site.ID,
		"responsible_staff_id": member.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/contracts", "", gin.H{
		"contract_type":        "Supply",
		"start_date":           "2026-01-01",
		"end_date":             "not-a-date",
		"site_id":              site.ID,
		"responsible_staff_id": member.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/contracts", "", gin.H{
		"contract_type":        "Supply",
		"start_date":           "2026-01-01",
		"end_date":             "2026-12-31",
		"site_id":              site.ID,
		"responsible_staff_id": member.ID,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/contracts/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary model.ContractSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, int64(1), summary.TotalContracts)
}

func TestAuthGating(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := server.loginAs(t, "plain", "secret123", model.UserRoleUser)

	rec = server.do(t, http.MethodGet, "/api/auth/me", userToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Non-admin cannot manage users.
	rec = server.do(t, http.MethodGet, "/api/auth/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := server.loginAs(t, "boss", "secret123", model.UserRoleAdmin)

	rec = server.do(t, http.MethodGet, "/api/auth/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	server := newTestServer(t)
	adminToken := server.loginAs(t, "boss", "secret123", model.UserRoleAdmin)

	rec := server.do(t, http.MethodGet, "/api/auth/me", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))

	rec = server.do(t, http.MethodDelete, fmt.Sprintf("/api/auth/users/%d", me.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	server := newTestServer(t)
	server.loginAs(t, "armand", "secret123", model.UserRoleUser)

	rec := server.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "armand",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "bearer", result.TokenType)

	rec = server.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "armand",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeetingItemReplaceOverHTTP(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/sites", "", gin.H{"name": "Tutuka"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var site model.Site
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &site))

	rec = server.do(t, http.MethodPost, "/api/meetings", "", gin.H{
		"site_id": site.ID,
		"items": []gin.H{
			{"issue_discussed": "First"},
			{"issue_discussed": "Second"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var meeting model.Meeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meeting))
	require.Len(t, meeting.Items, 2)

	// PUT without "items" leaves them alone.
	rec = server.do(t, http.MethodPut, fmt.Sprintf("/api/meetings/%d", meeting.ID), "", gin.H{
		"agenda": "Updated",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Meeting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Len(t, updated.Items, 2)

	// PUT with an empty array clears them.
	rec = server.do(t, http.MethodPut, fmt.Sprintf("/api/meetings/%d", meeting.ID), "", gin.H{
		"items": []gin.H{},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Len(t, updated.Items, 0)
}

func TestVehicleRoutes(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/vehicles", "", gin.H{
		"registration_plate": "KSA 100 MP",
		"make":               "Toyota",
		"model":              "Hilux",
		"year":               2022,
		"vehicle_type":       "Bakkie",
		"primary_use":        "Site visits",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/vehicles/KSA%20100%20MP", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/vehicles/type/Bakkie", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var vehicles []model.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles, 1)
}
