package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/company-registry-backend/internal/handlers"
	"github.com/yungbote/company-registry-backend/internal/middleware"
	"github.com/yungbote/company-registry-backend/internal/platform/logger"
	"github.com/yungbote/company-registry-backend/internal/repos"
	"github.com/yungbote/company-registry-backend/internal/services"
	"github.com/yungbote/company-registry-backend/internal/types"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	if err := db.AutoMigrate(&types.Company{}, &types.Owner{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	companyRepo := repos.NewCompanyRepo(db, log)
	ssnService := services.NewSSNValidationService(log, 0)
	companyService := services.NewCompanyService(log, companyRepo, ssnService)
	authService := services.NewAuthService(log, "test-secret", time.Hour)

	return NewRouter(RouterConfig{
		Log:            log,
		AuthHandler:    handlers.NewAuthHandler(authService),
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
		CompanyHandler: handlers.NewCompanyHandler(log, companyService),
	})
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "pw",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login token: want non-empty")
	}
	return resp.Token
}

func ssnPtr(s string) *string { return &s }

func createCompany(t *testing.T, router *gin.Engine, token string, dto types.CompanyDTO) types.CompanyDTO {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/companies", token, dto)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: want=201 got=%d body=%s", w.Code, w.Body.String())
	}
	var created types.CompanyDTO
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created company: %v", err)
	}
	return created
}

func TestCompanyRoutesRequireAuth(t *testing.T) {
	router := newTestServer(t)

	w := doJSON(t, router, http.MethodGet, "/api/companies", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("trace id header: want non-empty")
	}
}

func TestRedactionAcrossRoles(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")
	userToken := login(t, router, "alice")

	created := createCompany(t, router, adminToken, types.CompanyDTO{
		Name: "Acme",
		Owners: []types.OwnerDTO{
			{Name: "Alice", SocialSecurityNumber: ssnPtr("111-11-1111")},
			{Name: "Bob", SocialSecurityNumber: ssnPtr("222-22-2222")},
		},
	})

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/companies/%d", created.ID), userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var asUser types.CompanyDTO
	if err := json.Unmarshal(w.Body.Bytes(), &asUser); err != nil {
		t.Fatalf("decode company: %v", err)
	}
	if len(asUser.Owners) != 2 {
		t.Fatalf("owner count: want=2 got=%d", len(asUser.Owners))
	}
	for _, owner := range asUser.Owners {
		if owner.SocialSecurityNumber != nil {
			t.Fatalf("owner %q ssn as user: want=null got=%q", owner.Name, *owner.SocialSecurityNumber)
		}
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/companies/%d", created.ID), adminToken, nil)
	var asAdmin types.CompanyDTO
	if err := json.Unmarshal(w.Body.Bytes(), &asAdmin); err != nil {
		t.Fatalf("decode company: %v", err)
	}
	for _, owner := range asAdmin.Owners {
		if owner.SocialSecurityNumber == nil || *owner.SocialSecurityNumber == "" {
			t.Fatalf("owner %q ssn as admin: want stored value, got %v", owner.Name, owner.SocialSecurityNumber)
		}
	}
}

func TestUpdateCompanyReconciliationOverHTTP(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")

	created := createCompany(t, router, adminToken, types.CompanyDTO{
		Name: "Acme",
		Owners: []types.OwnerDTO{
			{Name: "Keep", SocialSecurityNumber: ssnPtr("111-11-1111")},
			{Name: "Drop", SocialSecurityNumber: ssnPtr("222-22-2222")},
		},
	})
	keepID := created.Owners[0].ID

	w := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/companies/%d", created.ID), adminToken, types.CompanyDTO{
		ID:   created.ID,
		Name: "Acme",
		Owners: []types.OwnerDTO{
			{ID: keepID, Name: "Keep", SocialSecurityNumber: ssnPtr("111-11-1111")},
			{Name: "New", SocialSecurityNumber: ssnPtr("333-33-3333")},
		},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("update status: want=204 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/companies/%d", created.ID), adminToken, nil)
	var loaded types.CompanyDTO
	if err := json.Unmarshal(w.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode company: %v", err)
	}
	if len(loaded.Owners) != 2 {
		t.Fatalf("owner count: want=2 got=%d", len(loaded.Owners))
	}
	byName := map[string]types.OwnerDTO{}
	for _, o := range loaded.Owners {
		byName[o.Name] = o
	}
	if kept, ok := byName["Keep"]; !ok || kept.ID != keepID {
		t.Fatalf("kept owner: want id=%d got=%+v", keepID, byName["Keep"])
	}
	if added, ok := byName["New"]; !ok || added.ID == 0 || *added.SocialSecurityNumber != "333-33-3333" {
		t.Fatalf("new owner: want fresh id and ssn, got %+v", byName["New"])
	}
	if _, stillThere := byName["Drop"]; stillThere {
		t.Fatalf("dropped owner survived: %v", byName)
	}
}

func TestUpdateCompanyIDMismatchOverHTTP(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")

	w := doJSON(t, router, http.MethodPut, "/api/companies/5", adminToken, types.CompanyDTO{ID: 7, Name: "Acme"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: want=400 got=%d body=%s", w.Code, w.Body.String())
	}
	var fault middleware.FaultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fault); err != nil {
		t.Fatalf("decode fault: %v", err)
	}
	if fault.ErrorType != "BadRequest" {
		t.Fatalf("error type: want=BadRequest got=%q", fault.ErrorType)
	}
}

func TestOwnerSSNRouteIsAdminOnly(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")
	userToken := login(t, router, "alice")

	created := createCompany(t, router, adminToken, types.CompanyDTO{
		Name: "Acme",
		Owners: []types.OwnerDTO{
			{Name: "Alice", SocialSecurityNumber: ssnPtr("111-11-1111")},
		},
	})
	path := fmt.Sprintf("/api/companies/%d/owners/%d/ssn", created.ID, created.Owners[0].ID)

	w := doJSON(t, router, http.MethodGet, path, userToken, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non-admin status: want=401 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, path, adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Name                 string  `json:"name"`
		SocialSecurityNumber *string `json:"socialSecurityNumber"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode owner ssn response: %v", err)
	}
	if resp.SocialSecurityNumber == nil || *resp.SocialSecurityNumber != "111-11-1111" {
		t.Fatalf("ssn: want=111-11-1111 got=%v", resp.SocialSecurityNumber)
	}
}

func TestGetMissingCompanyOverHTTP(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")

	w := doJSON(t, router, http.MethodGet, "/api/companies/42", adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: want=404 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCheckSSNOverHTTP(t *testing.T) {
	router := newTestServer(t)
	userToken := login(t, router, "alice")

	w := doJSON(t, router, http.MethodGet, "/api/companies/check-ssn/111-11-1111", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	var resp map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode check-ssn response: %v", err)
	}
	if _, ok := resp["isValid"]; !ok {
		t.Fatalf("response: want isValid key, got %s", w.Body.String())
	}
}

func TestCreateCompanyValidationOverHTTP(t *testing.T) {
	router := newTestServer(t)
	adminToken := login(t, router, "admin")

	w := doJSON(t, router, http.MethodPost, "/api/companies", adminToken, types.CompanyDTO{Name: ""})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want=422 got=%d body=%s", w.Code, w.Body.String())
	}
	var fault middleware.FaultResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fault); err != nil {
		t.Fatalf("decode fault: %v", err)
	}
	if fault.ErrorType != "Validation" {
		t.Fatalf("error type: want=Validation got=%q", fault.ErrorType)
	}
}
