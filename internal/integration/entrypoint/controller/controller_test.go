package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/advisory-portal/backend/internal/application/adapter"
	"github.com/advisory-portal/backend/internal/application/usecase/admin"
	"github.com/advisory-portal/backend/internal/application/usecase/auth"
	"github.com/advisory-portal/backend/internal/application/usecase/portfolio"
	"github.com/advisory-portal/backend/internal/domain/entity"
	domainerror "github.com/advisory-portal/backend/internal/domain/error"
	"github.com/advisory-portal/backend/internal/domain/payout"
	"github.com/advisory-portal/backend/internal/domain/valueobject"
	"github.com/advisory-portal/backend/internal/integration/adapters"
	"github.com/advisory-portal/backend/internal/integration/cache"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/dto"
	"github.com/advisory-portal/backend/internal/integration/entrypoint/middleware"
	"github.com/advisory-portal/backend/internal/integration/persistence"
	"github.com/advisory-portal/backend/internal/integration/persistence/model"
)

var fixedNow = time.Date(2026, time.April, 30, 9, 0, 0, 0, time.UTC)

type testServer struct {
	router       *gin.Engine
	users        adapter.UserRepository
	transactions adapter.TransactionRepository
	investor     *entity.User
	admin        *entity.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.UserModel{}, &model.TransactionModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := persistence.NewUserRepository(db)
	transactions := persistence.NewTransactionRepository(db)
	summaryCache := cache.NewMemorySummaryCache(time.Minute)
	resolver := payout.NewResolver(12, nil)
	calculator := portfolio.NewSummaryCalculator(resolver, payout.DefaultRateSchedule, 4)
	rate := valueobject.ExchangeRate{Base: "NGN", Quote: "USD", Rate: decimal.RequireFromString("0.00065")}
	formatter := dto.NewAmountFormatter(rate)
	clock := func() time.Time { return fixedNow }

	portfolioController := NewPortfolioController(
		portfolio.NewGetPortfolioUseCase(users, transactions, calculator, summaryCache),
		portfolio.NewListTransactionsUseCase(transactions),
		portfolio.NewExportStatementUseCase(transactions, rate),
		formatter,
		clock,
	)
	adminController := NewAdminController(AdminUseCases{
		CreateUser:         admin.NewCreateUserUseCase(users, adapters.NewPasswordService(bcrypt.MinCost)),
		ListInvestors:      admin.NewListInvestorsUseCase(users),
		GetInvestorSummary: admin.NewGetInvestorSummaryUseCase(users, transactions, calculator),
		SetPayoutWindow:    admin.NewSetPayoutWindowUseCase(users, summaryCache),
		GeneratePayout:     admin.NewGeneratePayoutUseCase(users, transactions, calculator, summaryCache, admin.PayoutNotifier{Rate: rate}),
		CreateTransaction:  admin.NewCreateTransactionUseCase(users, transactions, resolver, summaryCache),
		UpdateTransaction:  admin.NewUpdateTransactionUseCase(transactions, resolver, summaryCache),
		DeleteTransaction:  admin.NewDeleteTransactionUseCase(transactions, resolver, summaryCache, nil),
	}, formatter, clock)

	s := &testServer{users: users, transactions: transactions}
	s.investor = s.createUser(t, entity.RoleClient)
	s.admin = s.createUser(t, entity.RoleAdmin)

	router := gin.New()
	client := router.Group("/portfolio", impersonate(s.investor))
	client.GET("", portfolioController.Get)
	client.GET("/transactions", portfolioController.ListTransactions)
	client.GET("/statement.csv", portfolioController.ExportStatement)

	back := router.Group("/admin", impersonate(s.admin), middleware.RequireRole(entity.RoleAdmin))
	back.POST("/users", adminController.CreateUser)
	back.GET("/investors", adminController.ListInvestors)
	back.GET("/investors/:id/summary", adminController.GetInvestorSummary)
	back.PUT("/investors/:id/payout-window", adminController.SetPayoutWindow)
	back.POST("/investors/:id/payouts", adminController.GeneratePayout)
	back.POST("/transactions", adminController.CreateTransaction)
	back.PATCH("/transactions/:id", adminController.UpdateTransaction)
	back.DELETE("/transactions/:id", adminController.DeleteTransaction)
	s.router = router

	return s
}

// impersonate stands in for token authentication.
func impersonate(user *entity.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(middleware.UserIDKey), user.ID)
		c.Set(string(middleware.UserRoleKey), user.Role)
		c.Next()
	}
}

func (s *testServer) createUser(t *testing.T, role entity.UserRole) *entity.User {
	t.Helper()
	user := entity.NewUser(uuid.NewString()+"@example.com", "Funmi Bello", "hash", role)
	if err := s.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func (s *testServer) deposit(t *testing.T, amount string, date string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/admin/transactions", map[string]string{
		"investor_id": s.investor.ID.String(),
		"kind":        "deposit",
		"amount":      amount,
		"date":        date,
		"category":    "commodities",
		"description": "Initial commodities allocation",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for deposit, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPortfolio_Get(t *testing.T) {
	s := newTestServer(t)
	s.deposit(t, "7300000", "2025-01-10")

	rec := s.do(t, http.MethodGet, "/portfolio", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decode[dto.PortfolioResponse](t, rec)
	if resp.CommoditiesPrincipal != "7300000" {
		t.Errorf("expected commodities principal 7300000, got %s", resp.CommoditiesPrincipal)
	}
	if resp.ProjectedReturn != "2336000" {
		t.Errorf("expected projected return 2336000, got %s", resp.ProjectedReturn)
	}
	if resp.ProjectedReturnSecondary != "1518.40" {
		t.Errorf("expected secondary 1518.40, got %s", resp.ProjectedReturnSecondary)
	}
	if resp.AsOf != "2026-04-30" || resp.NextPayoutMonth != "January" {
		t.Errorf("unexpected as_of %s / next payout month %s", resp.AsOf, resp.NextPayoutMonth)
	}
	if strings.Contains(rec.Body.String(), "admin_fee") {
		t.Error("expected the admin fee to stay out of the client view")
	}

	rec = s.do(t, http.MethodGet, "/portfolio?as_of=30-04-2026", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed as_of, got %d", rec.Code)
	}
}

func TestPortfolio_TransactionsAndStatement(t *testing.T) {
	s := newTestServer(t)
	s.deposit(t, "1000000", "2025-01-10")
	s.deposit(t, "500000", "2025-03-02")

	rec := s.do(t, http.MethodGet, "/portfolio/transactions?limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	list := decode[dto.TransactionListResponse](t, rec)
	if len(list.Transactions) != 1 || list.Pagination.Total != 2 {
		t.Errorf("expected 1 of 2 transactions, got %d of %d", len(list.Transactions), list.Pagination.Total)
	}
	if list.Totals.TotalContributions != "1500000" {
		t.Errorf("expected totals over every page, got %s", list.Totals.TotalContributions)
	}

	rec = s.do(t, http.MethodGet, "/portfolio/statement.csv?from=2025-01-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("expected CSV content type, got %s", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "statement_2025-01-01.csv") {
		t.Errorf("unexpected disposition %s", rec.Header().Get("Content-Disposition"))
	}

	rec = s.do(t, http.MethodGet, "/portfolio/transactions?start_date=yesterday", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed date, got %d", rec.Code)
	}
}

func TestAdmin_GeneratePayoutFlow(t *testing.T) {
	s := newTestServer(t)
	s.deposit(t, "7300000", "2025-01-10")
	payoutsPath := "/admin/investors/" + s.investor.ID.String() + "/payouts"

	rec := s.do(t, http.MethodPost, payoutsPath, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a window, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decode[dto.ErrorResponse](t, rec); resp.Code != string(domainerror.ErrCodeMissingPayoutWindow) {
		t.Errorf("expected missing window code, got %s", resp.Code)
	}

	rec = s.do(t, http.MethodPut, "/admin/investors/"+s.investor.ID.String()+"/payout-window", map[string]string{
		"start": "2026-01-01",
		"end":   "2026-04-30",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 setting window, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, payoutsPath, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decode[dto.PayoutResponse](t, rec)
	if resp.Payout.Amount != "2336000" || resp.Payout.Date != "2026-05-01" || resp.Payout.Status != "pending" {
		t.Errorf("unexpected payout %+v", resp.Payout)
	}
	if resp.AdminFee != "584000" || resp.InvestorShareSecondary != "1518.40" {
		t.Errorf("unexpected split admin %s / secondary %s", resp.AdminFee, resp.InvestorShareSecondary)
	}

	rec = s.do(t, http.MethodPost, payoutsPath, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate payout, got %d", rec.Code)
	}
	if resp := decode[dto.ErrorResponse](t, rec); resp.Code != string(domainerror.ErrCodePayoutAlreadyGenerated) {
		t.Errorf("expected duplicate payout code, got %s", resp.Code)
	}
}

func TestAdmin_CreateTransactionErrors(t *testing.T) {
	s := newTestServer(t)
	s.deposit(t, "1000000", "2025-01-10")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "locked withdrawal",
			body:           map[string]string{"kind": "withdrawal", "amount": "100", "date": "2025-06-01", "category": "commodities"},
			expectedStatus: http.StatusConflict,
			expectedCode:   string(domainerror.ErrCodePrincipalLocked),
		},
		{
			name:           "dividend outside payout month",
			body:           map[string]string{"kind": "dividend", "amount": "100", "date": "2025-06-01", "category": "commodities"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(domainerror.ErrCodeInvalidPayoutMonth),
		},
		{
			name:           "amount is not a number",
			body:           map[string]string{"kind": "deposit", "amount": "ten", "date": "2025-06-01"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(domainerror.ErrCodeInvalidTransactionAmount),
		},
		{
			name:           "unknown kind",
			body:           map[string]string{"kind": "refund", "amount": "10", "date": "2025-06-01"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   string(domainerror.ErrCodeInvalidTransactionKind),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["investor_id"] = s.investor.ID.String()
			rec := s.do(t, http.MethodPost, "/admin/transactions", tt.body)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if resp := decode[dto.ErrorResponse](t, rec); resp.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, resp.Code)
			}
		})
	}

	rec := s.do(t, http.MethodPost, "/admin/transactions", map[string]string{
		"investor_id": s.investor.ID.String(), "kind": "withdrawal", "amount": "100", "date": "2025-06-01", "category": "commodities",
	})
	if resp := decode[dto.ErrorResponse](t, rec); resp.LockReleaseDate == nil || *resp.LockReleaseDate != "2026-01-01" {
		t.Errorf("expected lock release date 2026-01-01, got %v", resp.LockReleaseDate)
	}
}

func TestAdmin_InvestorsAndCorrections(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/admin/users", map[string]string{
		"email": "new.investor@example.com", "name": "New Investor", "password": "welcome123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/admin/investors", nil)
	list := decode[dto.InvestorListResponse](t, rec)
	if len(list.Investors) != 2 {
		t.Errorf("expected 2 investors, got %d", len(list.Investors))
	}

	rec = s.do(t, http.MethodGet, "/admin/investors/"+s.admin.ID.String()+"/summary", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an admin account, got %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/admin/investors/not-a-uuid/summary", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", rec.Code)
	}

	s.deposit(t, "2000", "2025-02-01")
	txns, _ := s.transactions.FindByInvestor(context.Background(), s.investor.ID)
	path := "/admin/transactions/" + txns[0].ID.String()

	rec = s.do(t, http.MethodPatch, path, map[string]string{"amount": "2500", "notes": "<script>x</script>bank fee"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decode[dto.TransactionResponse](t, rec)
	if updated.Amount != "2500" || updated.Notes != "bank fee" {
		t.Errorf("unexpected correction amount %s notes %q", updated.Amount, updated.Notes)
	}

	if rec = s.do(t, http.MethodDelete, path, nil); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec = s.do(t, http.MethodDelete, path, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	release := time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)
	locked := domainerror.NewPayoutError(domainerror.ErrCodePrincipalLocked, "locked", nil)
	locked.LockReleaseDate = &release

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"email exists", domainerror.NewAuthError(domainerror.ErrCodeEmailExists, "exists", nil), http.StatusConflict},
		{"forbidden", domainerror.NewAuthError(domainerror.ErrCodeForbidden, "no", nil), http.StatusForbidden},
		{"expired token", domainerror.NewAuthError(domainerror.ErrCodeExpiredToken, "expired", nil), http.StatusUnauthorized},
		{"investor not found", domainerror.NewTransactionError(domainerror.ErrCodeInvestorNotFound, "missing", nil), http.StatusNotFound},
		{"locked principal", locked, http.StatusConflict},
		{"invalid window", domainerror.NewPayoutError(domainerror.ErrCodeInvalidPayoutWindow, "bad", nil), http.StatusBadRequest},
		{"wrapped payout error", fmt.Errorf("outer: %w", locked), http.StatusConflict},
		{"unknown", errors.New("database down"), http.StatusInternalServerError},
	}

	gin.SetMode(gin.TestMode)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			respondWithError(ctx, tt.err)
			if rec.Code != tt.expectedStatus {
				t.Errorf("expected %d, got %d", tt.expectedStatus, rec.Code)
			}
		})
	}

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	respondWithError(ctx, locked)
	if !strings.Contains(rec.Body.String(), `"lock_release_date":"2027-03-01"`) {
		t.Errorf("expected lock release date in body, got %s", rec.Body.String())
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, adapter.UserRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&model.UserModel{}, &model.RefreshTokenModel{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := persistence.NewUserRepository(db)
	passwords := adapters.NewPasswordService(bcrypt.MinCost)
	tokens := adapters.NewTokenService("controller-secret", adapters.TokenDurations{}, persistence.NewTokenRepository(db))

	c := NewAuthController(AuthUseCases{
		Register: auth.NewRegisterUserUseCase(users, passwords, tokens),
		Login:    auth.NewLoginUserUseCase(users, passwords, tokens),
		Refresh:  auth.NewRefreshTokenUseCase(users, tokens),
		Logout:   auth.NewLogoutUserUseCase(tokens),
	})

	router := gin.New()
	router.POST("/auth/register", c.Register)
	router.POST("/auth/login", c.Login)
	router.POST("/auth/refresh", c.RefreshToken)
	router.POST("/auth/logout", c.Logout)

	hash, err := passwords.HashPassword("Backoffice1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := users.Create(context.Background(), entity.NewUser("ops@example.com", "Ops", hash, entity.RoleAdmin)); err != nil {
		t.Fatalf("failed to create admin: %v", err)
	}

	return router, users
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	decoded := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func TestAuthController_SessionCarriesRole(t *testing.T) {
	router, _ := newAuthRouter(t)

	tests := []struct {
		name           string
		path           string
		body           map[string]any
		expectedStatus int
		expectedRole   string
		expectedHome   string
	}{
		{
			name:           "registration opens the investor portal",
			path:           "/auth/register",
			body:           map[string]any{"email": "Kemi@Example.com", "name": "Kemi", "password": "Investor1"},
			expectedStatus: http.StatusCreated,
			expectedRole:   "client",
			expectedHome:   "/portfolio",
		},
		{
			name:           "staff login opens the back office",
			path:           "/auth/login",
			body:           map[string]any{"email": "ops@example.com", "password": "Backoffice1"},
			expectedStatus: http.StatusOK,
			expectedRole:   "admin",
			expectedHome:   "/admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := postJSON(t, router, tt.path, tt.body)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if body["role"] != tt.expectedRole {
				t.Errorf("expected role %s, got %v", tt.expectedRole, body["role"])
			}
			if body["home"] != tt.expectedHome {
				t.Errorf("expected home %s, got %v", tt.expectedHome, body["home"])
			}
			if body["token_type"] != "Bearer" {
				t.Errorf("expected Bearer token type, got %v", body["token_type"])
			}
			user, _ := body["user"].(map[string]any)
			if user["role"] != tt.expectedRole {
				t.Errorf("expected user role %s, got %v", tt.expectedRole, user["role"])
			}
		})
	}
}

func TestAuthController_RefreshAndLogout(t *testing.T) {
	router, _ := newAuthRouter(t)

	_, first := postJSON(t, router, "/auth/login", map[string]any{"email": "ops@example.com", "password": "Backoffice1"})
	_, second := postJSON(t, router, "/auth/login", map[string]any{"email": "ops@example.com", "password": "Backoffice1", "remember_me": true})

	rec, refreshed := postJSON(t, router, "/auth/refresh", map[string]any{"refresh_token": first["refresh_token"]})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if refreshed["role"] != "admin" {
		t.Errorf("expected refreshed role admin, got %v", refreshed["role"])
	}

	rec, body := postJSON(t, router, "/auth/refresh", map[string]any{"refresh_token": first["refresh_token"]})
	if rec.Code != http.StatusUnauthorized || body["code"] != string(domainerror.ErrCodeInvalidToken) {
		t.Errorf("expected 401 %s on replay, got %d %v", domainerror.ErrCodeInvalidToken, rec.Code, body["code"])
	}

	rec, body = postJSON(t, router, "/auth/logout", map[string]any{"refresh_token": second["refresh_token"], "all_devices": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["revoked_sessions"] != float64(2) {
		t.Errorf("expected 2 revoked sessions, got %v", body["revoked_sessions"])
	}

	rec, _ = postJSON(t, router, "/auth/refresh", map[string]any{"refresh_token": refreshed["refresh_token"]})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected the refreshed session to be signed out, got %d", rec.Code)
	}
}

func TestAuthController_BadBodies(t *testing.T) {
	router, _ := newAuthRouter(t)

	tests := []struct {
		name         string
		path         string
		body         map[string]any
		expectedCode string
	}{
		{"register without name", "/auth/register", map[string]any{"email": "a@example.com", "password": "Investor1"}, string(domainerror.ErrCodeMissingFields)},
		{"login with malformed email", "/auth/login", map[string]any{"email": "nope", "password": "x"}, string(domainerror.ErrCodeMissingFields)},
		{"refresh without token", "/auth/refresh", map[string]any{}, string(domainerror.ErrCodeMissingToken)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := postJSON(t, router, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if body["code"] != tt.expectedCode {
				t.Errorf("expected code %s, got %v", tt.expectedCode, body["code"])
			}
		})
	}

	rec, body := postJSON(t, router, "/auth/logout", map[string]any{})
	if rec.Code != http.StatusOK || body["revoked_sessions"] != float64(0) {
		t.Errorf("expected an empty logout to succeed with 0 sessions, got %d %v", rec.Code, body)
	}
}
