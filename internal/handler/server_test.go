package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/handler"
	"github.com/greenmobilitypass/backend/internal/service"
)

// The handler tests run requests through the real chi router built by
// Server.Routes, with every service replaced by a function-field mock.
// Auth is exercised for real: the stub verifier accepts two fixed tokens.

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

var (
	testUserID  = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	testAdminID = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")

	testTime = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
)

// mockJourneyServicer is a hand-written test double for handler.JourneyServicer.
type mockJourneyServicer struct {
	createValidated func(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error)
	createPending   func(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error)
	get             func(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	listValidated   func(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error)
	listPending     func(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error)
	update          func(ctx context.Context, journeyID, userID uuid.UUID, upd domain.JourneyUpdate) (domain.Journey, error)
	validate        func(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	reject          func(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error)
	delete          func(ctx context.Context, journeyID, userID uuid.UUID) error
	recalculate     func(ctx context.Context, journeyID, userID uuid.UUID) (domain.ScoreHistory, error)
	scoreHistory    func(ctx context.Context, journeyID, userID uuid.UUID) ([]domain.ScoreHistory, error)
	statistics      func(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error)
}

func (m *mockJourneyServicer) CreateValidated(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error) {
	return m.createValidated(ctx, userID, in)
}
func (m *mockJourneyServicer) CreatePending(ctx context.Context, userID uuid.UUID, in service.JourneyInput) (domain.Journey, error) {
	return m.createPending(ctx, userID, in)
}
func (m *mockJourneyServicer) Get(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	return m.get(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) ListValidated(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error) {
	return m.listValidated(ctx, userID)
}
func (m *mockJourneyServicer) ListPending(ctx context.Context, userID uuid.UUID) ([]domain.Journey, error) {
	return m.listPending(ctx, userID)
}
func (m *mockJourneyServicer) Update(ctx context.Context, journeyID, userID uuid.UUID, upd domain.JourneyUpdate) (domain.Journey, error) {
	return m.update(ctx, journeyID, userID, upd)
}
func (m *mockJourneyServicer) Validate(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	return m.validate(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) Reject(ctx context.Context, journeyID, userID uuid.UUID) (domain.Journey, error) {
	return m.reject(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) Delete(ctx context.Context, journeyID, userID uuid.UUID) error {
	return m.delete(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) Recalculate(ctx context.Context, journeyID, userID uuid.UUID) (domain.ScoreHistory, error) {
	return m.recalculate(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) ScoreHistory(ctx context.Context, journeyID, userID uuid.UUID) ([]domain.ScoreHistory, error) {
	return m.scoreHistory(ctx, journeyID, userID)
}
func (m *mockJourneyServicer) Statistics(ctx context.Context, userID uuid.UUID) (domain.UserStatistics, error) {
	return m.statistics(ctx, userID)
}

var _ handler.JourneyServicer = (*mockJourneyServicer)(nil)

// mockAuthServicer verifies the two fixed test tokens and delegates the rest
// to function fields.
type mockAuthServicer struct {
	register func(ctx context.Context, in service.RegisterInput) (domain.User, error)
	login    func(ctx context.Context, username, password string) (service.TokenPair, error)
	refresh  func(ctx context.Context, refreshToken string) (service.TokenPair, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, in service.RegisterInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, username, password string) (service.TokenPair, error) {
	return m.login(ctx, username, password)
}
func (m *mockAuthServicer) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	return m.refresh(ctx, refreshToken)
}
func (m *mockAuthServicer) Verify(token string) (service.Identity, error) {
	switch token {
	case userToken:
		return service.Identity{UserID: testUserID, Role: domain.RoleUser}, nil
	case adminToken:
		return service.Identity{UserID: testAdminID, Role: domain.RoleAdmin}, nil
	}
	return service.Identity{}, errors.New("invalid token")
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// mockUserServicer is a hand-written test double for handler.UserServicer.
type mockUserServicer struct {
	getByID   func(ctx context.Context, id uuid.UUID) (domain.User, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.User, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockUserServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// mockCompanyServicer is a hand-written test double for handler.CompanyServicer.
type mockCompanyServicer struct {
	create  func(ctx context.Context, company domain.Company) (domain.Company, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Company, error)
	list    func(ctx context.Context) ([]domain.Company, error)
	update  func(ctx context.Context, company domain.Company) (domain.Company, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCompanyServicer) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	return m.create(ctx, company)
}
func (m *mockCompanyServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	return m.getByID(ctx, id)
}
func (m *mockCompanyServicer) List(ctx context.Context) ([]domain.Company, error) {
	return m.list(ctx)
}
func (m *mockCompanyServicer) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	return m.update(ctx, company)
}
func (m *mockCompanyServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.CompanyServicer = (*mockCompanyServicer)(nil)

// mockExportServicer is a hand-written test double for handler.ExportServicer.
type mockExportServicer struct {
	export func(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, userID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, userID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// testDeps bundles the mocks for one test server.
type testDeps struct {
	journeys  *mockJourneyServicer
	auth      *mockAuthServicer
	users     *mockUserServicer
	companies *mockCompanyServicer
	export    *mockExportServicer
}

func newDeps() *testDeps {
	return &testDeps{
		journeys:  &mockJourneyServicer{},
		auth:      &mockAuthServicer{},
		users:     &mockUserServicer{},
		companies: &mockCompanyServicer{},
		export:    &mockExportServicer{},
	}
}

func newRouter(d *testDeps) http.Handler {
	return handler.NewServer(d.journeys, d.auth, d.users, d.companies, d.export).Routes()
}

// do runs one request through the router. token may be empty for public
// endpoints or to probe the auth guard.
func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sampleJourney() domain.Journey {
	return domain.Journey{
		ID:              uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001"),
		UserID:          testUserID,
		Status:          domain.StatusValidated,
		DetectionSource: domain.SourceManual,
		PlaceDeparture:  "Gare de Lyon",
		PlaceArrival:    "La Défense",
		TimeDeparture:   testTime,
		TimeArrival:     testTime.Add(25 * time.Minute),
		DistanceKM:      12.5,
		DurationMinutes: 25,
		TransportMode:   domain.ModeMetro,
		CreatedAt:       testTime,
	}
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"`+wantCode+`"`)
}
