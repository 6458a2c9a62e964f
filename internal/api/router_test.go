package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/inventory-api/internal/auth"
	"github.com/example/inventory-api/internal/clock"
	"github.com/example/inventory-api/internal/domain/book"
	"github.com/example/inventory-api/internal/domain/inventory"
	"github.com/example/inventory-api/internal/domain/user"
	"github.com/example/inventory-api/internal/event"
	"github.com/example/inventory-api/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

type testServer struct {
	handler   http.Handler
	clock     *clock.Manual
	publisher *event.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	c := clock.NewManual(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	jwtService := auth.NewJWTService(testSecret, time.Hour, c)
	publisher := &event.Recorder{}

	handler := NewRouter(RouterConfig{
		Users:       user.NewService(user.NewMemoryRepository(), jwtService, publisher, c, nil),
		Inventory:   inventory.NewService(jwtService, inventory.NewMemoryStore(), publisher, c, nil),
		Books:       book.NewService(book.NewMemoryRepository()),
		Health:      health.NewChecker(),
		CORSOrigins: []string{"*"},
	})
	return &testServer{handler: handler, clock: c, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func (s *testServer) registerAndLogin(t *testing.T, id int64, username string) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/register", "", user.RegisterInput{
		ID: id, Username: username, Password: "pw", Name: username, Email: username + "@x.io",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: username, Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[user.Token](t, rec).AccessToken
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, code, decode[errorResponse](t, rec).Code)
}

func TestRouter_FullScenario(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/register", "", user.RegisterInput{
		ID: 1, Username: "alice", Password: "pw", Name: "Alice", Email: "alice@x.io",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", registered["username"])
	assert.NotContains(t, registered, "password_hash")

	rec = s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: "alice", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[user.Token](t, rec)
	assert.Equal(t, "bearer", token.TokenType)
	require.NotEmpty(t, token.AccessToken)

	widget := inventory.Item{ID: 10, Name: "Widget", Quantity: 5, Capacity: 100, Price: 2.5}
	rec = s.do(t, http.MethodPost, "/users/1/inventory/items", token.AccessToken, widget)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, widget, decode[inventory.Item](t, rec))

	rec = s.do(t, http.MethodGet, "/users/1/inventory", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []inventory.Item{widget}, decode[[]inventory.Item](t, rec))

	rec = s.do(t, http.MethodPut, "/users/1/inventory/items/10", token.AccessToken, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[inventory.Item](t, rec)
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "Widget", updated.Name)

	rec = s.do(t, http.MethodDelete, "/users/1/inventory/items/10", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/1/inventory", token.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, []string{
		event.TypeUserRegistered,
		event.TypeUserLoggedIn,
		event.TypeItemAdded,
		event.TypeItemQuantityUpdated,
		event.TypeItemDeleted,
	}, s.publisher.Types())
}

func TestRouter_LoginSetsCookie(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, 1, "alice")

	rec := s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: "alice", Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/users/1/inventory", nil)
	req.AddCookie(cookies[0])
	got := httptest.NewRecorder()
	s.handler.ServeHTTP(got, req)
	assertErrorCode(t, got, http.StatusNotFound, codeInventoryNotFound)
}

func TestRouter_RegisterErrors(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, 1, "alice")

	rec := s.do(t, http.MethodPost, "/register", "", user.RegisterInput{
		ID: 2, Username: "alice", Password: "other", Name: "Other", Email: "other@x.io",
	})
	assertErrorCode(t, rec, http.StatusConflict, codeConflict)

	rec = s.do(t, http.MethodPost, "/register", "", user.RegisterInput{
		ID: 3, Username: "carol", Password: "pw", Name: "Carol", Email: "not-an-email",
	})
	assertErrorCode(t, rec, http.StatusBadRequest, codeInvalidRequest)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString("{"))
	got := httptest.NewRecorder()
	s.handler.ServeHTTP(got, req)
	assertErrorCode(t, got, http.StatusBadRequest, codeInvalidRequest)
}

func TestRouter_LoginInvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, 1, "alice")

	rec := s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: "alice", Password: "wrong"})
	assertErrorCode(t, rec, http.StatusUnauthorized, codeInvalidCredentials)

	rec = s.do(t, http.MethodPost, "/login", "", LoginRequest{Username: "nobody", Password: "pw"})
	assertErrorCode(t, rec, http.StatusUnauthorized, codeInvalidCredentials)
}

func TestRouter_InventoryAuthErrors(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.registerAndLogin(t, 1, "alice")
	s.registerAndLogin(t, 2, "bob")

	rec := s.do(t, http.MethodGet, "/users/1/inventory", "", nil)
	assertErrorCode(t, rec, http.StatusUnauthorized, "unauthorized")

	rec = s.do(t, http.MethodGet, "/users/2/inventory", aliceToken, nil)
	assertErrorCode(t, rec, http.StatusForbidden, codeForbidden)

	rec = s.do(t, http.MethodGet, "/users/1/inventory", "garbage", nil)
	assertErrorCode(t, rec, http.StatusUnauthorized, codeInvalidToken)

	s.clock.Advance(61 * time.Minute)
	rec = s.do(t, http.MethodGet, "/users/1/inventory", aliceToken, nil)
	assertErrorCode(t, rec, http.StatusUnauthorized, codeTokenExpired)
}

func TestRouter_InventoryErrors(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, 1, "alice")

	rec := s.do(t, http.MethodGet, "/users/1/inventory", token, nil)
	assertErrorCode(t, rec, http.StatusNotFound, codeInventoryNotFound)

	rec = s.do(t, http.MethodPut, "/users/1/inventory/items/10", token, map[string]int{"quantity": 3})
	assertErrorCode(t, rec, http.StatusNotFound, codeInventoryNotFound)

	item := inventory.Item{ID: 10, Name: "Widget", Quantity: 5, Capacity: 100, Price: 2.5}
	rec = s.do(t, http.MethodPost, "/users/1/inventory/items", token, item)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/users/1/inventory/items", token, item)
	assertErrorCode(t, rec, http.StatusConflict, codeDuplicateItem)

	rec = s.do(t, http.MethodDelete, "/users/1/inventory/items/99", token, nil)
	assertErrorCode(t, rec, http.StatusNotFound, codeItemNotFound)

	rec = s.do(t, http.MethodPut, "/users/1/inventory/items/10", token, map[string]int{})
	assertErrorCode(t, rec, http.StatusBadRequest, codeInvalidRequest)

	rec = s.do(t, http.MethodGet, "/users/abc/inventory", token, nil)
	assertErrorCode(t, rec, http.StatusBadRequest, codeInvalidRequest)
}

func TestRouter_WelcomeAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[messageResponse](t, rec).Message, "/books/")

	rec = s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPatch, "/users/1/inventory", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
