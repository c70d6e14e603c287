package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aanand-mishra/edu-admin-api/internal/admin"
	"github.com/aanand-mishra/edu-admin-api/internal/auth"
	"github.com/aanand-mishra/edu-admin-api/internal/notify"
	"github.com/aanand-mishra/edu-admin-api/internal/storage"
	"github.com/aanand-mishra/edu-admin-api/internal/storage/memory"
	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var today = time.Now().Format(types.DateLayout)

func newTestServer(t *testing.T, tokens *auth.TokenManager) *httptest.Server {
	t.Helper()

	store := memory.New(storage.DefaultSeed())
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(New(Deps{
		Users:    admin.NewUsers(store, admin.WithBcryptCost(bcrypt.MinCost)),
		Payments: admin.NewPayments(store, notify.NewLogNotifier(quiet, 0)),
		Tokens:   tokens,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any, header http.Header) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type errorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type userResult struct {
	Message string           `json:"message"`
	User    types.PublicUser `json:"user"`
}

type paymentResult struct {
	Message string        `json:"message"`
	Payment types.Payment `json:"payment"`
}

func TestUsers_ListNeverLeaksPasswords(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	users := decode[[]map[string]any](t, raw)
	require.Len(t, users, 4)
	for _, u := range users {
		assert.NotContains(t, u, "password")
		assert.NotContains(t, u, "passwordHash")
	}
}

func TestUsers_CreateFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/admin/create-user",
		map[string]string{"username": "ann", "email": "ann@x.com", "password": "p"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	created := decode[userResult](t, raw)
	assert.Equal(t, "User created successfully", created.Message)
	assert.Equal(t, int64(5), created.User.ID)
	assert.Equal(t, "Teacher", created.User.Role)
	assert.Equal(t, "Active", created.User.Status)
	assert.Equal(t, today, created.User.LastLogin)
	assert.NotContains(t, string(raw), "password")

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/admin/create-user",
		map[string]string{"username": "ann", "email": "other@x.com", "password": "p"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "username already exists", decode[errorBody](t, raw).Error)

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/admin/create-user",
		map[string]string{"username": "ann2", "email": "ann@x.com", "password": "p"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email already exists", decode[errorBody](t, raw).Error)

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/admin/create-user",
		map[string]string{"username": "bob"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, raw)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "field email is required, field password is required", body.Error)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/admin/create-user", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.PublicUser](t, raw), 5)
}

func TestUsers_SearchAndView(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/admin/search-users?query=Teacher", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.PublicUser](t, raw), 2)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/admin/search-users", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.PublicUser](t, raw), 4)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/admin/view-user/2", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sarah_parent", decode[types.PublicUser](t, raw).Username)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/admin/view-user/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/admin/view-user/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid id: must be an integer", decode[errorBody](t, raw).Error)
}

func TestUsers_EditAndDelete(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodPut, srv.URL+"/api/admin/edit-user/1",
		map[string]string{"username": "john_teacher", "email": "john@example.com"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "User updated successfully", decode[userResult](t, raw).Message)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/edit-user/1",
		map[string]string{"username": "sarah_parent", "email": "john@example.com"}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/edit-user/99",
		map[string]string{"username": "x", "email": "x@x.com"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/admin/edit-user/1",
		map[string]string{"username": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/admin/delete-user/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodDelete, srv.URL+"/api/admin/delete-user/3", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, string(raw))

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.PublicUser](t, raw), 3)
}

func TestPayments_Lifecycle(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/payments/2/mark-paid", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	paid := decode[paymentResult](t, raw).Payment
	assert.Equal(t, "Paid", paid.Status)
	assert.Equal(t, "Manual Entry", *paid.Method)
	assert.Equal(t, today, *paid.PaidDate)

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/payments/2/mark-paid", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[errorBody](t, raw).Error, "already marked as paid")

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/payments/2/refund", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	refunded := decode[paymentResult](t, raw).Payment
	assert.Equal(t, "Refunded", refunded.Status)
	assert.Equal(t, "Refunded on "+today, refunded.Notes)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/payments/2/refund", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/payments/99/refund", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/payments/2", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Refunded", decode[types.Payment](t, raw).Status)
}

func TestPayments_Create(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/payments", map[string]any{
		"studentName": "Eve Adams",
		"course":      "Biology",
		"amount":      150.75,
		"dueDate":     "2024-04-01",
		"notes":       "first term",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	created := decode[paymentResult](t, raw)
	assert.Equal(t, "Payment created successfully", created.Message)
	assert.Equal(t, int64(5), created.Payment.ID)
	assert.Equal(t, "Pending", created.Payment.Status)
	assert.Nil(t, created.Payment.PaidDate)

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/payments", map[string]any{
		"studentName": "Eve Adams",
		"amount":      150.75,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "field course is required, field dueDate is required", decode[errorBody](t, raw).Error)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]types.Payment](t, raw), 5)
}

func TestPayments_Reminder(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/payments/3/reminder",
		map[string]any{"message": "Please pay", "sendSMS": true}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	body := decode[map[string]any](t, raw)
	assert.Equal(t, "Reminder sent successfully", body["message"])
	assert.Equal(t, float64(3), body["paymentId"])
	assert.Equal(t, []any{"sms"}, body["deliveryMethods"])
	assert.NotEmpty(t, body["reminderId"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/payments/3/reminder",
		map[string]any{"message": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/payments/99/reminder",
		map[string]any{"message": "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetaAndHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/meta", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	meta := decode[types.Meta](t, raw)
	assert.NotEmpty(t, meta.Subjects)
	assert.NotEmpty(t, meta.Curriculums)
	assert.NotEmpty(t, meta.Categories)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/meta/autocomplete?query=phys", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Physics"}, decode[[]string](t, raw))
}

func TestAuthEnabled(t *testing.T) {
	tm := auth.NewTokenManager([]byte("secret"), "edu-admin-api", time.Hour)
	srv := newTestServer(t, tm)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil,
		http.Header{"Authorization": {"Bearer forged"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := tm.Issue("admin", types.RoleAdmin)
	require.NoError(t, err)
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/payments", nil,
		http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The catalogue stays public.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/meta", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecoverer(t *testing.T) {
	h := recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"internal server error"}`, rec.Body.String())
}
