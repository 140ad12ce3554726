package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilov/authgate/internal/logging"
	"github.com/avilov/authgate/internal/server/auth"
	"github.com/avilov/authgate/internal/server/ratelimit"
	"github.com/avilov/authgate/internal/server/repositories/users"
	"github.com/avilov/authgate/internal/server/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func nopLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := users.NewStore(users.NewFileBlob(filepath.Join(t.TempDir(), "users.json")), 1000)
	tokens := auth.NewService("test-secret", time.Hour)
	limiter := ratelimit.New(5, 15*time.Minute)
	logger := nopLogger()
	svc := services.NewAuthService(store, tokens, limiter, logger)

	return NewRouter(NewHandler(svc, logger), tokens, []string{"http://localhost:3000"})
}

func doJSON(r *gin.Engine, method, path, body, ip, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.RemoteAddr = ip + ":12345"
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

const registerBody = `{"username":"alice01","email":"a@example.com","password":"Abcdef12"}`

func registerAlice(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/register", registerBody, "10.0.0.1", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode(t, w)
	data := m["data"].(map[string]any)
	return data["token"].(string)
}

func TestRegister_Created(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/register", registerBody, "10.0.0.1", "")
	require.Equal(t, http.StatusCreated, w.Code)

	m := decode(t, w)
	assert.Equal(t, true, m["success"])

	user := m["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "alice01", user["username"])

	// projection must never expose credentials
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "salt")
	assert.NotContains(t, user, "password")
}

func TestRegister_ValidationErrors(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/register",
		`{"username":"a!","email":"nope","password":"short"}`, "10.0.0.1", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	m := decode(t, w)
	assert.Equal(t, false, m["success"])
	assert.Len(t, m["errors"], 5)
}

func TestRegister_Duplicate(t *testing.T) {
	r := newTestRouter(t)
	registerAlice(t, r)

	w := doJSON(r, http.MethodPost, "/register", registerBody, "10.0.0.2", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_MalformedBody(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/register", `{"username":`, "10.0.0.1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Statuses(t *testing.T) {
	r := newTestRouter(t)
	registerAlice(t, r)

	w := doJSON(r, http.MethodPost, "/login",
		`{"username":"alice01","password":"Abcdef12"}`, "10.0.1.1", "")
	require.Equal(t, http.StatusOK, w.Code)
	m := decode(t, w)
	user := m["data"].(map[string]any)["user"].(map[string]any)
	assert.NotNil(t, user["lastLogin"])

	w = doJSON(r, http.MethodPost, "/login",
		`{"username":"alice01","password":"wrong"}`, "10.0.1.2", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid password", decode(t, w)["message"])

	w = doJSON(r, http.MethodPost, "/login",
		`{"username":"nobody","password":"x"}`, "10.0.1.3", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user not found", decode(t, w)["message"])
}

func TestLogin_RateLimited(t *testing.T) {
	r := newTestRouter(t)
	registerAlice(t, r)

	for i := 0; i < 5; i++ {
		w := doJSON(r, http.MethodPost, "/login",
			`{"username":"alice01","password":"wrong"}`, "10.0.2.1", "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	w := doJSON(r, http.MethodPost, "/login",
		`{"username":"alice01","password":"Abcdef12"}`, "10.0.2.1", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestVerifyToken(t *testing.T) {
	r := newTestRouter(t)
	token := registerAlice(t, r)

	w := doJSON(r, http.MethodGet, "/verify-token", "", "10.0.3.1", token)
	require.Equal(t, http.StatusOK, w.Code)

	m := decode(t, w)
	user := m["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "alice01", user["username"])
}

func TestVerifyToken_Failures(t *testing.T) {
	r := newTestRouter(t)
	registerAlice(t, r)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "garbage"},
		{"tampered", tamperToken(registerAlice2(t, r))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/verify-token", "", "10.0.3.2", tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

// registerAlice2 registers a second distinct user so token helpers do not
// collide with the fixtures above.
func registerAlice2(t *testing.T, r *gin.Engine) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":"bob%d","email":"bob%d@example.com","password":"Abcdef12"}`,
		time.Now().UnixNano()%100000, time.Now().UnixNano()%100000)
	w := doJSON(r, http.MethodPost, "/register", body, "10.0.9.9", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["data"].(map[string]any)["token"].(string)
}

func tamperToken(token string) string {
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	return parts[0] + "." + string(payload) + "." + parts[2]
}

func TestProfile(t *testing.T) {
	r := newTestRouter(t)
	token := registerAlice(t, r)

	w := doJSON(r, http.MethodGet, "/profile", "", "10.0.4.1", token)
	require.Equal(t, http.StatusOK, w.Code)

	user := decode(t, w)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "alice01", user["username"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "salt")
}

func TestNoRoute(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/nope", "", "10.0.5.1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/nope", "", "10.0.6.1", "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
