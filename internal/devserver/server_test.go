package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer([]byte("test-secret")).Router()
}

func loginToken(t *testing.T, r *gin.Engine) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", "doctor@example.org")
	form.Set("password", "changeme")

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.AccessToken)
	return payload.AccessToken
}

func doJSON(r *gin.Engine, method, path, token, body string, headers ...string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	r := setupTestRouter()

	form := url.Values{}
	form.Set("username", "doctor@example.org")
	form.Set("password", "wrong")

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RequiresToken(t *testing.T) {
	r := setupTestRouter()

	w := doJSON(r, http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := loginToken(t, r)
	w = doJSON(r, http.MethodGet, "/api/v1/auth/me", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doctor@example.org")
}

func TestEvents_CreateAndAppend(t *testing.T) {
	r := setupTestRouter()
	token := loginToken(t, r)

	w := doJSON(r, http.MethodPost, "/api/v1/events/", token, `{"event_name":"ward-rounds"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var ev struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))

	w = doJSON(r, http.MethodPatch, "/api/v1/events/"+ev.ID+"/append", token, `{"data":"bed 4 stable"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bed 4 stable")

	w = doJSON(r, http.MethodGet, "/api/v1/events/"+ev.ID, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ward-rounds")
}

func TestAppend_UnknownEventIs404(t *testing.T) {
	r := setupTestRouter()
	token := loginToken(t, r)

	w := doJSON(r, http.MethodPatch, "/api/v1/events/evt_999/append", token, `{"data":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVitals_RecordedPerAppointment(t *testing.T) {
	r := setupTestRouter()
	token := loginToken(t, r)

	w := doJSON(r, http.MethodPost, "/api/v1/appointments/apt_1/vitals", token, `{"pulse":72,"spo2":98}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/appointments/apt_1/vitals", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pulse":72`)

	w = doJSON(r, http.MethodGet, "/api/v1/appointments/apt_2/vitals", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestIdempotencyKey_ReplayReturnsFirstResponse(t *testing.T) {
	r := setupTestRouter()
	token := loginToken(t, r)

	first := doJSON(r, http.MethodPost, "/api/v1/events/", token, `{"event_name":"dup"}`,
		"Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(r, http.MethodPost, "/api/v1/events/", token, `{"event_name":"dup"}`,
		"Idempotency-Key", "k-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// only one event was actually created
	w := doJSON(r, http.MethodGet, "/api/v1/events/", token, "")
	var events []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 1)
}

func TestAgentAnalyze_AnswersQuestion(t *testing.T) {
	r := setupTestRouter()
	token := loginToken(t, r)

	w := doJSON(r, http.MethodPost, "/api/v1/agent/analyze", token, `{"question":"any abnormalities?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "answer")
}
