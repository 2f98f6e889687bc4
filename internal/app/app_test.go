package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MikhailRaia/link-rewards/internal/config"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{
			ServerAddress: ":8080",
			BaseURL:       "http://localhost:8080",
			JWTSecret:     "test-secret",
			AdminToken:    "admin-token",
		}
	}

	a, err := NewApp(cfg)
	require.NoError(t, err)

	a.visitPool.Start()
	t.Cleanup(a.visitPool.Stop)

	return a
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// TestApp_VisitRewardFlow walks the whole life of a link: sign up, shorten,
// get visited three times, watch the balance reach 0.6 units.
func TestApp_VisitRewardFlow(t *testing.T) {
	a := newTestApp(t, nil)

	rr := doJSON(t, a.handler, http.MethodPost, "/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, a.handler, http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var login struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rr = doJSON(t, a.handler, http.MethodPost, "/create-link", login.Token, map[string]string{
		"originalUrl": "https://example.com/article",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		ShortCode string `json:"shortCode"`
		ShortURL  string `json:"short_url"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	for i := 0; i < 3; i++ {
		rr = doJSON(t, a.handler, http.MethodGet, "/visit/"+created.ShortCode, "", nil)
		require.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "https://example.com/article", rr.Header().Get("Location"))
	}

	// crediting happens on the worker pool, so poll until it lands
	require.Eventually(t, func() bool {
		rr := doJSON(t, a.handler, http.MethodGet, "/api/user/me", login.Token, nil)
		if rr.Code != http.StatusOK {
			return false
		}
		var me model.User
		if err := json.Unmarshal(rr.Body.Bytes(), &me); err != nil {
			return false
		}
		return me.Balance == model.Money(60)
	}, 2*time.Second, 10*time.Millisecond, "three visits must credit exactly 0.6 units")

	rr = doJSON(t, a.handler, http.MethodGet, "/api/user/links", login.Token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var links []model.UserLink
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &links))
	require.Len(t, links, 1)
	assert.Equal(t, int64(3), links[0].Clicks)
}

func TestApp_WithdrawalFlow(t *testing.T) {
	a := newTestApp(t, nil)

	rr := doJSON(t, a.handler, http.MethodPost, "/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, a.handler, http.MethodPost, "/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var login struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))

	rr = doJSON(t, a.handler, http.MethodPost, "/create-link", login.Token, map[string]string{
		"originalUrl": "https://example.com",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		ShortCode string `json:"shortCode"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	// 50 visits at 0.2 units each clears the 10-unit withdrawal minimum
	for i := 0; i < 50; i++ {
		rr = doJSON(t, a.handler, http.MethodGet, "/visit/"+created.ShortCode, "", nil)
		require.Equal(t, http.StatusFound, rr.Code)
	}

	require.Eventually(t, func() bool {
		rr := doJSON(t, a.handler, http.MethodPost, "/withdraw", login.Token, nil)
		return rr.Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	rr = doJSON(t, a.handler, http.MethodGet, "/admin/withdrawals", "admin-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var pending []model.WithdrawalRequest
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, model.Money(1000), pending[0].Amount)

	rr = doJSON(t, a.handler, http.MethodPost, "/admin/approve-withdrawal/"+pending[0].ID, "admin-token", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, a.handler, http.MethodGet, "/admin/withdrawals", "admin-token", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))
	assert.Empty(t, pending)
}

func TestNewApp_FileStorage(t *testing.T) {
	cfg := &config.Config{
		ServerAddress:   ":8080",
		BaseURL:         "http://localhost:8080",
		FileStoragePath: filepath.Join(t.TempDir(), "journal.jsonl"),
		JWTSecret:       "test-secret",
	}

	a := newTestApp(t, cfg)

	rr := doJSON(t, a.handler, http.MethodPost, "/register", "", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "s3cret",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestNewApp_GRPCServerOnlyWhenConfigured(t *testing.T) {
	cfg := &config.Config{
		ServerAddress: ":8080",
		BaseURL:       "http://localhost:8080",
		JWTSecret:     "test-secret",
	}
	a, err := NewApp(cfg)
	require.NoError(t, err)
	assert.Nil(t, a.grpcServer)

	cfg.GRPCAddress = ":3200"
	a, err = NewApp(cfg)
	require.NoError(t, err)
	assert.NotNil(t, a.grpcServer)
}
