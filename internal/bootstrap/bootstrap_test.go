package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/memberdir/internal/app/repositories/memory"
	"github.com/yigit/memberdir/internal/config"
	"github.com/yigit/memberdir/internal/domain"
	"github.com/yigit/memberdir/internal/seed"
	"github.com/yigit/memberdir/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type app struct {
	t      *testing.T
	store  *memory.Store
	deps   *Dependencies
	router *gin.Engine
}

type stubHealth struct{ err error }

func (s stubHealth) Ping(context.Context) error { return s.err }

func newApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("JWT_SECRET", "integration-secret")
	t.Setenv("STORAGE_PATH", t.TempDir())

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	store := memory.New()
	SeedDefaults(context.Background(), store, zerolog.Nop())

	deps, err := BuildDependencies(cfg, store, zerolog.Nop())
	require.NoError(t, err)

	return &app{t: t, store: store, deps: deps, router: SetupRouter(cfg, deps)}
}

func (a *app) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.serve(req)
}

func (a *app) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func registrationBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"first_name": "Asha",
		"email":      email,
		"password":   "secret123",
		"business_profiles": []map[string]interface{}{
			{"business_type": "salary", "company_name": "Acme", "designation": "Clerk", "salary": "20000"},
		},
	}
}

func (a *app) register(email string) int64 {
	a.t.Helper()
	return a.registerAs("", registrationBody(email))
}

func (a *app) registerAs(token string, body map[string]interface{}) int64 {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/members/register", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		ID            int64  `json:"id"`
		ApplicationID string `json:"application_id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(a.t, data.ApplicationID)
	return data.ID
}

func (a *app) login(email, password string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(a.t, data.AccessToken)
	return data.AccessToken
}

func TestRegisterLoginAndOwnership(t *testing.T) {
	a := newApp(t)

	ashaID := a.register("asha@example.com")
	otherID := a.register("ravi@example.com")
	token := a.login("ASHA@example.com", "secret123")

	w, env := a.do(http.MethodGet, fmt.Sprintf("/api/v1/members/%d", ashaID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var member struct {
		Email            string            `json:"email"`
		BusinessProfiles []json.RawMessage `json:"business_profiles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &member))
	assert.Equal(t, "asha@example.com", member.Email)
	assert.Len(t, member.BusinessProfiles, 1)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/members/%d", otherID), token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/members", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/members/%d", ashaID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterStandingFieldsNeedAdmin(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	standing := map[string]interface{}{
		"access_level":           "Admin",
		"status":                 "Approved",
		"paid_status":            "Paid",
		"membership_valid_until": "2099-01-01",
	}
	withStanding := func(email string) map[string]interface{} {
		body := registrationBody(email)
		for k, v := range standing {
			body[k] = v
		}
		return body
	}

	t.Run("anonymous caller gets defaults", func(t *testing.T) {
		id := a.registerAs("", withStanding("mallory@example.com"))

		m, err := a.store.Members().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.AccessLevelBasic, m.AccessLevel)
		assert.Equal(t, domain.MemberStatusPending, m.Status)
		assert.Equal(t, domain.PaidStatusUnpaid, m.PaidStatus)
		assert.Nil(t, m.MembershipValidUntil)

		token := a.login("mallory@example.com", "secret123")
		w, _ := a.do(http.MethodGet, "/api/v1/members", token, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("basic member token is not enough", func(t *testing.T) {
		a.register("basic@example.com")
		token := a.login("basic@example.com", "secret123")

		id := a.registerAs(token, withStanding("friend@example.com"))
		m, err := a.store.Members().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.AccessLevelBasic, m.AccessLevel)
	})

	t.Run("admin sets standing", func(t *testing.T) {
		_, err := seed.CreateAdmin(ctx, a.store, seed.Admin{Email: "ops@example.com", Password: "adminpass"}, zerolog.Nop())
		require.NoError(t, err)
		token := a.login("ops@example.com", "adminpass")

		id := a.registerAs(token, withStanding("deputy@example.com"))
		m, err := a.store.Members().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.AccessLevelAdmin, m.AccessLevel)
		assert.Equal(t, domain.MemberStatusApproved, m.Status)
		assert.Equal(t, domain.PaidStatusPaid, m.PaidStatus)
		require.NotNil(t, m.MembershipValidUntil)
		assert.Equal(t, 2099, m.MembershipValidUntil.Year())
	})
}

func TestRegisterErrors(t *testing.T) {
	a := newApp(t)
	a.register("asha@example.com")

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "duplicate email",
			body: map[string]interface{}{
				"first_name": "Asha", "email": "Asha@Example.com", "password": "secret123",
				"business_profiles": []map[string]string{{"business_type": "salary"}},
			},
		},
		{
			name: "missing first name",
			body: map[string]interface{}{"email": "new@example.com", "password": "secret123"},
		},
		{
			name: "unknown referral",
			body: map[string]interface{}{
				"first_name": "Ravi", "email": "ravi@example.com", "password": "secret123",
				"referral_code":     "MBR-NOPE",
				"business_profiles": []map[string]string{{"business_type": "salary"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := a.do(http.MethodPost, "/api/v1/members/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.False(t, env.Success)
		})
	}
	assert.Equal(t, 1, a.store.Counts().Members)
}

func TestMultipartRegistrationServesUpload(t *testing.T) {
	a := newApp(t)

	body, contentType := testutil.MultipartBody(t, map[string]string{
		"first_name":        "Asha",
		"email":             "asha@example.com",
		"password":          "secret123",
		"business_profiles": `[{"business_type":"salary","company_name":"Acme"}]`,
	}, testutil.UploadFile{Field: "profile_image", Filename: "me.jpg", Content: "jpeg-bytes"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/members/register", body)
	req.Header.Set("Content-Type", contentType)
	w, env := a.serve(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		ProfileImage *string `json:"profile_image"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotNil(t, data.ProfileImage)

	w, _ = a.serve(httptest.NewRequest(http.MethodGet, "/"+*data.ProfileImage, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg-bytes", w.Body.String())
}

func TestAdminRoutes(t *testing.T) {
	a := newApp(t)
	memberID := a.register("asha@example.com")

	_, err := seed.CreateAdmin(context.Background(), a.store, seed.Admin{Email: "ops@example.com", Password: "adminpass"}, zerolog.Nop())
	require.NoError(t, err)
	token := a.login("ops@example.com", "adminpass")

	w, _ := a.do(http.MethodGet, "/api/v1/members?page=1&pageSize=10", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Bakery"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = a.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Bakery"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodDelete, fmt.Sprintf("/api/v1/members/%d", memberID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = a.do(http.MethodGet, fmt.Sprintf("/api/v1/members/%d", memberID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFamilyRoutes(t *testing.T) {
	a := newApp(t)
	memberID := a.register("asha@example.com")
	token := a.login("asha@example.com", "secret123")
	path := fmt.Sprintf("/api/v1/members/%d/family", memberID)

	family := map[string]interface{}{"father_name": "Raman", "marital_status": "Single"}
	w, _ := a.do(http.MethodPost, path, token, family)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env := a.do(http.MethodPost, path, token, family)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)

	w, _ = a.do(http.MethodPut, path, token, map[string]interface{}{"father_name": "Raman K"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = a.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicOpsEndpoints(t *testing.T) {
	a := newApp(t)

	w, env := a.do(http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, len(seed.DefaultCategories))

	w, _ = a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Member Directory API")

	a.deps.Health = stubHealth{err: errors.New("connection refused")}
	a.router = SetupRouter(mustConfig(t), a.deps)
	w, _ = a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_request_duration_seconds")
}

func mustConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	return cfg
}
