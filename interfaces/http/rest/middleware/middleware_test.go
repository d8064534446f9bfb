package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"supramolecular/pkg/auth"
	"supramolecular/pkg/common"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "0123456789abcdef0123456789abcdef"

type observation struct {
	method, route string
	status        int
}

type recordingObserver struct {
	mu  sync.Mutex
	obs []observation
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, observation{method, route, status})
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuthenticate(t *testing.T) {
	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: secret})
	require.NoError(t, err)
	gen, err := auth.NewJWTGenerator(auth.JWTConfig{SecretKey: secret}, time.Minute)
	require.NoError(t, err)
	token, err := gen.GenerateToken("alice", "")
	require.NoError(t, err)

	var subject string
	h := Authenticate(validator, errs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = common.GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/data", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "alice", subject)
}

func TestAuthenticate_NilValidatorPassesThrough(t *testing.T) {
	h := Authenticate(nil, pkgerrors.NewErrorHandler(zap.NewNop(), false))(http.HandlerFunc(ok))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/data", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_PerClient(t *testing.T) {
	limiter := auth.NewIPRateLimiter(0.001, 1)
	h := RateLimit(limiter, pkgerrors.NewErrorHandler(zap.NewNop(), false))(http.HandlerFunc(ok))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/fitters", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234").Code)
	limited := send("10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1234").Code)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(Metrics(observer))
	r.Get("/fits/{fitID}", ok)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fits/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, observer.obs, 2)
	assert.Equal(t, observation{"GET", "/fits/{fitID}", http.StatusOK}, observer.obs[0])
	assert.Equal(t, http.StatusNotFound, observer.obs[1].status)
}

func TestVersionHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	Version(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, APIVersion, rec.Header().Get("X-API-Version"))
}

func TestLogger_PassesStatusThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
