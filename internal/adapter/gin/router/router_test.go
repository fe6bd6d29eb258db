package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"person-web-service/internal/adapter/db/gormdb"
	"person-web-service/internal/adapter/db/rawsql"
	"person-web-service/internal/adapter/gin/handler"
	"person-web-service/internal/adapter/gin/middleware"
	"person-web-service/internal/usecase/person"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupApp(t testing.TB, opts Options) *testApp {
	t.Helper()
	log := zaptest.NewLogger(t, zaptest.Level(zapcore.WarnLevel))

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gormdb.AutoMigrate(gdb))

	searcher, err := rawsql.NewPersonSearcher(context.Background(), sqlx.NewDb(sqlDB, rawsql.DriverName("sqlite")), log)
	require.NoError(t, err)

	uc := person.New(gormdb.NewPersonRepo(gdb, log), searcher, log)

	store := sessions.NewCookieStore([]byte("test-secret"))
	store.Options = &sessions.Options{Path: "/", MaxAge: 1800, HttpOnly: true, SameSite: http.SameSiteLaxMode}

	h := handler.NewWebHandler(uc, store, "session", sqlDB.PingContext, log)
	r, err := SetupRouter(h, opts, log)
	require.NoError(t, err)

	return &testApp{router: r, db: gdb}
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (a *testApp) post(values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) count(t *testing.T) int64 {
	var n int64
	require.NoError(t, a.db.Model(&gormdb.PersonSchema{}).Count(&n).Error)
	return n
}

func personForm(fname, lname, email string) url.Values {
	return url.Values{"fname": {fname}, "lname": {lname}, "email": {email}}
}

func TestCreate_DigitsRejected(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.post(personForm("John3", "Doe", "john@example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Only letters and spaces allowed.")
	assert.Equal(t, int64(0), app.count(t))
}

func TestCreate_InvalidEmailRejected(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.post(personForm("John", "Doe", "not-an-email"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email address.")
	assert.Equal(t, int64(0), app.count(t))
}

func TestCreate_ValidRedirectsAndLists(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.post(personForm("  John ", "Doe", "john@example.com"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, int64(1), app.count(t))

	var stored gormdb.PersonSchema
	require.NoError(t, app.db.First(&stored).Error)
	assert.Equal(t, "John", stored.Fname)

	w = app.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<td>john@example.com</td>")
}

func TestCreate_MarkupNeverReflected(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.post(personForm("<script>alert(1)</script>", "Doe", "john@example.com"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>alert(1)</script>")
	assert.Equal(t, int64(0), app.count(t))
}

func TestCreate_StoresEscapedValues(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.post(personForm("Mary Ann", "Neil", "o'neil@example.com"))
	require.Equal(t, http.StatusFound, w.Code)

	var stored gormdb.PersonSchema
	require.NoError(t, app.db.First(&stored).Error)
	assert.Equal(t, "o&#39;neil@example.com", stored.Email)

	w = app.get("/search/Mary%20Ann")
	assert.Equal(t, "Mary Ann Neil (o&#39;neil@example.com)\n", w.Body.String())
}

func TestSearch(t *testing.T) {
	app := setupApp(t, Options{})
	require.Equal(t, http.StatusFound, app.post(personForm("John", "Doe", "john@example.com")).Code)
	require.Equal(t, http.StatusFound, app.post(personForm("Jane", "Smith", "jane@example.com")).Code)

	w := app.get("/search/John")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "John Doe (john@example.com)\n", w.Body.String())

	w = app.get("/search/Nobody")
	assert.Equal(t, handler.NoRecordsMessage, w.Body.String())

	w = app.get("/search/" + url.PathEscape("x' OR '1'='1"))
	assert.Equal(t, handler.NoRecordsMessage, w.Body.String())
	assert.Equal(t, int64(2), app.count(t))
}

func TestStaticRoutes(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.get("/home")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.HomeMessage, w.Body.String())

	w = app.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = app.get("/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "404 - Page Not Found")
}

func TestSetSession_CookieAttributes(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.get("/set_session")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 1800, cookies[0].MaxAge)
}

func TestSecurityHeaders(t *testing.T) {
	app := setupApp(t, Options{})

	w := app.get("/home")

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	app := setupApp(t, Options{CSRF: &middleware.CSRFConfig{SecretKey: "test-secret"}})

	w := app.post(personForm("John", "Doe", "john@example.com"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "403 - Forbidden")
	assert.Equal(t, int64(0), app.count(t))

	w = app.get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="`+middleware.CSRFFieldName+`"`)
}

func TestMetricsEndpoint(t *testing.T) {
	app := setupApp(t, Options{Metrics: middleware.NewMetrics("")})

	app.get("/home")
	w := app.get("/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/home",status="200"} 1`)
}

// ==================== BENCHMARKS ====================

func BenchmarkIndex(b *testing.B) {
	app := setupApp(b, Options{})
	for i := range 50 {
		require.Equal(b, http.StatusFound, app.post(personForm("John", "Doe", fmt.Sprintf("john%d@example.com", i))).Code)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if w := app.get("/"); w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	app := setupApp(b, Options{})
	require.Equal(b, http.StatusFound, app.post(personForm("John", "Doe", "john@example.com")).Code)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if w := app.get("/search/John"); w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

func BenchmarkCreate(b *testing.B) {
	app := setupApp(b, Options{})

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if w := app.post(personForm("John", "Doe", "john@example.com")); w.Code != http.StatusFound {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}
